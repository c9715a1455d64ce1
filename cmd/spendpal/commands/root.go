package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spendpal/internal/infrastructure/backend"
	"spendpal/internal/infrastructure/tokenstore"
	"spendpal/internal/session"
	"spendpal/internal/shared/config"
)

var (
	envFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spendpal",
	Short: "SpendPal - peer-accountability spending client",
	Long: `SpendPal lets you submit spending requests that trusted partners approve
or reject before the money is considered accessible.

This CLI signs in against the SpendPal backend, keeps the session token on
disk, serves a local JSON API for a front end and exports your history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["config"] == "none" {
			return nil
		}
		if err := loadEnv(); err != nil {
			return err
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env when present)")
}

func loadEnv() error {
	if envFile == "" {
		return config.LoadDotEnv()
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// openSession wires the token file, backend client and session from cfg.
func openSession() (*session.Session, *tokenstore.File, error) {
	tokens, err := tokenstore.NewFile(cfg.Session.TokenFile)
	if err != nil {
		return nil, nil, err
	}
	api := backend.NewClient(cfg.Backend.URL, tokens, backend.WithTimeout(cfg.Backend.Timeout))
	sess := session.New(api, tokens, session.WithLoader(cfg.Loader.Workers, cfg.Loader.JobTimeout))
	return sess, tokens, nil
}

// restore bootstraps the persisted session and waits for its data load.
func restore(ctx context.Context) (*session.Session, error) {
	sess, _, err := openSession()
	if err != nil {
		return nil, err
	}
	if err := sess.Bootstrap(ctx); err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, fmt.Errorf("%w: run \"spendpal login\" first", session.ErrNotAuthenticated)
	}
	sess.Wait()
	return sess, nil
}
