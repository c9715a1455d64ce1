package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spendpal/internal/domain/user"
	"spendpal/internal/session"
)

var (
	loginEmail    string
	loginPassword string
	registerName  string
	registerUser  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: `Sign in against the SpendPal backend. The password is read from
--password, then SPENDPAL_PASSWORD, then the first line of stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		sess, tokens, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.Login(cmd.Context(), loginEmail, password); err != nil {
			return errors.New(session.UserMessage(err))
		}
		defer sess.Wait()
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (token saved to %s)\n", sess.Info().Profile.DisplayName(), tokens.Path())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		sess, _, err := openSession()
		if err != nil {
			return err
		}
		err = sess.Register(cmd.Context(), user.RegisterParams{
			Email:    loginEmail,
			Password: password,
			Name:     registerName,
			Username: registerUser,
		})
		if err != nil {
			return errors.New(session.UserMessage(err))
		}
		defer sess.Wait()
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome to SpendPal, %s\n", sess.Info().Profile.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, tokens, err := openSession()
		if err != nil {
			return err
		}
		// Restore first so the backend session is signed out too.
		if err := sess.Bootstrap(cmd.Context()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Stored session was not valid: %v\n", err)
		}
		if err := sess.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed out (removed %s)\n", tokens.Path())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
		cmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
		cmd.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerUser, "username", "", "unique username")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

func readPassword(cmd *cobra.Command) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	if env := os.Getenv("SPENDPAL_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
