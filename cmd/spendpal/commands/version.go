package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X spendpal/cmd/spendpal/commands.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the SpendPal version",
	Annotations: map[string]string{"config": "none"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spendpal %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
