package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spendpal/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export requests and wallet transactions to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := restore(cmd.Context())
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		if err := export.WriteXLSX(f, sess.Snapshot()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}

		snap := sess.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d requests and %d transactions to %s\n",
			len(snap.Requests), len(snap.Transactions), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "spendpal.xlsx", "output file")
	rootCmd.AddCommand(exportCmd)
}
