package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spendpal/internal/view"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in user and a summary of their data",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := restore(cmd.Context())
		if err != nil {
			return err
		}
		info := sess.Info()
		snap := sess.Snapshot()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "User\t%s <%s>\n", info.Profile.DisplayName(), info.Profile.Email)
		fmt.Fprintf(w, "Status\t%s\n", info.Status)
		fmt.Fprintf(w, "Balance\t%s\n", snap.Balance.StringFixed(2))
		fmt.Fprintf(w, "Accessible funds\t%s\n", snap.AccessibleFunds().StringFixed(2))
		fmt.Fprintf(w, "Requests\t%d\n", len(snap.Requests))
		fmt.Fprintf(w, "Awaiting your approval\t%d\n", len(view.PendingApprovals(snap)))
		fmt.Fprintf(w, "Partners\t%d\n", len(snap.Partners))
		fmt.Fprintf(w, "Unread messages\t%d\n", snap.TotalUnreadMessages())
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
