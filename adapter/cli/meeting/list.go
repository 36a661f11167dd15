package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var listOpenOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		meetings, err := app.ListMeetingsHandler.Handle(cmd.Context(), scheduleQueries.ListMeetingsQuery{
			UserID:   actor,
			OpenOnly: listOpenOnly,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, meetings)
		}
		if len(meetings) == 0 {
			fmt.Fprintln(out, "No meetings.")
			return nil
		}
		for _, m := range meetings {
			fmt.Fprintf(out, "%s  %s - %s  %-9s %-9s %s\n",
				m.ID, m.Start.Format("2006-01-02 15:04"), m.End.Format("15:04"),
				m.Status, m.InvitationStatus, m.Subject)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOpenOnly, "open", false, "only open meetings")
}
