package meeting

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [meeting-id]",
	Short: "Show a meeting and its participants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		meetingID, err := cli.ParseID("meeting", args[0])
		if err != nil {
			return err
		}

		detail, err := app.GetMeetingHandler.Handle(cmd.Context(), scheduleQueries.GetMeetingQuery{
			MeetingID: meetingID,
			ViewerID:  actor,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, detail)
		}

		fmt.Fprintln(out, detail.Subject)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "When:   %s - %s\n", detail.Start.Format("Monday, January 2, 2006 15:04"), detail.End.Format("15:04"))
		where := detail.Location
		if detail.Online {
			where = "online"
		}
		fmt.Fprintf(out, "Where:  %s\n", where)
		fmt.Fprintf(out, "Status: %s\n", detail.Status)
		if detail.Observations != "" {
			fmt.Fprintf(out, "Notes:  %s\n", detail.Observations)
		}
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, a := range detail.Attendees {
			assisted := ""
			if a.HasAssisted {
				assisted = "  assisted"
			}
			fmt.Fprintf(out, "%-10s %-9s %s <%s>%s\n", a.Role, a.InvitationStatus, a.Name, a.Email, assisted)
			if a.DeclineReason != "" {
				fmt.Fprintf(out, "           reason: %s\n", a.DeclineReason)
			}
		}
		return nil
	},
}
