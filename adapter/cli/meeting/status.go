package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [meeting-id] [open|closed|cancelled]",
	Short: "Change the status of a meeting you organize",
	Long: `Change the status of a meeting you organize. Cancelling notifies
every participant.

Examples:
  planify meeting status 3f2b... cancelled`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		meetingID, err := cli.ParseID("meeting", args[0])
		if err != nil {
			return err
		}

		if err := app.ChangeMeetingStatusHandler.Handle(cmd.Context(), scheduleCommands.ChangeMeetingStatusCommand{
			MeetingID:   meetingID,
			OrganizerID: actor,
			Status:      args[1],
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Meeting status updated.")
		return nil
	},
}
