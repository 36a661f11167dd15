package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var editInput inputFlags

var editCmd = &cobra.Command{
	Use:   "edit [meeting-id]",
	Short: "Edit an open meeting you organize",
	Long: `Replace the details and participants of an open meeting. Every field
is required again. Participants that stay keep their answers.

Examples:
  planify meeting edit 3f2b... -s "Sprint planning" -d 2025-06-03 --from 11:00 --to 12:00 -l oficina -i ana@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		meetingID, err := cli.ParseID("meeting", args[0])
		if err != nil {
			return err
		}

		result, err := app.EditMeetingHandler.Handle(cmd.Context(), scheduleCommands.EditMeetingCommand{
			MeetingID:    meetingID,
			OrganizerID:  actor,
			MeetingInput: editInput.input(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Meeting updated: %d added, %d removed.\n", len(result.Added), len(result.Removed))
		return nil
	},
}

func init() {
	editInput.bind(editCmd)
}
