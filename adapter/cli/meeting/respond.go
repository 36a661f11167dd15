package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var respondReason string

var respondCmd = &cobra.Command{
	Use:   "respond [meeting-id] [accepted|rejected|pending]",
	Short: "Answer a meeting invitation",
	Long: `Accept or reject an invitation to an open meeting. The organizer is
notified of the answer.

Examples:
  planify meeting respond 3f2b... accepted
  planify meeting respond 3f2b... rejected --reason "On call that morning"`,
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

		if err := app.ChangeInvitationStatusHandler.Handle(cmd.Context(), scheduleCommands.ChangeInvitationStatusCommand{
			MeetingID:     meetingID,
			UserID:        actor,
			Status:        args[1],
			DeclineReason: respondReason,
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Invitation answered.")
		return nil
	},
}

func init() {
	respondCmd.Flags().StringVar(&respondReason, "reason", "", "why you reject the invitation")
}
