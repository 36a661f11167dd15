package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var assistCmd = &cobra.Command{
	Use:   "assist [meeting-id]",
	Short: "Record that you assisted a meeting",
	Long: `Record your assistance to an open meeting you accepted. The meeting
closes once every accepted participant has assisted.`,
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

		result, err := app.AssistMeetingHandler.Handle(cmd.Context(), scheduleCommands.AssistMeetingCommand{
			MeetingID: meetingID,
			UserID:    actor,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Assistance recorded. Meeting is %s.\n", result.Status)
		return nil
	},
}
