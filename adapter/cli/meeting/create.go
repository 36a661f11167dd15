package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var createInput inputFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a meeting",
	Long: `Create a meeting on a future weekday. It must fit inside one work
schedule block, and every participant must be free.

Examples:
  planify meeting create -s "Sprint planning" -d 2025-06-03 --from 10:00 --to 11:00 -l oficina -i ana@example.com,bruno@example.com
  planify meeting create -s "Offsite" -d 2025-06-04 --all-day --online -i ana@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		result, err := app.CreateMeetingHandler.Handle(cmd.Context(), scheduleCommands.CreateMeetingCommand{
			OrganizerID:  actor,
			MeetingInput: createInput.input(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Created meeting: %s (%d invited)\n", result.MeetingID, result.Invited)
		return nil
	},
}

func init() {
	createInput.bind(createCmd)
}
