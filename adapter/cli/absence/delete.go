package absence

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [absence-id]",
	Short: "Delete one of your absences",
	Long: `Delete an absence. Meetings it cancelled or withdrew you from stay
as they are.

Examples:
  planify absence delete 3f2b...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		absenceID, err := cli.ParseID("absence", args[0])
		if err != nil {
			return err
		}

		if err := app.DeleteAbsenceHandler.Handle(cmd.Context(), scheduleCommands.DeleteAbsenceCommand{
			AbsenceID: absenceID,
			ActorID:   actor,
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Absence deleted.")
		return nil
	},
}
