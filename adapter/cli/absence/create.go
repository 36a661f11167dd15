package absence

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var (
	createType   string
	createWindow windowFlags
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an absence",
	Long: `Register an absence for yourself. Open meetings you organize inside
the absence are cancelled, and you are withdrawn from the others.

Examples:
  planify absence create --type vacation --all-day --from 2025-08-04 --to 2025-08-15
  planify absence create --type permit --from 2025-06-10 --to 2025-06-10 --from-time 09:00 --to-time 11:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		window := createWindow.input()
		result, err := app.CreateAbsenceHandler.Handle(cmd.Context(), scheduleCommands.CreateAbsenceCommand{
			UserID:   actor,
			Type:     createType,
			AllDay:   window.AllDay,
			FromDate: window.FromDate,
			ToDate:   window.ToDate,
			FromTime: window.FromTime,
			ToTime:   window.ToTime,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Created absence: %s\n", result.AbsenceID)
		for _, msg := range result.Messages {
			fmt.Fprintf(out, "  %s\n", msg)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", "", "absence type (vacation, sick_leave, permit)")
	createWindow.bind(createCmd)
}
