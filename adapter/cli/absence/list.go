package absence

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your absences",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		absences, err := app.ListAbsencesHandler.Handle(cmd.Context(), scheduleQueries.ListAbsencesQuery{UserID: actor})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, absences)
		}
		if len(absences) == 0 {
			fmt.Fprintln(out, "No absences registered.")
			return nil
		}
		for _, a := range absences {
			span := fmt.Sprintf("%s - %s", a.Start.Format("2006-01-02 15:04"), a.End.Format("2006-01-02 15:04"))
			if a.AllDay {
				span = fmt.Sprintf("%s - %s (all day)", a.Start.Format("2006-01-02"), a.End.Format("2006-01-02"))
			}
			fmt.Fprintf(out, "%s  %-10s  %s\n", a.ID, a.Type, span)
		}
		return nil
	},
}
