package absence

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var checkWindow windowFlags

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check which meetings an absence would affect",
	Long: `List the open meetings an absence would withdraw you from, without
creating it.

Examples:
  planify absence check --all-day --from 2025-08-04 --to 2025-08-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		result, err := app.CheckAbsenceMeetingOverlapHandler.Handle(cmd.Context(), scheduleQueries.CheckAbsenceMeetingOverlapQuery{
			UserID:             actor,
			AbsenceWindowInput: checkWindow.input(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		if !result.Overlaps {
			fmt.Fprintln(out, "No open meetings overlap this absence.")
			return nil
		}
		fmt.Fprintf(out, "%d open meetings overlap this absence:\n", result.Count)
		for _, m := range result.Meetings {
			fmt.Fprintf(out, "  %s  %s - %s  %s (%s)\n",
				m.ID, m.Start.Format("2006-01-02 15:04"), m.End.Format("15:04"), m.Subject, m.Role)
		}
		return nil
	},
}

func init() {
	checkWindow.bind(checkCmd)
}
