package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var (
	candidatesDate   string
	candidatesFrom   string
	candidatesTo     string
	candidatesAllDay bool
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List users available for a meeting slot",
	Long: `List the users that can be invited to a meeting in the given slot.
Users with an absence on that day are flagged.

Examples:
  planify meeting candidates -d 2025-06-03 --from 10:00 --to 11:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		candidates, err := app.ListMeetingCandidatesHandler.Handle(cmd.Context(), scheduleQueries.ListMeetingCandidatesQuery{
			Date:     candidatesDate,
			FromTime: candidatesFrom,
			ToTime:   candidatesTo,
			AllDay:   candidatesAllDay,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, candidates)
		}
		if len(candidates) == 0 {
			fmt.Fprintln(out, "Nobody is available in this slot.")
			return nil
		}
		for _, c := range candidates {
			flag := ""
			if c.HasAbsences {
				flag = "  (absent part of the day)"
			}
			fmt.Fprintf(out, "%-30s %s %s%s\n", c.Email, c.Name, c.Surname, flag)
		}
		return nil
	},
}

func init() {
	candidatesCmd.Flags().StringVarP(&candidatesDate, "date", "d", "", "meeting date (YYYY-MM-DD)")
	candidatesCmd.Flags().StringVar(&candidatesFrom, "from", "", "start time (HH:MM)")
	candidatesCmd.Flags().StringVar(&candidatesTo, "to", "", "end time (HH:MM)")
	candidatesCmd.Flags().BoolVar(&candidatesAllDay, "all-day", false, "take the whole day")
}
