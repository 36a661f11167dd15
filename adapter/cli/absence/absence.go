package absence

import (
	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/spf13/cobra"
)

// Cmd is the absence command group
var Cmd = &cobra.Command{
	Use:   "absence",
	Short: "Register and review absences",
	Long: `Register vacations, sick leave and permits. Creating an absence
withdraws you from the open meetings it overlaps.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
}

// windowFlags holds the date and time flags shared by create and check.
type windowFlags struct {
	allDay   bool
	fromDate string
	toDate   string
	fromTime string
	toTime   string
}

func (f *windowFlags) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.allDay, "all-day", false, "cover whole days")
	cmd.Flags().StringVar(&f.fromDate, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.toDate, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.fromTime, "from-time", "", "start time on the first day (HH:MM)")
	cmd.Flags().StringVar(&f.toTime, "to-time", "", "end time on the last day (HH:MM)")
}

func (f *windowFlags) input() services.AbsenceWindowInput {
	return services.AbsenceWindowInput{
		AllDay:   f.allDay,
		FromDate: f.fromDate,
		ToDate:   f.toDate,
		FromTime: f.fromTime,
		ToTime:   f.toTime,
	}
}
