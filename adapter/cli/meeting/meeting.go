package meeting

import (
	"strings"

	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

// Cmd is the meeting command group
var Cmd = &cobra.Command{
	Use:   "meeting",
	Short: "Organize and attend meetings",
	Long: `Create meetings inside the work schedule, answer invitations and
record who assisted.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(assistCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(respondCmd)
	Cmd.AddCommand(candidatesCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
}

// inputFlags holds the flags that describe a meeting.
type inputFlags struct {
	subject      string
	allDay       bool
	date         string
	fromTime     string
	toTime       string
	online       bool
	location     string
	observations string
	invite       []string
}

func (f *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.subject, "subject", "s", "", "meeting subject")
	cmd.Flags().BoolVar(&f.allDay, "all-day", false, "take the whole day")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "meeting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.fromTime, "from", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&f.toTime, "to", "", "end time (HH:MM)")
	cmd.Flags().BoolVar(&f.online, "online", false, "meet online instead of in a room")
	cmd.Flags().StringVarP(&f.location, "location", "l", "", "room (politecnico, oficina, despacho, biblioteca, cafeteria)")
	cmd.Flags().StringVar(&f.observations, "observations", "", "free-form notes")
	cmd.Flags().StringSliceVarP(&f.invite, "invite", "i", nil, "participant emails (repeat or comma-separate)")
}

func (f *inputFlags) input() scheduleCommands.MeetingInput {
	emails := make([]string, 0, len(f.invite))
	for _, e := range f.invite {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return scheduleCommands.MeetingInput{
		Subject:           f.subject,
		AllDay:            f.allDay,
		Date:              f.date,
		FromTime:          f.fromTime,
		ToTime:            f.toTime,
		Online:            f.online,
		Location:          f.location,
		Observations:      f.observations,
		ParticipantEmails: emails,
	}
}
