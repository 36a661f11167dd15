package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/ical"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your meetings as iCalendar",
	Long: `Export the meetings you take part in to ICS (iCalendar) format for
import into Google Calendar, Outlook, Apple Calendar, and other calendar apps.
Meetings that ended more than --days days ago are left out.

Examples:
  planify export                  # Export to stdout
  planify export -o planify.ics   # Export to file
  planify export --days 7         # Only the last week onwards`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := RequireActor()
		if err != nil {
			return err
		}

		meetings, err := app.Meetings.FindByParticipant(cmd.Context(), actor)
		if err != nil {
			return fmt.Errorf("failed to load meetings: %w", err)
		}
		window := ical.DefaultWindow
		if exportDays > 0 {
			window = time.Duration(exportDays) * 24 * time.Hour
		}
		meetings = ical.Since(meetings, app.Clock.Now().Add(-window))

		calendar, err := app.CalendarExporter.Export(cmd.Context(), meetings)
		if err != nil {
			return fmt.Errorf("failed to export meetings: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), calendar)
			return err
		}
		if err := security.SafeWriteFile(exportOutput, []byte(calendar)); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d meetings to %s\n", len(meetings), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "include meetings that ended up to this many days ago (default 90)")
}
