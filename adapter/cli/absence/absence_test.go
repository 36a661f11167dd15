package absence

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/planify/adapter/cli"
	internalApp "github.com/felixgeelhaar/planify/internal/app"
	identityCommands "github.com/felixgeelhaar/planify/internal/identity/application/commands"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupLocalModeTestApp creates a SQLite-backed application acting as a
// user who organizes one meeting with a colleague on the next workday.
func setupLocalModeTestApp(t *testing.T) (*internalApp.Container, uuid.UUID, string) {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		AppEnv:       "test",
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		LockBackend:  "memory",
		MailProvider: "noop",
	}
	container, err := internalApp.NewContainer(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	var users []uuid.UUID
	for _, email := range []string{"olga@example.com", "ana@example.com"} {
		result, err := container.CreateUserHandler.Handle(ctx, identityCommands.CreateUserCommand{
			Email: email, Name: "Tester", Activate: true,
		})
		require.NoError(t, err)
		users = append(users, result.UserID)
	}

	_, err = container.ConfigureWorkScheduleHandler.Handle(ctx, scheduleCommands.ConfigureWorkScheduleCommand{
		Blocks: []scheduleCommands.WorkScheduleBlockInput{{Name: "Morning", Start: "09:00", End: "14:00"}},
	})
	require.NoError(t, err)

	day := time.Now().AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	date := day.Format("2006-01-02")
	_, err = container.CreateMeetingHandler.Handle(ctx, scheduleCommands.CreateMeetingCommand{
		OrganizerID: users[0],
		MeetingInput: scheduleCommands.MeetingInput{
			Subject: "Planning", Date: date, FromTime: "10:00", ToTime: "11:00",
			Location: "oficina", ParticipantEmails: []string{"ana@example.com"},
		},
	})
	require.NoError(t, err)

	app := cli.NewApp(container)
	app.SetCurrentUserID(users[1])
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return container, users[1], date
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestAbsenceCheckCreateListDelete(t *testing.T) {
	container, userID, date := setupLocalModeTestApp(t)

	for _, cmd := range []*cobra.Command{checkCmd, createCmd} {
		require.NoError(t, cmd.Flags().Set("all-day", "true"))
		require.NoError(t, cmd.Flags().Set("from", date))
		require.NoError(t, cmd.Flags().Set("to", date))
	}

	out := run(t, checkCmd)
	assert.Contains(t, out, "1 open meetings overlap this absence")
	assert.Contains(t, out, "Planning")

	require.NoError(t, createCmd.Flags().Set("type", "vacation"))
	out = run(t, createCmd)
	assert.Contains(t, out, "Created absence:")

	meetings, err := container.ListMeetingsHandler.Handle(context.Background(), scheduleQueries.ListMeetingsQuery{UserID: userID, OpenOnly: true})
	require.NoError(t, err)
	assert.Empty(t, meetings)

	absences, err := container.ListAbsencesHandler.Handle(context.Background(), scheduleQueries.ListAbsencesQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, absences, 1)

	out = run(t, listCmd)
	assert.Contains(t, out, absences[0].ID.String())
	assert.Contains(t, out, "(all day)")

	out = run(t, deleteCmd, absences[0].ID.String())
	assert.Contains(t, out, "Absence deleted.")

	out = run(t, listCmd)
	assert.Contains(t, out, "No absences registered.")
}

func TestAbsenceDeleteRejectsBadID(t *testing.T) {
	setupLocalModeTestApp(t)

	deleteCmd.SetContext(context.Background())
	err := deleteCmd.RunE(deleteCmd, []string{"not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid absence ID")
}
