package notification

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

// setupInvitedUser returns a container and a user with one invitation
// notification.
func setupInvitedUser(t *testing.T) (*internalApp.Container, uuid.UUID) {
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
	_, err = container.CreateMeetingHandler.Handle(ctx, scheduleCommands.CreateMeetingCommand{
		OrganizerID: users[0],
		MeetingInput: scheduleCommands.MeetingInput{
			Subject: "Planning", Date: day.Format("2006-01-02"), FromTime: "10:00", ToTime: "11:00",
			Online: true, ParticipantEmails: []string{"ana@example.com"},
		},
	})
	require.NoError(t, err)

	app := cli.NewApp(container)
	app.SetCurrentUserID(users[1])
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return container, users[1]
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestNotificationReadAndDiscard(t *testing.T) {
	container, userID := setupInvitedUser(t)
	ctx := context.Background()

	notifications, err := container.ListNotificationsHandler.Handle(ctx, scheduleQueries.ListNotificationsQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	id := notifications[0].ID.String()

	out := run(t, listCmd)
	assert.Contains(t, out, "* "+id)

	run(t, readCmd, id)
	require.NoError(t, listCmd.Flags().Set("unread", "true"))
	out = run(t, listCmd)
	assert.Contains(t, out, "No notifications.")

	require.NoError(t, listCmd.Flags().Set("unread", "false"))
	out = run(t, listCmd)
	assert.Contains(t, out, "  "+id)

	run(t, discardCmd, id)
	out = run(t, listCmd)
	assert.Contains(t, out, "No notifications.")
}

func TestNotificationListJSON(t *testing.T) {
	setupInvitedUser(t)
	cli.SetJSONOutput(true)
	t.Cleanup(func() { cli.SetJSONOutput(false) })

	require.NoError(t, listCmd.Flags().Set("unread", "false"))
	out := run(t, listCmd)
	assert.Contains(t, out, `"description"`)
	assert.Contains(t, out, `"read": false`)
}
