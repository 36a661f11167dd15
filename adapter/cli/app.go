package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	internalApp "github.com/felixgeelhaar/planify/internal/app"
	identityCommands "github.com/felixgeelhaar/planify/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/planify/internal/identity/application/queries"
	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/identity/recovery"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	scheduleDomain "github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/ical"
	"github.com/google/uuid"
)

// ErrNoActor is returned by commands that act on behalf of a user when none
// was selected.
var ErrNoActor = errors.New("no acting user: pass --as or set PLANIFY_USER_ID")

// ErrNoDatabase is returned when the CLI runs without a container.
var ErrNoDatabase = errors.New("this command requires a database connection")

// App holds the CLI application dependencies.
type App struct {
	Clock scheduleDomain.Clock

	// Lookups
	Users    identityDomain.UserRepository
	Meetings scheduleDomain.MeetingRepository

	// Identity
	CreateUserHandler *identityCommands.CreateUserHandler
	UserStateHandler  *identityCommands.UserStateHandler
	ListUsersHandler  *identityQueries.ListUsersHandler
	RecoveryService   *recovery.Service

	// Schedule and absence handlers
	ConfigureWorkScheduleHandler      *scheduleCommands.ConfigureWorkScheduleHandler
	GetWorkScheduleHandler            *scheduleQueries.GetWorkScheduleHandler
	CreateAbsenceHandler              *scheduleCommands.CreateAbsenceHandler
	DeleteAbsenceHandler              *scheduleCommands.DeleteAbsenceHandler
	ListAbsencesHandler               *scheduleQueries.ListAbsencesHandler
	CheckAbsenceMeetingOverlapHandler *scheduleQueries.CheckAbsenceMeetingOverlapHandler

	// Meeting handlers
	CreateMeetingHandler          *scheduleCommands.CreateMeetingHandler
	EditMeetingHandler            *scheduleCommands.EditMeetingHandler
	AssistMeetingHandler          *scheduleCommands.AssistMeetingHandler
	ChangeMeetingStatusHandler    *scheduleCommands.ChangeMeetingStatusHandler
	ChangeInvitationStatusHandler *scheduleCommands.ChangeInvitationStatusHandler
	ListMeetingsHandler           *scheduleQueries.ListMeetingsHandler
	GetMeetingHandler             *scheduleQueries.GetMeetingHandler
	HasOpenMeetingsHandler        *scheduleQueries.HasOpenMeetingsHandler
	ListMeetingCandidatesHandler  *scheduleQueries.ListMeetingCandidatesHandler

	// User administration
	BlockUserHandler *scheduleCommands.BlockUserHandler

	// Notifications
	ListNotificationsHandler    *scheduleQueries.ListNotificationsHandler
	MarkNotificationReadHandler *scheduleCommands.MarkNotificationReadHandler
	DiscardNotificationHandler  *scheduleCommands.DiscardNotificationHandler

	// Export
	CalendarExporter *ical.Exporter

	// Current user (configured per environment, overridden by --as)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Clock:                             c.Clock,
		Users:                             c.UserRepo,
		Meetings:                          c.Repositories.Meetings,
		CreateUserHandler:                 c.CreateUserHandler,
		UserStateHandler:                  c.UserStateHandler,
		ListUsersHandler:                  c.ListUsersHandler,
		RecoveryService:                   c.RecoveryService,
		ConfigureWorkScheduleHandler:      c.ConfigureWorkScheduleHandler,
		GetWorkScheduleHandler:            c.GetWorkScheduleHandler,
		CreateAbsenceHandler:              c.CreateAbsenceHandler,
		DeleteAbsenceHandler:              c.DeleteAbsenceHandler,
		ListAbsencesHandler:               c.ListAbsencesHandler,
		CheckAbsenceMeetingOverlapHandler: c.CheckAbsenceMeetingOverlapHandler,
		CreateMeetingHandler:              c.CreateMeetingHandler,
		EditMeetingHandler:                c.EditMeetingHandler,
		AssistMeetingHandler:              c.AssistMeetingHandler,
		ChangeMeetingStatusHandler:        c.ChangeMeetingStatusHandler,
		ChangeInvitationStatusHandler:     c.ChangeInvitationStatusHandler,
		ListMeetingsHandler:               c.ListMeetingsHandler,
		GetMeetingHandler:                 c.GetMeetingHandler,
		HasOpenMeetingsHandler:            c.HasOpenMeetingsHandler,
		ListMeetingCandidatesHandler:      c.ListMeetingCandidatesHandler,
		BlockUserHandler:                  c.BlockUserHandler,
		ListNotificationsHandler:          c.ListNotificationsHandler,
		MarkNotificationReadHandler:       c.MarkNotificationReadHandler,
		DiscardNotificationHandler:        c.DiscardNotificationHandler,
		CalendarExporter:                  c.CalendarExporter,
		CurrentUserID:                     uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// Actor returns the user the command acts for.
func (a *App) Actor() (uuid.UUID, error) {
	if a.CurrentUserID == uuid.Nil {
		return uuid.Nil, ErrNoActor
	}
	return a.CurrentUserID, nil
}

// ResolveUser accepts a user ID or an email address.
func (a *App) ResolveUser(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	email, err := identityDomain.NewEmail(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q is neither a user ID nor an email: %w", ref, err)
	}
	user, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return user.ID(), nil
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNoDatabase.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNoDatabase
	}
	return app, nil
}

// RequireActor returns the application and the acting user.
func RequireActor() (*App, uuid.UUID, error) {
	a, err := RequireApp()
	if err != nil {
		return nil, uuid.Nil, err
	}
	actor, err := a.Actor()
	if err != nil {
		return nil, uuid.Nil, err
	}
	return a, actor, nil
}

// ParseID parses a UUID argument.
func ParseID(kind, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}
