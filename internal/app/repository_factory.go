package app

import (
	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/planify/internal/identity/infrastructure/persistence"
	schedulingCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	schedulingDomain "github.com/felixgeelhaar/planify/internal/scheduling/domain"
	schedulingPersistence "github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates the repositories for one database connection.
// The SQL is written once with ? placeholders, so both drivers share the
// same implementations.
type RepositoryFactory struct {
	conn database.Connection
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// UserRepository creates the user repository.
func (f *RepositoryFactory) UserRepository() identityDomain.UserRepository {
	return identityPersistence.NewSQLUserRepository(f.conn)
}

// WorkScheduleRepository creates the work schedule repository.
func (f *RepositoryFactory) WorkScheduleRepository() schedulingDomain.WorkScheduleRepository {
	return schedulingPersistence.NewSQLWorkScheduleRepository(f.conn)
}

// AbsenceRepository creates the absence repository.
func (f *RepositoryFactory) AbsenceRepository() schedulingDomain.AbsenceRepository {
	return schedulingPersistence.NewSQLAbsenceRepository(f.conn)
}

// MeetingRepository creates the meeting repository.
func (f *RepositoryFactory) MeetingRepository() schedulingDomain.MeetingRepository {
	return schedulingPersistence.NewSQLMeetingRepository(f.conn)
}

// NotificationRepository creates the notification repository.
func (f *RepositoryFactory) NotificationRepository() schedulingDomain.NotificationRepository {
	return schedulingPersistence.NewSQLNotificationRepository(f.conn)
}

// CandidateRepository creates the meeting candidate repository.
func (f *RepositoryFactory) CandidateRepository() schedulingDomain.CandidateRepository {
	return schedulingPersistence.NewSQLCandidateRepository(f.conn)
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() *outbox.SQLRepository {
	return outbox.NewSQLRepository(f.conn)
}

// SchedulingRepositories groups the stores the scheduling handlers need.
func (f *RepositoryFactory) SchedulingRepositories() schedulingCommands.Repositories {
	return schedulingCommands.Repositories{
		Users:         f.UserRepository(),
		Schedule:      f.WorkScheduleRepository(),
		Absences:      f.AbsenceRepository(),
		Meetings:      f.MeetingRepository(),
		Notifications: f.NotificationRepository(),
		Outbox:        f.OutboxRepository(),
	}
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.conn.Driver()
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
