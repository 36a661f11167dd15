package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Finders return nil without an error when nothing matches.

// WorkScheduleRepository stores the single, shared work schedule.
type WorkScheduleRepository interface {
	// Get returns the configured schedule; it is empty when none was set up.
	Get(ctx context.Context) (*WorkSchedule, error)
	// Save stores the blocks of a new schedule.
	Save(ctx context.Context, schedule *WorkSchedule) error
}

// AbsenceRepository defines persistence for absences.
type AbsenceRepository interface {
	Save(ctx context.Context, absence *Absence) error
	FindByID(ctx context.Context, id uuid.UUID) (*Absence, error)
	// FindByUser returns the user's absences ordered by start.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Absence, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MeetingRepository defines persistence for meetings and their attendances.
type MeetingRepository interface {
	// Save upserts the meeting and replaces its attendance set.
	Save(ctx context.Context, meeting *Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*Meeting, error)
	// FindOpenByParticipant returns OPEN meetings the user has an
	// attendance on, ordered by start.
	FindOpenByParticipant(ctx context.Context, userID uuid.UUID) ([]*Meeting, error)
	// CountOpenByParticipant counts the OPEN meetings the user attends.
	CountOpenByParticipant(ctx context.Context, userID uuid.UUID) (int, error)
	// FindByParticipant returns every meeting the user has an attendance on.
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*Meeting, error)
}

// NotificationRepository is the sink for emitted notifications.
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindByRecipient returns notifications newest first.
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteReadBefore purges read notifications older than the cutoff.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CandidateRow is one user of the roster joined with one of their absences.
// Users without absences produce a single row with a nil Absence.
type CandidateRow struct {
	UserID  uuid.UUID
	Email   string
	Name    string
	Surname string
	Absence *CandidateAbsence
}

// CandidateAbsence is the absence half of a CandidateRow.
type CandidateAbsence struct {
	AllDay bool
	Period TimeRange
}

// CandidateRepository lists the active, unblocked roster for meeting
// planning.
type CandidateRepository interface {
	ListCandidateRows(ctx context.Context) ([]CandidateRow, error)
}
