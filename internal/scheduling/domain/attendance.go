package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

// Role is the part a user plays in a meeting.
type Role string

const (
	RoleOrganizer Role = "ORGANIZER"
	RoleAttendee  Role = "ATTENDEE"
)

// ParseRole parses a role, ignoring case.
func ParseRole(value string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(value))); r {
	case RoleOrganizer, RoleAttendee:
		return r, nil
	default:
		return "", NewRuleError(ErrInvalidFormat, "unknown role %q", value)
	}
}

// InvitationStatus is an attendee's answer to an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// ParseInvitationStatus parses an invitation status, ignoring case.
func ParseInvitationStatus(value string) (InvitationStatus, error) {
	switch s := InvitationStatus(strings.ToUpper(strings.TrimSpace(value))); s {
	case InvitationPending, InvitationAccepted, InvitationRejected:
		return s, nil
	case "":
		return "", MissingField("invitation status")
	default:
		return "", NewRuleError(ErrInvalidFormat, "unknown invitation status %q", value)
	}
}

// Attendance links a user to a meeting.
type Attendance struct {
	sharedDomain.BaseEntity
	meetingID     uuid.UUID
	userID        uuid.UUID
	role          Role
	status        InvitationStatus
	declineReason string
	hasAssisted   bool
}

func newAttendance(meetingID, userID uuid.UUID, role Role) *Attendance {
	status := InvitationPending
	if role == RoleOrganizer {
		status = InvitationAccepted
	}
	return &Attendance{
		BaseEntity: sharedDomain.NewBaseEntity(),
		meetingID:  meetingID,
		userID:     userID,
		role:       role,
		status:     status,
	}
}

// RehydrateAttendance recreates an attendance from persisted state.
func RehydrateAttendance(
	id, meetingID, userID uuid.UUID,
	role Role,
	status InvitationStatus,
	declineReason string,
	hasAssisted bool,
	createdAt, updatedAt time.Time,
) *Attendance {
	return &Attendance{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		meetingID:     meetingID,
		userID:        userID,
		role:          role,
		status:        status,
		declineReason: declineReason,
		hasAssisted:   hasAssisted,
	}
}

// Getters
func (a *Attendance) MeetingID() uuid.UUID               { return a.meetingID }
func (a *Attendance) UserID() uuid.UUID                  { return a.userID }
func (a *Attendance) Role() Role                         { return a.role }
func (a *Attendance) IsOrganizer() bool                  { return a.role == RoleOrganizer }
func (a *Attendance) InvitationStatus() InvitationStatus { return a.status }
func (a *Attendance) DeclineReason() string              { return a.declineReason }
func (a *Attendance) HasAssisted() bool                  { return a.hasAssisted }

// respond sets the invitation status. The decline reason is kept only for
// rejections.
func (a *Attendance) respond(status InvitationStatus, reason string) {
	a.status = status
	if status == InvitationRejected {
		a.declineReason = reason
	} else {
		a.declineReason = ""
	}
	a.Touch()
}

func (a *Attendance) markAssisted() {
	a.hasAssisted = true
	a.Touch()
}
