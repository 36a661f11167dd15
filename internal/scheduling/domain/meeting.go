package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	MeetingOpen      MeetingStatus = "OPEN"
	MeetingClosed    MeetingStatus = "CLOSED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

// ParseMeetingStatus parses a meeting status, ignoring case.
func ParseMeetingStatus(value string) (MeetingStatus, error) {
	switch s := MeetingStatus(strings.ToUpper(strings.TrimSpace(value))); s {
	case MeetingOpen, MeetingClosed, MeetingCancelled:
		return s, nil
	case "":
		return "", MissingField("status")
	default:
		return "", NewRuleError(ErrInvalidFormat, "unknown meeting status %q", value)
	}
}

// Location is one of the fixed rooms a meeting can take place in.
type Location string

const (
	LocationESI         Location = "ESI"
	LocationPolitecnico Location = "POLITECNICO"
	LocationALU         Location = "ALU"
	LocationOficina     Location = "OFICINA"
	LocationDespacho    Location = "DESPACHO"
	LocationBiblioteca  Location = "BIBLIOTECA"
	LocationCafeteria   Location = "CAFETERIA"
)

// Locations lists every bookable location.
var Locations = []Location{
	LocationESI,
	LocationPolitecnico,
	LocationALU,
	LocationOficina,
	LocationDespacho,
	LocationBiblioteca,
	LocationCafeteria,
}

// ParseLocation parses a location, ignoring case.
func ParseLocation(value string) (Location, error) {
	normalized := Location(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", MissingField("location")
	}
	for _, l := range Locations {
		if l == normalized {
			return l, nil
		}
	}
	return "", NewRuleError(ErrInvalidFormat, "unknown location %q", value)
}

// MeetingDetails holds the editable attributes of a meeting.
type MeetingDetails struct {
	Subject      string
	AllDay       bool
	Period       TimeRange
	Online       bool
	Location     Location
	Observations string
}

func (d MeetingDetails) normalize() (MeetingDetails, error) {
	d.Subject = strings.TrimSpace(d.Subject)
	d.Observations = strings.TrimSpace(d.Observations)
	if d.Subject == "" {
		return d, MissingField("subject")
	}
	if !d.Online && d.Location == "" {
		return d, MissingField("location")
	}
	if d.AllDay {
		d.Period = AllDayRange(d.Period.Start, d.Period.Start)
	}
	return d, nil
}

// Meeting is a scheduled gathering owned by exactly one organizer.
type Meeting struct {
	sharedDomain.BaseAggregateRoot
	details     MeetingDetails
	status      MeetingStatus
	attendances []*Attendance
}

// NewMeeting creates an OPEN meeting. The organizer gets an ACCEPTED
// attendance and every other participant a PENDING one.
func NewMeeting(organizerID uuid.UUID, details MeetingDetails, participantIDs []uuid.UUID) (*Meeting, error) {
	details, err := details.normalize()
	if err != nil {
		return nil, err
	}

	m := &Meeting{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		details:           details,
		status:            MeetingOpen,
	}
	m.attendances = append(m.attendances, newAttendance(m.ID(), organizerID, RoleOrganizer))
	for _, id := range uniqueParticipants(organizerID, participantIDs) {
		m.attendances = append(m.attendances, newAttendance(m.ID(), id, RoleAttendee))
	}

	m.AddDomainEvent(NewMeetingCreated(m))
	return m, nil
}

// RehydrateMeeting recreates a meeting from persisted state.
func RehydrateMeeting(
	id uuid.UUID,
	details MeetingDetails,
	status MeetingStatus,
	attendances []*Attendance,
	createdAt, updatedAt time.Time,
) *Meeting {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Meeting{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		details:           details,
		status:            status,
		attendances:       attendances,
	}
}

// Getters
func (m *Meeting) Details() MeetingDetails    { return m.details }
func (m *Meeting) Subject() string            { return m.details.Subject }
func (m *Meeting) IsAllDay() bool             { return m.details.AllDay }
func (m *Meeting) Period() TimeRange          { return m.details.Period }
func (m *Meeting) IsOnline() bool             { return m.details.Online }
func (m *Meeting) Location() Location         { return m.details.Location }
func (m *Meeting) Observations() string       { return m.details.Observations }
func (m *Meeting) Status() MeetingStatus      { return m.status }
func (m *Meeting) IsOpen() bool               { return m.status == MeetingOpen }
func (m *Meeting) Attendances() []*Attendance { return m.attendances }

// Organizer returns the organizer's attendance.
func (m *Meeting) Organizer() *Attendance {
	for _, a := range m.attendances {
		if a.IsOrganizer() {
			return a
		}
	}
	return nil
}

// OrganizerID returns the organizer's user id.
func (m *Meeting) OrganizerID() uuid.UUID {
	if org := m.Organizer(); org != nil {
		return org.UserID()
	}
	return uuid.Nil
}

// AttendanceOf returns the attendance of a user, or nil.
func (m *Meeting) AttendanceOf(userID uuid.UUID) *Attendance {
	for _, a := range m.attendances {
		if a.UserID() == userID {
			return a
		}
	}
	return nil
}

// ParticipantIDs returns the user ids of every attendance, organizer first.
func (m *Meeting) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.attendances))
	for _, a := range m.attendances {
		ids = append(ids, a.UserID())
	}
	return ids
}

// AcceptedAttendees returns the non-organizer attendances that accepted.
func (m *Meeting) AcceptedAttendees() []*Attendance {
	var accepted []*Attendance
	for _, a := range m.attendances {
		if !a.IsOrganizer() && a.InvitationStatus() == InvitationAccepted {
			accepted = append(accepted, a)
		}
	}
	return accepted
}

// EditDiff describes how the participant list changed during an edit.
type EditDiff struct {
	Added   []uuid.UUID
	Removed []uuid.UUID
}

// Edit replaces the meeting details and participants. Participants already
// invited keep their attendance record; new ones start PENDING.
func (m *Meeting) Edit(details MeetingDetails, participantIDs []uuid.UUID) (EditDiff, error) {
	if err := m.requireOpen(); err != nil {
		return EditDiff{}, err
	}
	details, err := details.normalize()
	if err != nil {
		return EditDiff{}, err
	}

	organizer := m.Organizer()
	wanted := uniqueParticipants(organizer.UserID(), participantIDs)
	wantedSet := make(map[uuid.UUID]bool, len(wanted))
	for _, id := range wanted {
		wantedSet[id] = true
	}

	var diff EditDiff
	kept := []*Attendance{organizer}
	existing := make(map[uuid.UUID]bool, len(m.attendances))
	for _, a := range m.attendances {
		if a.IsOrganizer() {
			continue
		}
		existing[a.UserID()] = true
		if wantedSet[a.UserID()] {
			kept = append(kept, a)
		} else {
			diff.Removed = append(diff.Removed, a.UserID())
		}
	}
	for _, id := range wanted {
		if !existing[id] {
			kept = append(kept, newAttendance(m.ID(), id, RoleAttendee))
			diff.Added = append(diff.Added, id)
		}
	}

	m.details = details
	m.attendances = kept
	m.Touch()
	m.AddDomainEvent(NewMeetingEdited(m, diff))
	return diff, nil
}

// Assist records that a participant attended. When the organizer assists
// the meeting is closed.
func (m *Meeting) Assist(userID uuid.UUID) error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	attendance := m.AttendanceOf(userID)
	if attendance == nil {
		return NewRuleError(ErrNotFound, "user %s is not invited to meeting %s", userID, m.ID())
	}
	if attendance.HasAssisted() {
		return NewRuleError(ErrAlreadyAssisted, "user %s already assisted meeting %s", userID, m.ID())
	}

	attendance.markAssisted()
	m.AddDomainEvent(NewAttendanceAssisted(m, userID))

	if attendance.IsOrganizer() {
		m.setStatus(MeetingClosed)
	}
	m.Touch()
	return nil
}

// ChangeStatus lets the organizer move an OPEN meeting to another status.
// Meetings only close through organizer assistance.
func (m *Meeting) ChangeStatus(actorID uuid.UUID, target MeetingStatus) error {
	if m.OrganizerID() != actorID {
		return NewRuleError(ErrForbidden, "only the organizer can change the status of meeting %s", m.ID())
	}
	if err := m.requireOpen(); err != nil {
		return err
	}
	if target == m.status {
		return NewRuleError(ErrStatusUnchanged, "meeting %s is already %s", m.ID(), target)
	}
	if target == MeetingClosed {
		return NewRuleError(ErrForbidden, "meeting %s closes when its organizer assists", m.ID())
	}
	m.setStatus(target)
	m.Touch()
	return nil
}

// Cancel cancels an OPEN meeting regardless of who asks for it.
func (m *Meeting) Cancel() error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	m.setStatus(MeetingCancelled)
	m.Touch()
	return nil
}

// ChangeInvitationStatus records an attendee's answer to the invitation.
func (m *Meeting) ChangeInvitationStatus(userID uuid.UUID, status InvitationStatus, reason string) error {
	attendance := m.AttendanceOf(userID)
	if attendance == nil || attendance.IsOrganizer() {
		return NewRuleError(ErrForbidden, "user %s is not an attendee of meeting %s", userID, m.ID())
	}
	if err := m.requireOpen(); err != nil {
		return err
	}
	if attendance.InvitationStatus() == status {
		return NewRuleError(ErrStatusUnchanged, "invitation is already %s", status)
	}
	reason = strings.TrimSpace(reason)
	if status == InvitationRejected && reason == "" {
		return MissingField("decline reason")
	}

	attendance.respond(status, reason)
	m.Touch()
	m.AddDomainEvent(NewAttendanceResponded(m, attendance))
	return nil
}

// RejectInvitation forces an attendee's invitation to REJECTED.
func (m *Meeting) RejectInvitation(userID uuid.UUID, reason string) error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	attendance := m.AttendanceOf(userID)
	if attendance == nil {
		return NewRuleError(ErrNotFound, "user %s is not invited to meeting %s", userID, m.ID())
	}
	if attendance.IsOrganizer() {
		return NewRuleError(ErrForbidden, "the organizer of meeting %s cannot reject it", m.ID())
	}
	attendance.respond(InvitationRejected, reason)
	m.Touch()
	m.AddDomainEvent(NewAttendanceResponded(m, attendance))
	return nil
}

func (m *Meeting) requireOpen() error {
	if m.status != MeetingOpen {
		return NewRuleError(ErrMeetingNotOpen, "meeting %s is %s", m.ID(), m.status)
	}
	return nil
}

func (m *Meeting) setStatus(status MeetingStatus) {
	previous := m.status
	m.status = status
	m.AddDomainEvent(NewMeetingStatusChanged(m, previous))
}

func uniqueParticipants(organizerID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{organizerID: true}
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
