package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	meetingAggregateType      = "Meeting"
	absenceAggregateType      = "Absence"
	notificationAggregateType = "Notification"
	scheduleAggregateType     = "WorkSchedule"
)

const (
	RoutingKeyMeetingCreated         = "scheduling.meeting.created"
	RoutingKeyMeetingEdited          = "scheduling.meeting.edited"
	RoutingKeyMeetingClosed          = "scheduling.meeting.closed"
	RoutingKeyMeetingCancelled       = "scheduling.meeting.cancelled"
	RoutingKeyMeetingStatusChanged   = "scheduling.meeting.status_changed"
	RoutingKeyAttendanceAssisted     = "scheduling.attendance.assisted"
	RoutingKeyAttendanceResponded    = "scheduling.attendance.responded"
	RoutingKeyAbsenceCreated         = "scheduling.absence.created"
	RoutingKeyAbsenceDeleted         = "scheduling.absence.deleted"
	RoutingKeyNotificationCreated    = "scheduling.notification.created"
	RoutingKeyWorkScheduleConfigured = "scheduling.work_schedule.configured"
)

// MeetingCreated is emitted when a meeting is created.
type MeetingCreated struct {
	sharedDomain.BaseEvent
	MeetingID      uuid.UUID   `json:"meeting_id"`
	OrganizerID    uuid.UUID   `json:"organizer_id"`
	Subject        string      `json:"subject"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	AllDay         bool        `json:"all_day"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

// NewMeetingCreated creates a MeetingCreated event.
func NewMeetingCreated(m *Meeting) *MeetingCreated {
	return &MeetingCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(m.ID(), meetingAggregateType, RoutingKeyMeetingCreated),
		MeetingID:      m.ID(),
		OrganizerID:    m.OrganizerID(),
		Subject:        m.Subject(),
		Start:          m.Period().Start,
		End:            m.Period().End,
		AllDay:         m.IsAllDay(),
		ParticipantIDs: m.ParticipantIDs(),
	}
}

// MeetingEdited is emitted when a meeting's details or participants change.
type MeetingEdited struct {
	sharedDomain.BaseEvent
	MeetingID uuid.UUID   `json:"meeting_id"`
	Subject   string      `json:"subject"`
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Added     []uuid.UUID `json:"added"`
	Removed   []uuid.UUID `json:"removed"`
}

// NewMeetingEdited creates a MeetingEdited event.
func NewMeetingEdited(m *Meeting, diff EditDiff) *MeetingEdited {
	return &MeetingEdited{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), meetingAggregateType, RoutingKeyMeetingEdited),
		MeetingID: m.ID(),
		Subject:   m.Subject(),
		Start:     m.Period().Start,
		End:       m.Period().End,
		Added:     diff.Added,
		Removed:   diff.Removed,
	}
}

// MeetingStatusChanged is emitted when a meeting leaves the OPEN state.
type MeetingStatusChanged struct {
	sharedDomain.BaseEvent
	MeetingID uuid.UUID `json:"meeting_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
}

// NewMeetingStatusChanged creates a MeetingStatusChanged event. Closing and
// cancelling get their own routing keys.
func NewMeetingStatusChanged(m *Meeting, from MeetingStatus) *MeetingStatusChanged {
	routingKey := RoutingKeyMeetingStatusChanged
	switch m.Status() {
	case MeetingClosed:
		routingKey = RoutingKeyMeetingClosed
	case MeetingCancelled:
		routingKey = RoutingKeyMeetingCancelled
	}
	return &MeetingStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), meetingAggregateType, routingKey),
		MeetingID: m.ID(),
		From:      string(from),
		To:        string(m.Status()),
	}
}

// AttendanceAssisted is emitted when a participant attends a meeting.
type AttendanceAssisted struct {
	sharedDomain.BaseEvent
	MeetingID uuid.UUID `json:"meeting_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewAttendanceAssisted creates an AttendanceAssisted event.
func NewAttendanceAssisted(m *Meeting, userID uuid.UUID) *AttendanceAssisted {
	return &AttendanceAssisted{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), meetingAggregateType, RoutingKeyAttendanceAssisted),
		MeetingID: m.ID(),
		UserID:    userID,
	}
}

// AttendanceResponded is emitted when an invitation status changes.
type AttendanceResponded struct {
	sharedDomain.BaseEvent
	MeetingID     uuid.UUID `json:"meeting_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	DeclineReason string    `json:"decline_reason,omitempty"`
}

// NewAttendanceResponded creates an AttendanceResponded event.
func NewAttendanceResponded(m *Meeting, a *Attendance) *AttendanceResponded {
	return &AttendanceResponded{
		BaseEvent:     sharedDomain.NewBaseEvent(m.ID(), meetingAggregateType, RoutingKeyAttendanceResponded),
		MeetingID:     m.ID(),
		UserID:        a.UserID(),
		Status:        string(a.InvitationStatus()),
		DeclineReason: a.DeclineReason(),
	}
}

// AbsenceEvent is emitted when an absence is registered or removed.
type AbsenceEvent struct {
	sharedDomain.BaseEvent
	AbsenceID uuid.UUID `json:"absence_id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"all_day"`
}

// NewAbsenceCreated creates the event for a new absence.
func NewAbsenceCreated(a *Absence) *AbsenceEvent {
	return newAbsenceEvent(a, RoutingKeyAbsenceCreated)
}

// NewAbsenceDeleted creates the event for a removed absence.
func NewAbsenceDeleted(a *Absence) *AbsenceEvent {
	return newAbsenceEvent(a, RoutingKeyAbsenceDeleted)
}

func newAbsenceEvent(a *Absence, routingKey string) *AbsenceEvent {
	return &AbsenceEvent{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), absenceAggregateType, routingKey),
		AbsenceID: a.ID(),
		UserID:    a.UserID(),
		Type:      string(a.Type()),
		Start:     a.Start(),
		End:       a.End(),
		AllDay:    a.IsAllDay(),
	}
}

// NotificationCreated is emitted for every stored notification so it can be
// delivered out of band.
type NotificationCreated struct {
	sharedDomain.BaseEvent
	NotificationID uuid.UUID  `json:"notification_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	MeetingID      *uuid.UUID `json:"meeting_id,omitempty"`
	Description    string     `json:"description"`
}

// NewNotificationCreated creates a NotificationCreated event.
func NewNotificationCreated(n *Notification) *NotificationCreated {
	return &NotificationCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(n.ID(), notificationAggregateType, RoutingKeyNotificationCreated),
		NotificationID: n.ID(),
		RecipientID:    n.RecipientID(),
		MeetingID:      n.MeetingID(),
		Description:    n.Description(),
	}
}

// WorkScheduleConfigured is emitted once the work schedule is set up.
type WorkScheduleConfigured struct {
	sharedDomain.BaseEvent
	Blocks []string `json:"blocks"`
}

// NewWorkScheduleConfigured creates a WorkScheduleConfigured event.
func NewWorkScheduleConfigured(s *WorkSchedule) *WorkScheduleConfigured {
	blocks := make([]string, 0, len(s.Blocks()))
	for _, b := range s.Blocks() {
		blocks = append(blocks, b.Name()+" "+b.Start().String()+"-"+b.End().String())
	}
	return &WorkScheduleConfigured{
		BaseEvent: sharedDomain.NewBaseEvent(uuid.Nil, scheduleAggregateType, RoutingKeyWorkScheduleConfigured),
		Blocks:    blocks,
	}
}
