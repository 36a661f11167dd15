package queries

import (
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// WorkScheduleBlockDTO is a data transfer object for work schedule blocks.
type WorkScheduleBlockDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Start string    `json:"start"`
	End   string    `json:"end"`
}

// AbsenceDTO is a data transfer object for absences.
type AbsenceDTO struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Type   string    `json:"type"`
	AllDay bool      `json:"all_day"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// MeetingDTO is a meeting seen by one of its participants.
type MeetingDTO struct {
	ID               uuid.UUID `json:"id"`
	Subject          string    `json:"subject"`
	AllDay           bool      `json:"all_day"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Online           bool      `json:"online"`
	Location         string    `json:"location,omitempty"`
	Observations     string    `json:"observations,omitempty"`
	Status           string    `json:"status"`
	OrganizerID      uuid.UUID `json:"organizer_id"`
	Role             string    `json:"role,omitempty"`
	InvitationStatus string    `json:"invitation_status,omitempty"`
	DeclineReason    string    `json:"decline_reason,omitempty"`
	HasAssisted      bool      `json:"has_assisted"`
}

// AttendeeDTO is one attendance of a meeting.
type AttendeeDTO struct {
	UserID           uuid.UUID `json:"user_id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	InvitationStatus string    `json:"invitation_status"`
	DeclineReason    string    `json:"decline_reason,omitempty"`
	HasAssisted      bool      `json:"has_assisted"`
}

// MeetingDetailDTO is a meeting with its full attendance list.
type MeetingDetailDTO struct {
	MeetingDTO
	Attendees []AttendeeDTO `json:"attendees"`
}

// CandidateDTO is a user who may be invited to a meeting.
type CandidateDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	HasAbsences bool      `json:"has_absences"`
}

// NotificationDTO is a data transfer object for notifications.
type NotificationDTO struct {
	ID          uuid.UUID  `json:"id"`
	MeetingID   *uuid.UUID `json:"meeting_id,omitempty"`
	Description string     `json:"description"`
	Read        bool       `json:"read"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}

func toAbsenceDTO(a *domain.Absence) AbsenceDTO {
	return AbsenceDTO{
		ID:     a.ID(),
		UserID: a.UserID(),
		Type:   string(a.Type()),
		AllDay: a.IsAllDay(),
		Start:  a.Start(),
		End:    a.End(),
	}
}

// toMeetingDTO describes m from the point of view of viewerID.
func toMeetingDTO(m *domain.Meeting, viewerID uuid.UUID) MeetingDTO {
	dto := MeetingDTO{
		ID:           m.ID(),
		Subject:      m.Subject(),
		AllDay:       m.IsAllDay(),
		Start:        m.Period().Start,
		End:          m.Period().End,
		Online:       m.IsOnline(),
		Location:     string(m.Location()),
		Observations: m.Observations(),
		Status:       string(m.Status()),
		OrganizerID:  m.OrganizerID(),
	}
	if a := m.AttendanceOf(viewerID); a != nil {
		dto.Role = string(a.Role())
		dto.InvitationStatus = string(a.InvitationStatus())
		dto.DeclineReason = a.DeclineReason()
		dto.HasAssisted = a.HasAssisted()
	}
	return dto
}

func toNotificationDTO(n *domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID(),
		MeetingID:   n.MeetingID(),
		Description: n.Description(),
		Read:        n.IsRead(),
		CreatedAt:   n.CreatedAt(),
		ReadAt:      n.ReadAt(),
	}
}
