package services

import (
	"fmt"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// The functions below build notification records for meeting activity.
// They never persist anything; callers hand the records to the
// NotificationRepository inside their transaction.

// InvitationNotifications notifies each invitee that inviter added them to m.
func InvitationNotifications(m *domain.Meeting, inviter *identityDomain.User, inviteeIDs []uuid.UUID) []*domain.Notification {
	notifications := make([]*domain.Notification, 0, len(inviteeIDs))
	for _, id := range inviteeIDs {
		if id == inviter.ID() {
			continue
		}
		notifications = append(notifications, newMeetingNotification(m, id,
			fmt.Sprintf("%s invited you to the meeting %q on %s", inviter.FullName(), m.Subject(), describeWhen(m))))
	}
	return notifications
}

// ResponseNotification tells the organizer how responder answered.
func ResponseNotification(m *domain.Meeting, responder *identityDomain.User, status domain.InvitationStatus, reason string) *domain.Notification {
	var description string
	switch status {
	case domain.InvitationAccepted:
		description = fmt.Sprintf("%s accepted the invitation to the meeting %q", responder.FullName(), m.Subject())
	case domain.InvitationRejected:
		description = fmt.Sprintf("%s rejected the invitation to the meeting %q: %s", responder.FullName(), m.Subject(), reason)
	default:
		description = fmt.Sprintf("%s has not decided yet about the meeting %q", responder.FullName(), m.Subject())
	}
	return newMeetingNotification(m, m.OrganizerID(), description)
}

// CancellationNotifications tells every attendee who accepted that the
// organizer cancelled m.
func CancellationNotifications(m *domain.Meeting, organizer *identityDomain.User) []*domain.Notification {
	accepted := m.AcceptedAttendees()
	notifications := make([]*domain.Notification, 0, len(accepted))
	for _, a := range accepted {
		notifications = append(notifications, newMeetingNotification(m, a.UserID(),
			fmt.Sprintf("%s cancelled the meeting %q planned for %s", organizer.FullName(), m.Subject(), describeWhen(m))))
	}
	return notifications
}

// AssistanceNotification tells the organizer that assistant attended m.
func AssistanceNotification(m *domain.Meeting, assistant *identityDomain.User) *domain.Notification {
	return newMeetingNotification(m, m.OrganizerID(),
		fmt.Sprintf("%s assisted the meeting %q", assistant.FullName(), m.Subject()))
}

func newMeetingNotification(m *domain.Meeting, recipientID uuid.UUID, description string) *domain.Notification {
	meetingID := m.ID()
	return domain.NewNotification(recipientID, &meetingID, description)
}

func describeWhen(m *domain.Meeting) string {
	if m.IsAllDay() {
		return m.Period().Start.Format("Mon 2 Jan 2006") + " (all day)"
	}
	return m.Period().Start.Format("Mon 2 Jan 2006 15:04") + "-" + m.Period().End.Format("15:04")
}
