package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

// Notification is a message addressed to one user.
type Notification struct {
	sharedDomain.BaseAggregateRoot
	recipientID uuid.UUID
	meetingID   *uuid.UUID
	description string
	read        bool
	readAt      *time.Time
}

// NewNotification creates an unread notification.
func NewNotification(recipientID uuid.UUID, meetingID *uuid.UUID, description string) *Notification {
	n := &Notification{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		recipientID:       recipientID,
		meetingID:         meetingID,
		description:       strings.TrimSpace(description),
	}
	n.AddDomainEvent(NewNotificationCreated(n))
	return n
}

// RehydrateNotification recreates a notification from persisted state.
func RehydrateNotification(
	id, recipientID uuid.UUID,
	meetingID *uuid.UUID,
	description string,
	read bool,
	readAt *time.Time,
	createdAt, updatedAt time.Time,
) *Notification {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Notification{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		recipientID:       recipientID,
		meetingID:         meetingID,
		description:       description,
		read:              read,
		readAt:            readAt,
	}
}

// Getters
func (n *Notification) RecipientID() uuid.UUID { return n.recipientID }
func (n *Notification) MeetingID() *uuid.UUID  { return n.meetingID }
func (n *Notification) Description() string    { return n.description }
func (n *Notification) IsRead() bool           { return n.read }
func (n *Notification) ReadAt() *time.Time     { return n.readAt }

// MarkRead flags the notification as read. Reading twice keeps the first
// timestamp.
func (n *Notification) MarkRead(at time.Time) {
	if n.read {
		return
	}
	n.read = true
	n.readAt = &at
	n.Touch()
}
