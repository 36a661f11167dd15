package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

const whenLayout = "Mon 02 Jan 2006 15:04"

// notificationPayload is the part of a NotificationCreated event the mailer
// reads.
type notificationPayload struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	MeetingID      *uuid.UUID `json:"meeting_id,omitempty"`
	Description    string     `json:"description"`
}

// NotificationData is the template data of a notification e-mail.
type NotificationData struct {
	RecipientName  string
	Description    string
	MeetingSubject string
	MeetingWhen    string
}

// NotificationMailer e-mails every stored notification to its recipient.
type NotificationMailer struct {
	users    identityDomain.UserRepository
	meetings domain.MeetingRepository
	renderer *Renderer
	mailer   Mailer
	logger   *slog.Logger
}

// NewNotificationMailer creates a new NotificationMailer.
func NewNotificationMailer(
	users identityDomain.UserRepository,
	meetings domain.MeetingRepository,
	mailer Mailer,
	logger *slog.Logger,
) *NotificationMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationMailer{
		users:    users,
		meetings: meetings,
		renderer: NewRenderer(),
		mailer:   mailer,
		logger:   logger,
	}
}

// EventTypes returns the routing keys this consumer handles.
func (c *NotificationMailer) EventTypes() []string {
	return []string{domain.RoutingKeyNotificationCreated}
}

// Handle renders and sends the notification. Recipients that no longer
// exist are skipped.
func (c *NotificationMailer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload notificationPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode notification payload: %w", err)
	}

	recipient, err := c.users.FindByID(ctx, payload.RecipientID)
	if errors.Is(err, identityDomain.ErrUserNotFound) {
		c.logger.Warn("notification recipient not found", "recipient_id", payload.RecipientID)
		return nil
	}
	if err != nil {
		return err
	}

	data := NotificationData{
		RecipientName: recipient.FullName(),
		Description:   payload.Description,
	}
	if payload.MeetingID != nil {
		meeting, err := c.meetings.FindByID(ctx, *payload.MeetingID)
		if err != nil {
			return err
		}
		if meeting != nil {
			data.MeetingSubject = meeting.Subject()
			data.MeetingWhen = meeting.Period().Start.Format(whenLayout)
		}
	}

	msg, err := c.renderer.Render("notification", recipient.Email().String(), data)
	if err != nil {
		return err
	}
	if err := c.mailer.Send(ctx, msg); err != nil {
		return err
	}

	c.logger.Info("notification mailed",
		"notification_id", payload.NotificationID,
		"recipient_id", payload.RecipientID,
	)
	return nil
}
