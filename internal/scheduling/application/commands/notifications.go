package commands

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/google/uuid"
)

// MarkNotificationReadCommand marks a notification of the recipient as read.
type MarkNotificationReadCommand struct {
	NotificationID uuid.UUID
	RecipientID    uuid.UUID
}

// MarkNotificationReadHandler handles the MarkNotificationReadCommand.
type MarkNotificationReadHandler struct {
	repo  domain.NotificationRepository
	uow   sharedApplication.UnitOfWork
	clock domain.Clock
}

// NewMarkNotificationReadHandler creates a new MarkNotificationReadHandler.
func NewMarkNotificationReadHandler(repo domain.NotificationRepository, uow sharedApplication.UnitOfWork, clock domain.Clock) *MarkNotificationReadHandler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MarkNotificationReadHandler{repo: repo, uow: uow, clock: clock}
}

// Handle executes the MarkNotificationReadCommand.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		notification, err := loadOwnNotification(txCtx, h.repo, cmd.NotificationID, cmd.RecipientID)
		if err != nil {
			return err
		}
		if notification.IsRead() {
			return nil
		}
		notification.MarkRead(h.clock.Now())
		return h.repo.Save(txCtx, notification)
	})
}

// DiscardNotificationCommand deletes a notification of the recipient.
type DiscardNotificationCommand struct {
	NotificationID uuid.UUID
	RecipientID    uuid.UUID
}

// DiscardNotificationHandler handles the DiscardNotificationCommand.
type DiscardNotificationHandler struct {
	repo domain.NotificationRepository
	uow  sharedApplication.UnitOfWork
}

// NewDiscardNotificationHandler creates a new DiscardNotificationHandler.
func NewDiscardNotificationHandler(repo domain.NotificationRepository, uow sharedApplication.UnitOfWork) *DiscardNotificationHandler {
	return &DiscardNotificationHandler{repo: repo, uow: uow}
}

// Handle executes the DiscardNotificationCommand.
func (h *DiscardNotificationHandler) Handle(ctx context.Context, cmd DiscardNotificationCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		notification, err := loadOwnNotification(txCtx, h.repo, cmd.NotificationID, cmd.RecipientID)
		if err != nil {
			return err
		}
		return h.repo.Delete(txCtx, notification.ID())
	})
}

func loadOwnNotification(ctx context.Context, repo domain.NotificationRepository, id, recipientID uuid.UUID) (*domain.Notification, error) {
	notification, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, domain.NotFound("notification", id)
	}
	if notification.RecipientID() != recipientID {
		return nil, domain.NewRuleError(domain.ErrForbidden, "notification %s belongs to another user", id)
	}
	return notification, nil
}
