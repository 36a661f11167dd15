package queries

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListNotificationsQuery contains the parameters for listing notifications.
type ListNotificationsQuery struct {
	UserID     uuid.UUID
	UnreadOnly bool
}

// ListNotificationsHandler handles the ListNotificationsQuery.
type ListNotificationsHandler struct {
	repo domain.NotificationRepository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(repo domain.NotificationRepository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle returns the user's notifications, newest first.
func (h *ListNotificationsHandler) Handle(ctx context.Context, query ListNotificationsQuery) ([]NotificationDTO, error) {
	notifications, err := h.repo.FindByRecipient(ctx, query.UserID, query.UnreadOnly)
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, toNotificationDTO(n))
	}
	return dtos, nil
}
