package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
)

type notificationListInput struct {
	UnreadOnly bool `json:"unread_only,omitempty"`
}

type notificationIDInput struct {
	NotificationID string `json:"notification_id" jsonschema:"required"`
}

func registerNotificationTools(srv *mcp.Server, h *toolHandlers) error {
	srv.Tool("notification.list").
		Description("List your notifications, newest first").
		Handler(h.notificationList)

	srv.Tool("notification.read").
		Description("Mark a notification as read").
		Handler(h.notificationRead)

	srv.Tool("notification.discard").
		Description("Discard a notification").
		Handler(h.notificationDiscard)

	return nil
}

func (h *toolHandlers) notificationList(ctx context.Context, input notificationListInput) ([]queries.NotificationDTO, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	return app.ListNotificationsHandler.Handle(ctx, queries.ListNotificationsQuery{
		UserID:     app.CurrentUserID,
		UnreadOnly: input.UnreadOnly,
	})
}

func (h *toolHandlers) notificationRead(ctx context.Context, input notificationIDInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	id, err := parseUUID(input.NotificationID)
	if err != nil {
		return nil, err
	}
	if err := app.MarkNotificationReadHandler.Handle(ctx, commands.MarkNotificationReadCommand{
		NotificationID: id,
		RecipientID:    app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"read": true}, nil
}

func (h *toolHandlers) notificationDiscard(ctx context.Context, input notificationIDInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	id, err := parseUUID(input.NotificationID)
	if err != nil {
		return nil, err
	}
	if err := app.DiscardNotificationHandler.Handle(ctx, commands.DiscardNotificationCommand{
		NotificationID: id,
		RecipientID:    app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"discarded": true}, nil
}
