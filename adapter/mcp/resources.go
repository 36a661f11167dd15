package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
)

// RegisterResources registers MCP resources that expose Planify data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	h := &toolHandlers{app: deps.App}

	srv.Resource("planify://schedule").
		Name("Work schedule").
		Description("The shared work schedule blocks").
		MimeType("application/json").
		Handler(h.scheduleResource)

	srv.Resource("planify://meetings").
		Name("Meetings").
		Description("Meetings the current user organizes or is invited to").
		MimeType("application/json").
		Handler(h.meetingsResource(false))

	srv.Resource("planify://meetings/open").
		Name("Open meetings").
		Description("Open meetings of the current user").
		MimeType("application/json").
		Handler(h.meetingsResource(true))

	srv.Resource("planify://absences").
		Name("Absences").
		Description("Absences of the current user").
		MimeType("application/json").
		Handler(h.absencesResource)

	srv.Resource("planify://notifications/unread").
		Name("Unread notifications").
		Description("Unread notifications of the current user").
		MimeType("application/json").
		Handler(h.unreadNotificationsResource)

	return nil
}

func (h *toolHandlers) scheduleResource(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	blocks, err := h.scheduleShow(ctx, struct{}{})
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, blocks)
}

func (h *toolHandlers) meetingsResource(openOnly bool) func(context.Context, string, map[string]string) (*mcp.ResourceContent, error) {
	return func(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
		meetings, err := h.meetingList(ctx, meetingListInput{OpenOnly: openOnly})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, meetings)
	}
}

func (h *toolHandlers) absencesResource(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	absences, err := h.absenceList(ctx, struct{}{})
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, absences)
}

func (h *toolHandlers) unreadNotificationsResource(ctx context.Context, uri string, _ map[string]string) (*mcp.ResourceContent, error) {
	notifications, err := h.notificationList(ctx, notificationListInput{UnreadOnly: true})
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []queries.NotificationDTO{}
	}
	return jsonResource(uri, notifications)
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
