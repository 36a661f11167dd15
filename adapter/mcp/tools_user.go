package mcp

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/adapter/cli"
	identityQueries "github.com/felixgeelhaar/planify/internal/identity/application/queries"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
)

type userOpenMeetingsInput struct {
	User string `json:"user,omitempty"` // ID or email, defaults to the acting user
}

func registerUserTools(srv *mcp.Server, h *toolHandlers) error {
	srv.Tool("user.list").
		Description("List active, unblocked users who can organize or be invited to meetings").
		Handler(h.userList)

	srv.Tool("user.open_meetings").
		Description("Count the open meetings a user organizes or is invited to").
		Handler(h.userOpenMeetings)

	return nil
}

func (h *toolHandlers) userList(ctx context.Context, _ struct{}) ([]identityQueries.UserDTO, error) {
	if h.app == nil || h.app.ListUsersHandler == nil {
		return nil, cli.ErrNoDatabase
	}
	return h.app.ListUsersHandler.Handle(ctx, identityQueries.ListUsersQuery{})
}

func (h *toolHandlers) userOpenMeetings(ctx context.Context, input userOpenMeetingsInput) (*queries.HasOpenMeetingsResult, error) {
	if h.app == nil || h.app.HasOpenMeetingsHandler == nil {
		return nil, cli.ErrNoDatabase
	}
	userID, err := h.app.Actor()
	if ref := strings.TrimSpace(input.User); ref != "" {
		userID, err = h.app.ResolveUser(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return h.app.HasOpenMeetingsHandler.Handle(ctx, queries.HasOpenMeetingsQuery{UserID: userID})
}
