package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/adapter/cli"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	h := &toolHandlers{app: deps.App}

	if err := registerScheduleTools(srv, h); err != nil {
		return err
	}
	if err := registerAbsenceTools(srv, h); err != nil {
		return err
	}
	if err := registerMeetingTools(srv, h); err != nil {
		return err
	}
	if err := registerNotificationTools(srv, h); err != nil {
		return err
	}
	if err := registerUserTools(srv, h); err != nil {
		return err
	}

	return nil
}

// toolHandlers binds tool handlers to the CLI application.
type toolHandlers struct {
	app *cli.App
}

func (h *toolHandlers) actor() (*cli.App, error) {
	if h.app == nil {
		return nil, cli.ErrNoDatabase
	}
	if _, err := h.app.Actor(); err != nil {
		return nil, err
	}
	return h.app, nil
}
