package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
)

type scheduleConfigureInput struct {
	Blocks []commands.WorkScheduleBlockInput `json:"blocks" jsonschema:"required"`
}

func registerScheduleTools(srv *mcp.Server, h *toolHandlers) error {
	srv.Tool("schedule.show").
		Description("Show the shared work schedule").
		Handler(h.scheduleShow)

	srv.Tool("schedule.configure").
		Description("Replace the shared work schedule with the given blocks (HH:MM start and end)").
		Handler(h.scheduleConfigure)

	return nil
}

func (h *toolHandlers) scheduleShow(ctx context.Context, _ struct{}) ([]queries.WorkScheduleBlockDTO, error) {
	if h.app == nil || h.app.GetWorkScheduleHandler == nil {
		return nil, errors.New("schedule requires database connection")
	}
	return h.app.GetWorkScheduleHandler.Handle(ctx)
}

func (h *toolHandlers) scheduleConfigure(ctx context.Context, input scheduleConfigureInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	if len(input.Blocks) == 0 {
		return nil, errors.New("at least one block is required")
	}
	result, err := app.ConfigureWorkScheduleHandler.Handle(ctx, commands.ConfigureWorkScheduleCommand{
		ActorID: app.CurrentUserID,
		Blocks:  input.Blocks,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"configured": len(result.Schedule.Blocks())}, nil
}
