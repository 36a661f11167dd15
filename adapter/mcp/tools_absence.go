package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
)

type absenceWindowInput struct {
	AllDay   bool   `json:"all_day,omitempty"`
	FromDate string `json:"from_date" jsonschema:"required"`
	ToDate   string `json:"to_date" jsonschema:"required"`
	FromTime string `json:"from_time,omitempty"`
	ToTime   string `json:"to_time,omitempty"`
}

func (in absenceWindowInput) window() services.AbsenceWindowInput {
	return services.AbsenceWindowInput{
		AllDay:   in.AllDay,
		FromDate: in.FromDate,
		ToDate:   in.ToDate,
		FromTime: in.FromTime,
		ToTime:   in.ToTime,
	}
}

type absenceCreateInput struct {
	Type     string `json:"type" jsonschema:"required"`
	AllDay   bool   `json:"all_day,omitempty"`
	FromDate string `json:"from_date" jsonschema:"required"`
	ToDate   string `json:"to_date" jsonschema:"required"`
	FromTime string `json:"from_time,omitempty"`
	ToTime   string `json:"to_time,omitempty"`
}

type absenceDeleteInput struct {
	AbsenceID string `json:"absence_id" jsonschema:"required"`
}

func registerAbsenceTools(srv *mcp.Server, h *toolHandlers) error {
	srv.Tool("absence.check").
		Description("List the open meetings an absence would withdraw you from, without creating it").
		Handler(h.absenceCheck)

	srv.Tool("absence.create").
		Description("Register an absence (VACATION, SICK_LEAVE or PERMIT) and withdraw from overlapping meetings").
		Handler(h.absenceCreate)

	srv.Tool("absence.list").
		Description("List your absences").
		Handler(h.absenceList)

	srv.Tool("absence.delete").
		Description("Delete one of your absences").
		Handler(h.absenceDelete)

	return nil
}

func (h *toolHandlers) absenceCheck(ctx context.Context, input absenceWindowInput) (*queries.CheckAbsenceMeetingOverlapResult, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	return app.CheckAbsenceMeetingOverlapHandler.Handle(ctx, queries.CheckAbsenceMeetingOverlapQuery{
		UserID:             app.CurrentUserID,
		AbsenceWindowInput: input.window(),
	})
}

func (h *toolHandlers) absenceCreate(ctx context.Context, input absenceCreateInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	result, err := app.CreateAbsenceHandler.Handle(ctx, commands.CreateAbsenceCommand{
		UserID:   app.CurrentUserID,
		Type:     input.Type,
		AllDay:   input.AllDay,
		FromDate: input.FromDate,
		ToDate:   input.ToDate,
		FromTime: input.FromTime,
		ToTime:   input.ToTime,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"absence_id": result.AbsenceID.String(),
		"messages":   result.Messages,
	}, nil
}

func (h *toolHandlers) absenceList(ctx context.Context, _ struct{}) ([]queries.AbsenceDTO, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	return app.ListAbsencesHandler.Handle(ctx, queries.ListAbsencesQuery{UserID: app.CurrentUserID})
}

func (h *toolHandlers) absenceDelete(ctx context.Context, input absenceDeleteInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	absenceID, err := parseUUID(input.AbsenceID)
	if err != nil {
		return nil, err
	}
	if err := app.DeleteAbsenceHandler.Handle(ctx, commands.DeleteAbsenceCommand{
		AbsenceID: absenceID,
		ActorID:   app.CurrentUserID,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}
