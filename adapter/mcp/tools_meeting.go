package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
)

type meetingFields struct {
	Subject      string   `json:"subject" jsonschema:"required"`
	AllDay       bool     `json:"all_day,omitempty"`
	Date         string   `json:"date" jsonschema:"required"`
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	Online       bool     `json:"online,omitempty"`
	Location     string   `json:"location,omitempty"`
	Observations string   `json:"observations,omitempty"`
	Invite       []string `json:"invite,omitempty"`
}

func (in meetingFields) input() commands.MeetingInput {
	return commands.MeetingInput{
		Subject:           in.Subject,
		AllDay:            in.AllDay,
		Date:              in.Date,
		FromTime:          in.From,
		ToTime:            in.To,
		Online:            in.Online,
		Location:          in.Location,
		Observations:      in.Observations,
		ParticipantEmails: trimAll(in.Invite),
	}
}

type meetingEditInput struct {
	MeetingID    string   `json:"meeting_id" jsonschema:"required"`
	Subject      string   `json:"subject" jsonschema:"required"`
	AllDay       bool     `json:"all_day,omitempty"`
	Date         string   `json:"date" jsonschema:"required"`
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	Online       bool     `json:"online,omitempty"`
	Location     string   `json:"location,omitempty"`
	Observations string   `json:"observations,omitempty"`
	Invite       []string `json:"invite,omitempty"`
}

func (in meetingEditInput) fields() meetingFields {
	return meetingFields{
		Subject:      in.Subject,
		AllDay:       in.AllDay,
		Date:         in.Date,
		From:         in.From,
		To:           in.To,
		Online:       in.Online,
		Location:     in.Location,
		Observations: in.Observations,
		Invite:       in.Invite,
	}
}

type meetingIDInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"required"`
}

type meetingStatusInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"required"`
	Status    string `json:"status" jsonschema:"required"`
}

type meetingRespondInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"required"`
	Status    string `json:"status" jsonschema:"required"`
	Reason    string `json:"reason,omitempty"`
}

type meetingCandidatesInput struct {
	Date   string `json:"date" jsonschema:"required"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	AllDay bool   `json:"all_day,omitempty"`
}

type meetingListInput struct {
	OpenOnly bool `json:"open_only,omitempty"`
}

func registerMeetingTools(srv *mcp.Server, h *toolHandlers) error {
	srv.Tool("meeting.create").
		Description("Create a meeting inside the work schedule and invite users by email").
		Handler(h.meetingCreate)

	srv.Tool("meeting.edit").
		Description("Edit an open meeting you organize; the invite list replaces the current one").
		Handler(h.meetingEdit)

	srv.Tool("meeting.show").
		Description("Show a meeting with its attendees").
		Handler(h.meetingShow)

	srv.Tool("meeting.assist").
		Description("Record that you attended a meeting; the organizer's assistance closes it").
		Handler(h.meetingAssist)

	srv.Tool("meeting.status").
		Description("Change the status of a meeting you organize (OPEN, CLOSED or CANCELLED)").
		Handler(h.meetingStatus)

	srv.Tool("meeting.respond").
		Description("Accept or reject an invitation (ACCEPTED or REJECTED, with an optional reason)").
		Handler(h.meetingRespond)

	srv.Tool("meeting.candidates").
		Description("List active users that could be invited, flagging those with overlapping absences").
		Handler(h.meetingCandidates)

	srv.Tool("meeting.list").
		Description("List the meetings you organize or are invited to").
		Handler(h.meetingList)

	return nil
}

func (h *toolHandlers) meetingCreate(ctx context.Context, input meetingFields) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	result, err := app.CreateMeetingHandler.Handle(ctx, commands.CreateMeetingCommand{
		OrganizerID:  app.CurrentUserID,
		MeetingInput: input.input(),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"meeting_id": result.MeetingID.String(),
		"invited":    result.Invited,
	}, nil
}

func (h *toolHandlers) meetingEdit(ctx context.Context, input meetingEditInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	meetingID, err := parseUUID(input.MeetingID)
	if err != nil {
		return nil, err
	}
	result, err := app.EditMeetingHandler.Handle(ctx, commands.EditMeetingCommand{
		MeetingID:    meetingID,
		OrganizerID:  app.CurrentUserID,
		MeetingInput: input.fields().input(),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"added":   uuidStrings(result.Added),
		"removed": uuidStrings(result.Removed),
	}, nil
}

func (h *toolHandlers) meetingShow(ctx context.Context, input meetingIDInput) (*queries.MeetingDetailDTO, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	meetingID, err := parseUUID(input.MeetingID)
	if err != nil {
		return nil, err
	}
	return app.GetMeetingHandler.Handle(ctx, queries.GetMeetingQuery{
		MeetingID: meetingID,
		ViewerID:  app.CurrentUserID,
	})
}

func (h *toolHandlers) meetingAssist(ctx context.Context, input meetingIDInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	meetingID, err := parseUUID(input.MeetingID)
	if err != nil {
		return nil, err
	}
	result, err := app.AssistMeetingHandler.Handle(ctx, commands.AssistMeetingCommand{
		MeetingID: meetingID,
		UserID:    app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": string(result.Status)}, nil
}

func (h *toolHandlers) meetingStatus(ctx context.Context, input meetingStatusInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	meetingID, err := parseUUID(input.MeetingID)
	if err != nil {
		return nil, err
	}
	if err := app.ChangeMeetingStatusHandler.Handle(ctx, commands.ChangeMeetingStatusCommand{
		MeetingID:   meetingID,
		OrganizerID: app.CurrentUserID,
		Status:      input.Status,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"updated": true}, nil
}

func (h *toolHandlers) meetingRespond(ctx context.Context, input meetingRespondInput) (map[string]any, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	meetingID, err := parseUUID(input.MeetingID)
	if err != nil {
		return nil, err
	}
	if err := app.ChangeInvitationStatusHandler.Handle(ctx, commands.ChangeInvitationStatusCommand{
		MeetingID:     meetingID,
		UserID:        app.CurrentUserID,
		Status:        input.Status,
		DeclineReason: input.Reason,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"answered": true}, nil
}

func (h *toolHandlers) meetingCandidates(ctx context.Context, input meetingCandidatesInput) ([]queries.CandidateDTO, error) {
	if h.app == nil || h.app.ListMeetingCandidatesHandler == nil {
		return nil, errors.New("candidate listing requires database connection")
	}
	return h.app.ListMeetingCandidatesHandler.Handle(ctx, queries.ListMeetingCandidatesQuery{
		Date:     input.Date,
		FromTime: input.From,
		ToTime:   input.To,
		AllDay:   input.AllDay,
	})
}

func (h *toolHandlers) meetingList(ctx context.Context, input meetingListInput) ([]queries.MeetingDTO, error) {
	app, err := h.actor()
	if err != nil {
		return nil, err
	}
	return app.ListMeetingsHandler.Handle(ctx, queries.ListMeetingsQuery{
		UserID:   app.CurrentUserID,
		OpenOnly: input.OpenOnly,
	})
}
