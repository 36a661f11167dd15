package queries

import (
	"context"
	"errors"
	"strings"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListMeetingsQuery contains the parameters for listing a user's meetings.
type ListMeetingsQuery struct {
	UserID   uuid.UUID
	OpenOnly bool
}

// ListMeetingsHandler handles the ListMeetingsQuery.
type ListMeetingsHandler struct {
	repo domain.MeetingRepository
}

// NewListMeetingsHandler creates a new ListMeetingsHandler.
func NewListMeetingsHandler(repo domain.MeetingRepository) *ListMeetingsHandler {
	return &ListMeetingsHandler{repo: repo}
}

// Handle executes the ListMeetingsQuery.
func (h *ListMeetingsHandler) Handle(ctx context.Context, query ListMeetingsQuery) ([]MeetingDTO, error) {
	var meetings []*domain.Meeting
	var err error

	if query.OpenOnly {
		meetings, err = h.repo.FindOpenByParticipant(ctx, query.UserID)
	} else {
		meetings, err = h.repo.FindByParticipant(ctx, query.UserID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]MeetingDTO, 0, len(meetings))
	for _, m := range meetings {
		dtos = append(dtos, toMeetingDTO(m, query.UserID))
	}
	return dtos, nil
}

// HasOpenMeetingsQuery asks whether a user still takes part in OPEN meetings.
type HasOpenMeetingsQuery struct {
	UserID uuid.UUID
}

// HasOpenMeetingsResult reports the user's OPEN meeting count.
type HasOpenMeetingsResult struct {
	UserID       uuid.UUID `json:"user_id"`
	OpenMeetings int       `json:"open_meetings"`
	HasOpen      bool      `json:"has_open_meetings"`
}

// HasOpenMeetingsHandler handles the HasOpenMeetingsQuery.
type HasOpenMeetingsHandler struct {
	repo domain.MeetingRepository
}

// NewHasOpenMeetingsHandler creates a new HasOpenMeetingsHandler.
func NewHasOpenMeetingsHandler(repo domain.MeetingRepository) *HasOpenMeetingsHandler {
	return &HasOpenMeetingsHandler{repo: repo}
}

// Handle executes the HasOpenMeetingsQuery.
func (h *HasOpenMeetingsHandler) Handle(ctx context.Context, query HasOpenMeetingsQuery) (*HasOpenMeetingsResult, error) {
	n, err := h.repo.CountOpenByParticipant(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	return &HasOpenMeetingsResult{UserID: query.UserID, OpenMeetings: n, HasOpen: n > 0}, nil
}

// GetMeetingQuery asks for one meeting on behalf of a user.
type GetMeetingQuery struct {
	MeetingID uuid.UUID
	ViewerID  uuid.UUID
}

// GetMeetingHandler handles the GetMeetingQuery.
type GetMeetingHandler struct {
	meetings domain.MeetingRepository
	users    identityDomain.UserRepository
}

// NewGetMeetingHandler creates a new GetMeetingHandler.
func NewGetMeetingHandler(meetings domain.MeetingRepository, users identityDomain.UserRepository) *GetMeetingHandler {
	return &GetMeetingHandler{meetings: meetings, users: users}
}

// Handle executes the GetMeetingQuery.
func (h *GetMeetingHandler) Handle(ctx context.Context, query GetMeetingQuery) (*MeetingDetailDTO, error) {
	meeting, err := h.meetings.FindByID(ctx, query.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, domain.NotFound("meeting", query.MeetingID)
	}

	detail := &MeetingDetailDTO{
		MeetingDTO: toMeetingDTO(meeting, query.ViewerID),
		Attendees:  make([]AttendeeDTO, 0, len(meeting.Attendances())),
	}
	for _, a := range meeting.Attendances() {
		attendee := AttendeeDTO{
			UserID:           a.UserID(),
			Role:             string(a.Role()),
			InvitationStatus: string(a.InvitationStatus()),
			DeclineReason:    a.DeclineReason(),
			HasAssisted:      a.HasAssisted(),
		}
		user, err := h.users.FindByID(ctx, a.UserID())
		switch {
		case err == nil && user != nil:
			attendee.Email = user.Email().String()
			attendee.Name = user.FullName()
		case err != nil && !errors.Is(err, identityDomain.ErrUserNotFound):
			return nil, err
		}
		detail.Attendees = append(detail.Attendees, attendee)
	}
	return detail, nil
}

// ListMeetingCandidatesQuery describes the slot of a meeting being planned.
type ListMeetingCandidatesQuery struct {
	Date     string
	FromTime string
	ToTime   string
	AllDay   bool
}

// ListMeetingCandidatesHandler handles the ListMeetingCandidatesQuery.
type ListMeetingCandidatesHandler struct {
	repo domain.CandidateRepository
}

// NewListMeetingCandidatesHandler creates a new ListMeetingCandidatesHandler.
func NewListMeetingCandidatesHandler(repo domain.CandidateRepository) *ListMeetingCandidatesHandler {
	return &ListMeetingCandidatesHandler{repo: repo}
}

// Handle lists every active, unblocked user, flagging the ones with an
// absence colliding with the slot.
func (h *ListMeetingCandidatesHandler) Handle(ctx context.Context, query ListMeetingCandidatesQuery) ([]CandidateDTO, error) {
	window, err := query.window()
	if err != nil {
		return nil, err
	}

	rows, err := h.repo.ListCandidateRows(ctx)
	if err != nil {
		return nil, err
	}

	candidates := services.FlagCandidates(rows, window, query.AllDay)
	dtos := make([]CandidateDTO, 0, len(candidates))
	for _, c := range candidates {
		dtos = append(dtos, CandidateDTO(c))
	}
	return dtos, nil
}

// window parses the slot without applying calendar rules; candidates may be
// listed for any date.
func (q ListMeetingCandidatesQuery) window() (domain.TimeRange, error) {
	in := services.MeetingWindowInput{AllDay: q.AllDay, Date: q.Date, FromTime: q.FromTime, ToTime: q.ToTime}
	if err := in.RequireFields(); err != nil {
		return domain.TimeRange{}, err
	}
	date, err := domain.ParseDate("date", strings.TrimSpace(q.Date))
	if err != nil {
		return domain.TimeRange{}, err
	}
	if q.AllDay {
		return domain.AllDayRange(date, date), nil
	}

	from, err := domain.ParseTimeOfDay("fromTime", strings.TrimSpace(q.FromTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	to, err := domain.ParseTimeOfDay("toTime", strings.TrimSpace(q.ToTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	if !from.Before(to) {
		return domain.TimeRange{}, domain.NewRuleError(domain.ErrInvalidTimeRange, "start %s is not before end %s", from, to)
	}
	return domain.NewTimeRange(from.On(date), to.On(date)), nil
}
