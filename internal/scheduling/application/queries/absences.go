package queries

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ListAbsencesQuery contains the parameters for listing absences.
type ListAbsencesQuery struct {
	UserID uuid.UUID
}

// ListAbsencesHandler handles the ListAbsencesQuery.
type ListAbsencesHandler struct {
	repo domain.AbsenceRepository
}

// NewListAbsencesHandler creates a new ListAbsencesHandler.
func NewListAbsencesHandler(repo domain.AbsenceRepository) *ListAbsencesHandler {
	return &ListAbsencesHandler{repo: repo}
}

// Handle executes the ListAbsencesQuery.
func (h *ListAbsencesHandler) Handle(ctx context.Context, query ListAbsencesQuery) ([]AbsenceDTO, error) {
	absences, err := h.repo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]AbsenceDTO, 0, len(absences))
	for _, a := range absences {
		dtos = append(dtos, toAbsenceDTO(a))
	}
	return dtos, nil
}

// CheckAbsenceMeetingOverlapQuery describes an absence about to be created.
type CheckAbsenceMeetingOverlapQuery struct {
	UserID uuid.UUID
	services.AbsenceWindowInput
}

// CheckAbsenceMeetingOverlapResult tells the caller which OPEN meetings the
// absence would withdraw the user from.
type CheckAbsenceMeetingOverlapResult struct {
	Overlaps bool         `json:"overlaps"`
	Count    int          `json:"count"`
	Meetings []MeetingDTO `json:"meetings"`
}

// CheckAbsenceMeetingOverlapHandler handles the CheckAbsenceMeetingOverlapQuery.
type CheckAbsenceMeetingOverlapHandler struct {
	schedule  domain.WorkScheduleRepository
	validator *services.TimeRangeValidator
	detector  *services.OverlapDetector
}

// NewCheckAbsenceMeetingOverlapHandler creates a new CheckAbsenceMeetingOverlapHandler.
func NewCheckAbsenceMeetingOverlapHandler(
	schedule domain.WorkScheduleRepository,
	meetings domain.MeetingRepository,
	absences domain.AbsenceRepository,
	clock domain.Clock,
) *CheckAbsenceMeetingOverlapHandler {
	return &CheckAbsenceMeetingOverlapHandler{
		schedule:  schedule,
		validator: services.NewTimeRangeValidator(clock),
		detector:  services.NewOverlapDetector(meetings, absences),
	}
}

// Handle validates the absence window and reports the overlapping meetings.
func (h *CheckAbsenceMeetingOverlapHandler) Handle(ctx context.Context, query CheckAbsenceMeetingOverlapQuery) (*CheckAbsenceMeetingOverlapResult, error) {
	schedule, err := h.schedule.Get(ctx)
	if err != nil {
		return nil, err
	}
	window, err := h.validator.AbsenceWindow(query.AbsenceWindowInput, schedule)
	if err != nil {
		return nil, err
	}

	meetings, err := h.detector.OpenMeetingsWithin(ctx, query.UserID, window)
	if err != nil {
		return nil, err
	}

	result := &CheckAbsenceMeetingOverlapResult{
		Overlaps: len(meetings) > 0,
		Count:    len(meetings),
		Meetings: make([]MeetingDTO, 0, len(meetings)),
	}
	for _, m := range meetings {
		result.Meetings = append(result.Meetings, toMeetingDTO(m, query.UserID))
	}
	return result, nil
}
