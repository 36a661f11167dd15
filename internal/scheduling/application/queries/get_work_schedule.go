package queries

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
)

// GetWorkScheduleHandler returns the configured work schedule.
type GetWorkScheduleHandler struct {
	repo domain.WorkScheduleRepository
}

// NewGetWorkScheduleHandler creates a new GetWorkScheduleHandler.
func NewGetWorkScheduleHandler(repo domain.WorkScheduleRepository) *GetWorkScheduleHandler {
	return &GetWorkScheduleHandler{repo: repo}
}

// Handle returns the blocks ordered by start; the list is empty when no
// schedule was configured.
func (h *GetWorkScheduleHandler) Handle(ctx context.Context) ([]WorkScheduleBlockDTO, error) {
	schedule, err := h.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]WorkScheduleBlockDTO, 0, len(schedule.Blocks()))
	for _, b := range schedule.Blocks() {
		dtos = append(dtos, WorkScheduleBlockDTO{
			ID:    b.ID(),
			Name:  b.Name(),
			Start: b.Start().String(),
			End:   b.End().String(),
		})
	}
	return dtos, nil
}
