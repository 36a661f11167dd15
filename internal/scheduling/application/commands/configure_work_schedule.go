package commands

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// WorkScheduleBlockInput is one proposed block of the work schedule.
type WorkScheduleBlockInput struct {
	Name  string `yaml:"name" json:"name"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// ConfigureWorkScheduleCommand sets up the shared work schedule.
type ConfigureWorkScheduleCommand struct {
	ActorID uuid.UUID
	Blocks  []WorkScheduleBlockInput
}

// ConfigureWorkScheduleResult contains the stored schedule.
type ConfigureWorkScheduleResult struct {
	Schedule *domain.WorkSchedule
}

// ConfigureWorkScheduleHandler handles the ConfigureWorkScheduleCommand.
type ConfigureWorkScheduleHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
}

// NewConfigureWorkScheduleHandler creates a new ConfigureWorkScheduleHandler.
func NewConfigureWorkScheduleHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker) *ConfigureWorkScheduleHandler {
	return &ConfigureWorkScheduleHandler{repos: repos, uow: uow, locker: locker}
}

// Handle executes the ConfigureWorkScheduleCommand. The schedule can only be
// configured once.
func (h *ConfigureWorkScheduleHandler) Handle(ctx context.Context, cmd ConfigureWorkScheduleCommand) (*ConfigureWorkScheduleResult, error) {
	blocks := make([]*domain.WorkScheduleBlock, 0, len(cmd.Blocks))
	for _, in := range cmd.Blocks {
		if strings.TrimSpace(in.Start) == "" {
			return nil, domain.MissingField("start")
		}
		if strings.TrimSpace(in.End) == "" {
			return nil, domain.MissingField("end")
		}
		start, err := domain.ParseTimeOfDay("start", strings.TrimSpace(in.Start))
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseTimeOfDay("end", strings.TrimSpace(in.End))
		if err != nil {
			return nil, err
		}
		block, err := domain.NewWorkScheduleBlock(in.Name, start, end)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	schedule, err := domain.NewWorkSchedule(blocks)
	if err != nil {
		return nil, err
	}

	err = withLocks(ctx, h.locker, staticKeys(lock.WorkScheduleKey), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			existing, err := h.repos.Schedule.Get(txCtx)
			if err != nil {
				return err
			}
			if !existing.IsEmpty() {
				return domain.NewRuleError(domain.ErrConfig, "work schedule is already configured")
			}

			if err := h.repos.Schedule.Save(txCtx, schedule); err != nil {
				return err
			}
			return publishEvents(txCtx, h.repos.Outbox, cmd.ActorID, domain.NewWorkScheduleConfigured(schedule))
		})
	})
	if err != nil {
		return nil, err
	}

	return &ConfigureWorkScheduleResult{Schedule: schedule}, nil
}
