package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// CreateAbsenceCommand contains the data needed to register an absence.
type CreateAbsenceCommand struct {
	UserID   uuid.UUID
	Type     string
	AllDay   bool
	FromDate string
	ToDate   string
	FromTime string
	ToTime   string
}

// Window returns the date and time part of the command.
func (c CreateAbsenceCommand) Window() services.AbsenceWindowInput {
	return services.AbsenceWindowInput{
		AllDay:   c.AllDay,
		FromDate: c.FromDate,
		ToDate:   c.ToDate,
		FromTime: c.FromTime,
		ToTime:   c.ToTime,
	}
}

// CreateAbsenceResult contains the new absence and what the cascade did.
type CreateAbsenceResult struct {
	AbsenceID uuid.UUID
	Messages  []string
}

// CreateAbsenceHandler handles the CreateAbsenceCommand.
type CreateAbsenceHandler struct {
	repos     Repositories
	uow       sharedApplication.UnitOfWork
	locker    lock.Locker
	validator *services.TimeRangeValidator
	detector  *services.OverlapDetector
	logger    *slog.Logger
}

// NewCreateAbsenceHandler creates a new CreateAbsenceHandler.
func NewCreateAbsenceHandler(
	repos Repositories,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	clock domain.Clock,
	logger *slog.Logger,
) *CreateAbsenceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateAbsenceHandler{
		repos:     repos,
		uow:       uow,
		locker:    locker,
		validator: services.NewTimeRangeValidator(clock),
		detector:  services.NewOverlapDetector(repos.Meetings, repos.Absences),
		logger:    logger,
	}
}

// Handle executes the CreateAbsenceCommand. Once stored, the absence
// withdraws the user from every OPEN meeting it intersects.
func (h *CreateAbsenceHandler) Handle(ctx context.Context, cmd CreateAbsenceCommand) (*CreateAbsenceResult, error) {
	if strings.TrimSpace(cmd.Type) == "" {
		return nil, domain.MissingField("type")
	}
	if err := cmd.Window().RequireFields(); err != nil {
		return nil, err
	}

	var result *CreateAbsenceResult
	err := withLocks(ctx, h.locker, cascadeKeys(h.repos.Meetings, cmd.UserID), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			if _, err := loadAvailableUser(txCtx, h.repos.Users, cmd.UserID); err != nil {
				return err
			}

			absenceType, err := domain.ParseAbsenceType(cmd.Type)
			if err != nil {
				return err
			}

			schedule, err := h.repos.Schedule.Get(txCtx)
			if err != nil {
				return err
			}
			window, err := h.validator.AbsenceWindow(cmd.Window(), schedule)
			if err != nil {
				return err
			}

			conflicts, err := h.detector.FindAbsenceConflicts(txCtx, cmd.UserID, window, cmd.AllDay)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return domain.NewRuleError(domain.ErrAbsenceConflict, "absence overlaps an existing absence from %s to %s",
					conflicts[0].Start().Format("2006-01-02 15:04"), conflicts[0].End().Format("2006-01-02 15:04"))
			}

			absence := domain.NewAbsence(cmd.UserID, absenceType, cmd.AllDay, window)
			if err := h.repos.Absences.Save(txCtx, absence); err != nil {
				return err
			}

			period := absence.Period()
			changed, messages, err := cascadeUnavailability(txCtx, h.repos.Meetings, cmd.UserID, &period, ReasonScheduledAbsence)
			if err != nil {
				return err
			}

			sources := []eventSource{absence}
			for _, m := range changed {
				sources = append(sources, m)
			}
			if err := publish(txCtx, h.repos.Outbox, cmd.UserID, sources...); err != nil {
				return err
			}

			result = &CreateAbsenceResult{AbsenceID: absence.ID(), Messages: messages}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("absence created",
		"absence_id", result.AbsenceID,
		"user_id", cmd.UserID,
		"cascaded", len(result.Messages),
	)
	return result, nil
}
