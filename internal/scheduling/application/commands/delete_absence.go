package commands

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// DeleteAbsenceCommand removes an absence of the acting user.
type DeleteAbsenceCommand struct {
	AbsenceID uuid.UUID
	ActorID   uuid.UUID
}

// DeleteAbsenceHandler handles the DeleteAbsenceCommand.
type DeleteAbsenceHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
}

// NewDeleteAbsenceHandler creates a new DeleteAbsenceHandler.
func NewDeleteAbsenceHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker) *DeleteAbsenceHandler {
	return &DeleteAbsenceHandler{repos: repos, uow: uow, locker: locker}
}

// Handle executes the DeleteAbsenceCommand.
func (h *DeleteAbsenceHandler) Handle(ctx context.Context, cmd DeleteAbsenceCommand) error {
	return withLocks(ctx, h.locker, staticKeys(userKeys(cmd.ActorID)...), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			absence, err := h.repos.Absences.FindByID(txCtx, cmd.AbsenceID)
			if err != nil {
				return err
			}
			if absence == nil {
				return domain.NotFound("absence", cmd.AbsenceID)
			}
			if absence.UserID() != cmd.ActorID {
				return domain.NewRuleError(domain.ErrForbidden, "absence %s belongs to another user", cmd.AbsenceID)
			}

			absence.Delete()
			if err := h.repos.Absences.Delete(txCtx, absence.ID()); err != nil {
				return err
			}
			return publish(txCtx, h.repos.Outbox, cmd.ActorID, absence)
		})
	})
}
