package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ActivateUserCommand makes a registered user available for scheduling.
type ActivateUserCommand struct {
	UserID  uuid.UUID
	ActorID uuid.UUID
}

// UnblockUserCommand lifts the block on a user. Meetings and invitations
// withdrawn by the block stay as they are.
type UnblockUserCommand struct {
	UserID  uuid.UUID
	ActorID uuid.UUID
}

// UserStateHandler handles activation and unblocking.
type UserStateHandler struct {
	users      domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
	logger     *slog.Logger
}

// NewUserStateHandler creates a new UserStateHandler.
func NewUserStateHandler(
	users domain.UserRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	logger *slog.Logger,
) *UserStateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStateHandler{users: users, outboxRepo: outboxRepo, uow: uow, locker: locker, logger: logger}
}

// Activate executes the ActivateUserCommand.
func (h *UserStateHandler) Activate(ctx context.Context, cmd ActivateUserCommand) error {
	if err := h.apply(ctx, cmd.UserID, cmd.ActorID, (*domain.User).Activate); err != nil {
		return err
	}
	h.logger.Info("user activated", "user_id", cmd.UserID)
	return nil
}

// Unblock executes the UnblockUserCommand.
func (h *UserStateHandler) Unblock(ctx context.Context, cmd UnblockUserCommand) error {
	if err := h.apply(ctx, cmd.UserID, cmd.ActorID, (*domain.User).Unblock); err != nil {
		return err
	}
	h.logger.Info("user unblocked", "user_id", cmd.UserID)
	return nil
}

// apply runs a state transition under the user's lock.
func (h *UserStateHandler) apply(ctx context.Context, userID, actorID uuid.UUID, transition func(*domain.User) error) error {
	unlock, err := h.locker.Lock(ctx, lock.UserKey(userID.String()))
	if err != nil {
		return err
	}
	defer unlock()

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		user, err := h.users.FindByID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := transition(user); err != nil {
			return err
		}
		return savePublishing(txCtx, h.users, h.outboxRepo, actorID, user)
	})
}
