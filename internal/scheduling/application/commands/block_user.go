package commands

import (
	"context"
	"errors"
	"log/slog"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// BlockUserCommand blocks a user and withdraws them from their meetings.
type BlockUserCommand struct {
	UserID  uuid.UUID
	ActorID uuid.UUID
}

// BlockUserResult lists what the cascade did.
type BlockUserResult struct {
	Messages []string
}

// BlockUserHandler handles the BlockUserCommand.
type BlockUserHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
	logger *slog.Logger
}

// NewBlockUserHandler creates a new BlockUserHandler.
func NewBlockUserHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker, logger *slog.Logger) *BlockUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlockUserHandler{repos: repos, uow: uow, locker: locker, logger: logger}
}

// Handle executes the BlockUserCommand. Every OPEN meeting the user
// organizes is cancelled and every other invitation rejected.
func (h *BlockUserHandler) Handle(ctx context.Context, cmd BlockUserCommand) (*BlockUserResult, error) {
	var result *BlockUserResult
	err := withLocks(ctx, h.locker, cascadeKeys(h.repos.Meetings, cmd.UserID), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			user, err := loadUser(txCtx, h.repos.Users, cmd.UserID)
			if err != nil {
				return err
			}
			if err := user.Block(); err != nil {
				if errors.Is(err, identityDomain.ErrUserAlreadyBlocked) {
					return domain.NewRuleError(domain.ErrStatusUnchanged, "user %s is already blocked", user.Email())
				}
				return err
			}
			if err := h.repos.Users.Save(txCtx, user); err != nil {
				return err
			}

			changed, messages, err := cascadeUnavailability(txCtx, h.repos.Meetings, user.ID(), nil, ReasonUserBlocked)
			if err != nil {
				return err
			}

			sources := []eventSource{user}
			for _, m := range changed {
				sources = append(sources, m)
			}
			if err := publish(txCtx, h.repos.Outbox, cmd.ActorID, sources...); err != nil {
				return err
			}

			result = &BlockUserResult{Messages: messages}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("user blocked", "user_id", cmd.UserID, "cascaded", len(result.Messages))
	return result, nil
}
