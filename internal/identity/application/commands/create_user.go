package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateUserCommand registers a new member of the roster.
type CreateUserCommand struct {
	Email   string
	Name    string
	Surname string
	// Activate makes the user available right away.
	Activate bool
	ActorID  uuid.UUID
}

// CreateUserResult contains the result of creating a user.
type CreateUserResult struct {
	UserID uuid.UUID
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	users      domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	logger     *slog.Logger
}

// NewCreateUserHandler creates a new CreateUserHandler.
func NewCreateUserHandler(users domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *CreateUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateUserHandler{users: users, outboxRepo: outboxRepo, uow: uow, logger: logger}
}

// Handle executes the CreateUserCommand.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*CreateUserResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewName(cmd.Name)
	if err != nil {
		return nil, err
	}

	var result *CreateUserResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		exists, err := h.users.ExistsByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailTaken
		}

		user := domain.NewUser(email, name, cmd.Surname)
		if cmd.Activate {
			if err := user.Activate(); err != nil {
				return err
			}
		}
		if err := savePublishing(txCtx, h.users, h.outboxRepo, cmd.ActorID, user); err != nil {
			return err
		}

		result = &CreateUserResult{UserID: user.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("user created", "user_id", result.UserID, "active", cmd.Activate)
	return result, nil
}
