// Package commands manages the user roster: registration, activation and
// lifting blocks. Blocking lives with scheduling because it cascades into
// meetings.
package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

var ErrEmailTaken = errors.New("email already registered")

// savePublishing stores the user and moves its events into the outbox.
func savePublishing(ctx context.Context, users domain.UserRepository, outboxRepo outbox.Repository, actorID uuid.UUID, user *domain.User) error {
	if err := users.Save(ctx, user); err != nil {
		return err
	}

	events := user.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorID))
	if err := outbox.Enqueue(ctx, outboxRepo, events...); err != nil {
		return err
	}
	user.ClearDomainEvents()
	return nil
}
