// Package commands holds the state-changing operations of the scheduling
// engine. Every handler serializes on the users and meetings it touches and
// commits its writes, notifications and outbox messages in one unit of work.
package commands

import (
	"context"
	"errors"
	"strings"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// Repositories groups the stores the scheduling handlers work with.
type Repositories struct {
	Users         identityDomain.UserRepository
	Schedule      domain.WorkScheduleRepository
	Absences      domain.AbsenceRepository
	Meetings      domain.MeetingRepository
	Notifications domain.NotificationRepository
	Outbox        outbox.Repository
}

// eventSource is anything that collects domain events.
type eventSource interface {
	DomainEvents() []sharedDomain.DomainEvent
	ClearDomainEvents()
}

// publish moves the pending events of every source into the outbox.
func publish(ctx context.Context, outboxRepo outbox.Repository, actorID uuid.UUID, sources ...eventSource) error {
	var events []sharedDomain.DomainEvent
	for _, source := range sources {
		events = append(events, source.DomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}

	if err := publishEvents(ctx, outboxRepo, actorID, events...); err != nil {
		return err
	}
	for _, source := range sources {
		source.ClearDomainEvents()
	}
	return nil
}

func publishEvents(ctx context.Context, outboxRepo outbox.Repository, actorID uuid.UUID, events ...sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorID))
	return outbox.Enqueue(ctx, outboxRepo, events...)
}

// saveNotifications stores notifications through the sink and records their
// delivery events.
func saveNotifications(ctx context.Context, repos Repositories, actorID uuid.UUID, notifications ...*domain.Notification) error {
	sources := make([]eventSource, 0, len(notifications))
	for _, n := range notifications {
		if err := repos.Notifications.Save(ctx, n); err != nil {
			return err
		}
		sources = append(sources, n)
	}
	return publish(ctx, repos.Outbox, actorID, sources...)
}

func loadUser(ctx context.Context, users identityDomain.UserRepository, id uuid.UUID) (*identityDomain.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, identityDomain.ErrUserNotFound) || (err == nil && user == nil) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// loadAvailableUser loads a user that may take part in scheduling.
func loadAvailableUser(ctx context.Context, users identityDomain.UserRepository, id uuid.UUID) (*identityDomain.User, error) {
	user, err := loadUser(ctx, users, id)
	if err != nil {
		return nil, err
	}
	if err := requireAvailable(user); err != nil {
		return nil, err
	}
	return user, nil
}

func requireAvailable(user *identityDomain.User) error {
	if user.IsBlocked() {
		return domain.NewRuleError(domain.ErrUserUnavailable, "user %s is blocked", user.Email())
	}
	if !user.IsActive() {
		return domain.NewRuleError(domain.ErrUserUnavailable, "user %s is not active", user.Email())
	}
	return nil
}

// loadUsersByEmail resolves participant emails to users. Duplicate emails
// collapse to one user and the order of first appearance is kept.
func loadUsersByEmail(ctx context.Context, users identityDomain.UserRepository, emails []string) ([]*identityDomain.User, error) {
	seen := make(map[string]bool, len(emails))
	resolved := make([]*identityDomain.User, 0, len(emails))
	for _, raw := range emails {
		email, err := identityDomain.NewEmail(raw)
		if err != nil {
			return nil, domain.NewRuleError(domain.ErrInvalidFormat, "participant email %q is invalid", raw)
		}
		if seen[email.String()] {
			continue
		}
		seen[email.String()] = true

		user, err := users.FindByEmail(ctx, email)
		if errors.Is(err, identityDomain.ErrUserNotFound) || (err == nil && user == nil) {
			return nil, domain.NotFound("user", email.String())
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, user)
	}
	return resolved, nil
}

func loadMeeting(ctx context.Context, meetings domain.MeetingRepository, id uuid.UUID) (*domain.Meeting, error) {
	meeting, err := meetings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, domain.NotFound("meeting", id)
	}
	return meeting, nil
}

func nonEmpty(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}
