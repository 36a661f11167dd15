// Package domain holds the building blocks shared by the identity and
// scheduling aggregates: identity with timestamps, pending domain events and
// the event envelope written to the outbox.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stamp normalizes t the way both storage drivers keep it: UTC with
// microsecond precision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// BaseEntity carries identity and bookkeeping timestamps.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity creates an entity with a fresh ID created now.
func NewBaseEntity() BaseEntity {
	return newBaseEntity(uuid.New())
}

func newBaseEntity(id uuid.UUID) BaseEntity {
	now := Stamp(time.Now())
	return BaseEntity{id: id, createdAt: now, updatedAt: now}
}

// RehydrateBaseEntity recreates an entity from a stored row.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{id: id, createdAt: Stamp(createdAt), updatedAt: Stamp(updatedAt)}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// Touch marks the entity as modified now.
func (e *BaseEntity) Touch() {
	e.updatedAt = Stamp(time.Now())
}

// BaseAggregateRoot is an entity that records domain events until the
// command handler moves them to the outbox.
type BaseAggregateRoot struct {
	BaseEntity
	pending []DomainEvent
}

// NewBaseAggregateRoot creates an aggregate root with a fresh ID.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: newBaseEntity(uuid.New())}
}

// NewBaseAggregateRootWithID creates an aggregate root with a known ID.
func NewBaseAggregateRootWithID(id uuid.UUID) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: newBaseEntity(id)}
}

// RehydrateBaseAggregateRoot wraps a stored entity. Rehydrated aggregates
// start without pending events.
func RehydrateBaseAggregateRoot(entity BaseEntity) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity}
}

// AddDomainEvent records an event raised by the aggregate.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// DomainEvents returns the events not yet handed to the outbox.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.pending
}

// ClearDomainEvents forgets the pending events once they are stored.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}
