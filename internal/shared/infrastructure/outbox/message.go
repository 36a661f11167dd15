package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Message is a domain event captured in the same transaction as the state
// change that raised it, waiting to be relayed to the broker.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	RoutingKey    string
	Payload       json.RawMessage
	Metadata      json.RawMessage
	CreatedAt     time.Time

	DeliveryState
}

// DeliveryState tracks relay progress for a stored message.
type DeliveryState struct {
	PublishedAt *time.Time
	NextRetryAt *time.Time
	Attempts    int
	LastError   *string
	DeadAt      *time.Time
	DeadReason  *string
}

// NewMessage captures a domain event, including the metadata stamped on it.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.RoutingKey(), err)
	}
	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, fmt.Errorf("encode %s metadata: %w", event.RoutingKey(), err)
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// Enqueue stores events in the outbox as one batch. Callers run it inside
// the transaction that persisted the aggregates.
func Enqueue(ctx context.Context, repo Repository, events ...domain.DomainEvent) error {
	msgs := make([]*Message, len(events))
	for i, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return repo.SaveBatch(ctx, msgs)
}

// Published reports whether the relay has delivered the message.
func (m *Message) Published() bool { return m.PublishedAt != nil }

// finalAttempt reports whether a failure of the upcoming attempt exhausts
// the retry budget.
func (m *Message) finalAttempt(maxRetries int) bool {
	return maxRetries <= 0 || m.Attempts+1 >= maxRetries
}

// Envelope encodes the message as the self-describing event consumers
// decode into eventbus.ConsumedEvent.
func (m *Message) Envelope() ([]byte, error) {
	meta, err := m.consumerMetadata()
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventbus.ConsumedEvent{
		EventID:       m.EventID,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		RoutingKey:    m.RoutingKey,
		OccurredAt:    m.CreatedAt,
		Payload:       m.Payload,
		Metadata:      meta,
	})
}

func (m *Message) consumerMetadata() (eventbus.EventMetadata, error) {
	if len(m.Metadata) == 0 {
		return eventbus.EventMetadata{}, nil
	}
	var stored domain.EventMetadata
	if err := json.Unmarshal(m.Metadata, &stored); err != nil {
		return eventbus.EventMetadata{}, fmt.Errorf("decode metadata of event %s: %w", m.EventID, err)
	}

	optional := func(id uuid.UUID) string {
		if id == uuid.Nil {
			return ""
		}
		return id.String()
	}
	return eventbus.EventMetadata{
		UserID:        stored.UserID,
		CorrelationID: optional(stored.CorrelationID),
		CausationID:   optional(stored.CausationID),
	}, nil
}
