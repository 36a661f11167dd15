package application

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/felixgeelhaar/planify/pkg/observability"
	"github.com/google/uuid"
)

// NewEventMetadata builds the metadata stamped on every event a command
// raises. The correlation ID follows the request when the context carries
// one; each command gets its own causation ID.
func NewEventMetadata(ctx context.Context, actorID uuid.UUID) domain.EventMetadata {
	correlationID, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		CausationID:   uuid.New(),
		UserID:        actorID,
	}
}

// ApplyEventMetadata stamps metadata on the events that accept it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		s, ok := event.(interface{ SetMetadata(domain.EventMetadata) })
		if !ok {
			continue
		}
		s.SetMetadata(metadata)
	}
}
