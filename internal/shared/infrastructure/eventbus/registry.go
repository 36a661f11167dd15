package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/planify/pkg/observability"
)

// ConsumerRegistry routes events to consumers by routing key.
type ConsumerRegistry struct {
	mu        sync.RWMutex
	consumers map[string][]EventConsumer
	logger    *slog.Logger
}

func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{consumers: map[string][]EventConsumer{}, logger: logger}
}

// Register subscribes consumer to each of its routing keys.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		r.consumers[key] = append(r.consumers[key], consumer)
	}
}

// Consumers returns the consumers subscribed to key.
func (r *ConsumerRegistry) Consumers(key string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.consumers[key])
}

// RoutingKeys lists every subscribed key, sorted.
func (r *ConsumerRegistry) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.consumers))
	for key := range r.consumers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// ConsumerCount counts subscriptions, so a consumer with two keys counts twice.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, cs := range r.consumers {
		n += len(cs)
	}
	return n
}

// Dispatch hands event to every subscriber, even after one fails, and joins
// their errors. Handlers and the dispatch log run under the event's
// correlation ID.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	consumers := r.Consumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers", "routing_key", event.RoutingKey)
		return nil
	}

	ctx = observability.WithCorrelationID(ctx, event.Metadata.CorrelationID)
	start := time.Now()

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", consumer, err))
		}
	}
	err := errors.Join(errs...)

	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	r.logger.Log(ctx, level, "event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"consumers", len(consumers),
		"failed", len(errs),
		observability.DurationKey, time.Since(start).Milliseconds(),
		"error", err,
	)
	return err
}
