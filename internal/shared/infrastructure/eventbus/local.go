package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// InProcessEventBus delivers events synchronously to consumers registered in
// the same process. It is the publisher when no broker is configured.
type InProcessEventBus struct {
	mu       sync.Mutex
	registry *ConsumerRegistry
	logger   *slog.Logger
}

var _ Publisher = (*InProcessEventBus)(nil)

func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{registry: NewConsumerRegistry(logger), logger: logger}
}

func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish dispatches the event before returning. Undecodable payloads and
// consumer failures are logged, never returned: the relay counts the event
// as delivered.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event, err := Decode(payload, routingKey)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.registry.Dispatch(ctx, event)
	return nil
}

func (b *InProcessEventBus) Close() error { return nil }

// RoutingKeys lists the keys with at least one local consumer.
func (b *InProcessEventBus) RoutingKeys() []string {
	return b.registry.RoutingKeys()
}
