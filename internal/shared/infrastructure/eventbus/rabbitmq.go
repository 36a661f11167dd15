package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the durable topic exchange events are published to.
	ExchangeName = "planify.domain.events"
	// DefaultConsumerQueueName is the worker's durable queue.
	DefaultConsumerQueueName = "planify.consumer"
)

// ErrConsumerRunning is returned by a second Start.
var ErrConsumerRunning = errors.New("rabbitmq consumer already running")

// amqpSession is one connection with one channel on which the exchange has
// been declared.
type amqpSession struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func dial(url, exchange string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	// durable, not auto-deleted, not internal, wait for confirmation
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", exchange, err)
	}
	return &amqpSession{conn: conn, channel: ch}, nil
}

func (s *amqpSession) close() error {
	chErr := s.channel.Close()
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if chErr != nil && !errors.Is(chErr, amqp.ErrClosed) {
		return chErr
	}
	return nil
}

// RabbitMQPublisher publishes persistent JSON messages to the exchange.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	session  *amqpSession
	exchange string
	logger   *slog.Logger
}

var _ Publisher = (*RabbitMQPublisher)(nil)

func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := dial(url, ExchangeName)
	if err != nil {
		return nil, err
	}
	logger.Info("rabbitmq publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{session: session, exchange: ExchangeName, logger: logger}, nil
}

// Publish is safe for concurrent use; the channel is shared under a lock.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.session.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", routingKey, err)
	}
	p.logger.Debug("event published", "routing_key", routingKey, "bytes", len(payload))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.close()
}

// RabbitMQConsumerConfig locates the broker and names the queue.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Logger    *slog.Logger
}

// RabbitMQConsumer feeds a durable queue into a ConsumerRegistry, one
// message at a time.
type RabbitMQConsumer struct {
	session  *amqpSession
	queue    string
	exchange string
	registry *ConsumerRegistry
	logger   *slog.Logger

	mu        sync.Mutex
	running   bool
	closed    chan struct{}
	closeOnce sync.Once
}

func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultConsumerQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}

	session, err := dial(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	// durable, not auto-deleted, not exclusive, wait for confirmation
	if _, err := session.channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = session.close()
		return nil, fmt.Errorf("rabbitmq: declare queue %s: %w", cfg.QueueName, err)
	}

	cfg.Logger.Info("rabbitmq consumer connected", "queue", cfg.QueueName, "exchange", cfg.Exchange)
	return &RabbitMQConsumer{
		session:  session,
		queue:    cfg.QueueName,
		exchange: cfg.Exchange,
		registry: registry,
		logger:   cfg.Logger,
		closed:   make(chan struct{}),
	}, nil
}

// RegisterConsumer subscribes consumer and binds the queue to its keys.
// A failed binding is logged; the remaining keys are still bound.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		if err := c.session.channel.QueueBind(c.queue, key, c.exchange, false, nil); err != nil {
			c.logger.Error("queue bind failed", "queue", c.queue, "routing_key", key, "error", err)
			continue
		}
		c.logger.Debug("queue bound", "queue", c.queue, "routing_key", key)
	}
}

// Start consumes until ctx ends or Close is called. It blocks.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	c.mu.Unlock()

	if err := c.session.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("rabbitmq: set qos: %w", err)
	}
	deliveries, err := c.session.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", c.queue, err)
	}
	c.logger.Info("consuming events", "queue", c.queue, "routing_keys", c.registry.RoutingKeys())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq: delivery channel closed")
			}
			c.settle(d, c.handle(ctx, d))
		}
	}
}

func (c *RabbitMQConsumer) handle(ctx context.Context, d amqp.Delivery) error {
	event, err := Decode(d.Body, d.RoutingKey)
	if err != nil {
		c.logger.Error("discarding undecodable message", "routing_key", d.RoutingKey, "error", err)
		return nil
	}
	return c.registry.Dispatch(ctx, event)
}

// settle acks handled messages. A failed message is requeued once; if it
// fails again on redelivery it is rejected so the broker can dead-letter it.
func (c *RabbitMQConsumer) settle(d amqp.Delivery, handleErr error) {
	var err error
	switch {
	case handleErr == nil:
		err = d.Ack(false)
	case d.Redelivered:
		c.logger.Warn("rejecting message after redelivery", "routing_key", d.RoutingKey, "error", handleErr)
		err = d.Nack(false, false)
	default:
		err = d.Nack(false, true)
	}
	if err != nil {
		c.logger.Error("settle delivery failed", "routing_key", d.RoutingKey, "error", err)
	}
}

// Close stops Start and closes the connection. It is safe to call twice.
func (c *RabbitMQConsumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		err = c.session.close()
		c.logger.Info("rabbitmq consumer closed")
	})
	return err
}
