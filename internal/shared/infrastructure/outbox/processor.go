package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig tunes the relay loop.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

// DefaultProcessorConfig polls every 100ms and dead-letters after five attempts.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Processor relays stored events to the publisher. Delivery is at least
// once: a crash between Publish and MarkPublished republishes the event.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	counters counters
}

// NewProcessor wires a processor. A nil logger falls back to slog.Default.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger.With("component", "outbox"),
		now:       time.Now,
	}
}

// Start launches the polling loop. Starting a running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(loopCtx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop ends the loop and waits for the batch in flight.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// ProcessOnce relays a single batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	return p.drain(ctx)
}

func (p *Processor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	interval := p.config.PollInterval
	if interval <= 0 {
		interval = DefaultProcessorConfig().PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.drain(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

func (p *Processor) drain(ctx context.Context) error {
	batch, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.counters.failure(err, pollFailed)
		return err
	}
	p.counters.observe(batch, p.now())

	for _, msg := range batch {
		if err := p.deliver(ctx, msg); err != nil {
			p.settleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("mark published failed", "id", msg.ID, "event_id", msg.EventID, "error", err)
			continue
		}
		p.counters.publish()
	}
	return nil
}

func (p *Processor) deliver(ctx context.Context, msg *Message) error {
	envelope, err := msg.Envelope()
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, msg.RoutingKey, envelope)
}

// settleFailure schedules a retry or dead-letters the message once the
// attempt budget is spent.
func (p *Processor) settleFailure(ctx context.Context, msg *Message, cause error) {
	attempt := msg.Attempts + 1
	dead := msg.finalAttempt(p.config.MaxRetries)

	args := append(traceArgs(msg),
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"attempt", attempt,
		"dead", dead,
		"error", cause,
	)
	p.logger.Warn("publish failed", args...)

	outcome := retryScheduled
	if dead {
		outcome = deadLettered
	}
	p.counters.failure(cause, outcome)

	var err error
	if dead {
		err = p.repo.MarkDead(ctx, msg.ID, cause.Error())
	} else {
		err = p.repo.MarkFailed(ctx, msg.ID, cause.Error(), p.now().Add(p.retryBackoff(attempt)))
	}
	if err != nil {
		p.logger.Error("record publish failure", "id", msg.ID, "dead", dead, "error", err)
	}
}

// retryBackoff doubles from the base per attempt, capped at the max.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	base, ceiling := p.config.RetryBackoffBase, p.config.RetryBackoffMax
	if base <= 0 {
		base = time.Second
	}
	if ceiling <= 0 {
		ceiling = time.Minute
	}

	backoff := base
	for i := 1; i < attempt && backoff < ceiling; i++ {
		backoff *= 2
	}
	return min(backoff, ceiling)
}

// traceArgs lifts the event metadata into log attributes.
func traceArgs(msg *Message) []any {
	if len(msg.Metadata) == 0 {
		return nil
	}
	var md domain.EventMetadata
	if err := json.Unmarshal(msg.Metadata, &md); err != nil {
		return nil
	}
	return []any{
		"correlation_id", md.CorrelationID.String(),
		"causation_id", md.CausationID.String(),
		"user_id", md.UserID.String(),
	}
}

// Stats is a snapshot of the relay counters.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// GetStats returns the current counters.
func (p *Processor) GetStats() Stats {
	s := p.counters.snapshot()
	s.IsRunning = p.IsRunning()
	return s
}

type counters struct {
	mu sync.Mutex
	s  Stats
}

func (c *counters) publish() {
	c.mu.Lock()
	c.s.PublishedCount++
	c.mu.Unlock()
}

type failureOutcome int

const (
	pollFailed failureOutcome = iota
	retryScheduled
	deadLettered
)

func (c *counters) failure(err error, outcome failureOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := time.Now()
	c.s.LastError = err.Error()
	c.s.LastErrorAt = &at
	switch outcome {
	case retryScheduled:
		c.s.FailedCount++
	case deadLettered:
		c.s.DeadCount++
	}
}

func (c *counters) observe(batch []*Message, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.LastProcessedAt = &now
	c.s.OldestMessageAt = nil
	c.s.LagSeconds = 0
	for _, msg := range batch {
		if c.s.OldestMessageAt == nil || msg.CreatedAt.Before(*c.s.OldestMessageAt) {
			created := msg.CreatedAt
			c.s.OldestMessageAt = &created
		}
	}
	if c.s.OldestMessageAt != nil {
		c.s.LagSeconds = now.Sub(*c.s.OldestMessageAt).Seconds()
	}
}

func (c *counters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
