package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a Mailer.
type BreakerConfig struct {
	// MaxRequests is the number of trial sends allowed while half-open.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that trips it.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerMailer stops calling a failing Mailer until it recovers.
type BreakerMailer struct {
	next    Mailer
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerMailer wraps next with a circuit breaker.
func NewBreakerMailer(next Mailer, config BreakerConfig, logger *slog.Logger) *BreakerMailer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "mailer",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerMailer{next: next, breaker: gobreaker.NewCircuitBreaker[any](settings)}
}

// Send sends msg unless the breaker is open; then gobreaker.ErrOpenState is
// returned without calling the wrapped mailer.
func (m *BreakerMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.breaker.Execute(func() (any, error) {
		return nil, m.next.Send(ctx, msg)
	})
	return err
}

// State reports the breaker state.
func (m *BreakerMailer) State() string {
	return m.breaker.State().String()
}
