package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and logs its outcome.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
}

// StartTimer starts timing operation. A nil logger discards the result.
func StartTimer(logger *slog.Logger, operation string) *Timer {
	return &Timer{operation: operation, start: time.Now(), logger: logger}
}

// Stop logs the duration and err, if any, and returns the duration.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	duration := time.Since(t.start)
	if t.logger == nil {
		return duration
	}

	if err != nil {
		t.logger.ErrorContext(ctx, "operation failed",
			OperationKey, t.operation,
			DurationKey, duration.Milliseconds(),
			ErrorKey, err.Error(),
		)
		return duration
	}
	t.logger.InfoContext(ctx, "operation completed",
		OperationKey, t.operation,
		DurationKey, duration.Milliseconds(),
	)
	return duration
}

// TimeOperation runs fn and logs how long it took.
func TimeOperation(ctx context.Context, logger *slog.Logger, operation string, fn func(ctx context.Context) error) error {
	timer := StartTimer(logger, operation)
	err := fn(ctx)
	timer.Stop(ctx, err)
	return err
}
