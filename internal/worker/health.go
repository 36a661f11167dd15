package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/planify/pkg/observability"
)

// ProcessorHealthChecker reports a stopped outbox processor as unhealthy and
// one with dead-lettered messages as degraded.
func ProcessorHealthChecker(stats func() outbox.Stats) observability.HealthChecker {
	return func(ctx context.Context) observability.HealthCheckResult {
		s := stats()
		result := observability.HealthCheckResult{
			Status: observability.HealthStatusHealthy,
			Details: map[string]any{
				"running":     s.IsRunning,
				"published":   s.PublishedCount,
				"failed":      s.FailedCount,
				"dead":        s.DeadCount,
				"lag_seconds": s.LagSeconds,
			},
		}
		switch {
		case !s.IsRunning:
			result.Status = observability.HealthStatusUnhealthy
			result.Message = "outbox processor is not running"
		case s.DeadCount > 0:
			result.Status = observability.HealthStatusDegraded
			result.Message = "outbox has dead-lettered messages"
		}
		if s.LastError != "" {
			result.Details["last_error"] = s.LastError
		}
		return result
	}
}

// NewHealthMux serves /healthz with every check and /readyz with the checks
// the worker cannot run without.
func NewHealthMux(all, ready *observability.HealthRegistry, timeout time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", all.Handler(timeout))
	mux.Handle("/readyz", ready.Handler(timeout))
	return mux
}
