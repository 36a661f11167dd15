package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("refused") }

func TestHealthRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		checkers map[string]HealthChecker
		want     HealthStatus
	}{
		{"no checks", nil, HealthStatusHealthy},
		{"all healthy", map[string]HealthChecker{
			"database": DatabaseHealthChecker(ok),
			"redis":    RedisHealthChecker(ok),
		}, HealthStatusHealthy},
		{"redis down degrades", map[string]HealthChecker{
			"database": DatabaseHealthChecker(ok),
			"redis":    RedisHealthChecker(failing),
		}, HealthStatusDegraded},
		{"database down is unhealthy", map[string]HealthChecker{
			"database": DatabaseHealthChecker(failing),
			"redis":    RedisHealthChecker(failing),
		}, HealthStatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for name, checker := range tt.checkers {
				registry.Register(name, checker)
			}

			health := registry.Check(context.Background())
			assert.Equal(t, tt.want, health.Status)
			assert.Len(t, health.Checks, len(tt.checkers))
		})
	}
}

func TestHealthRegistry_Names(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("redis", RedisHealthChecker(ok))
	registry.Register("database", DatabaseHealthChecker(ok))

	assert.Equal(t, []string{"database", "redis"}, registry.Names())
}

func TestBreakerHealthChecker(t *testing.T) {
	state := "closed"
	checker := BreakerHealthChecker("mailer", func() string { return state })

	assert.Equal(t, HealthStatusHealthy, checker(context.Background()).Status)

	state = "open"
	result := checker(context.Background())
	assert.Equal(t, HealthStatusDegraded, result.Status)
	assert.Equal(t, "mailer circuit breaker is open", result.Message)
	assert.Equal(t, "open", result.Details["state"])
}

func TestHealthRegistry_Handler(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("database", DatabaseHealthChecker(failing))

	rec := httptest.NewRecorder()
	registry.Handler(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body OverallHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, HealthStatusUnhealthy, body.Status)
	assert.Contains(t, body.Checks["database"].Message, "refused")
}
