package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by every log line.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	ActorIDKey       = "actor_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
)

type ctxKey int

const (
	correlationKey ctxKey = iota
	requestKey
	actorKey
)

func (k ctxKey) attr() string {
	switch k {
	case correlationKey:
		return CorrelationIDKey
	case requestKey:
		return RequestIDKey
	default:
		return ActorIDKey
	}
}

func valueFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func withValueOrNew(ctx context.Context, key ctxKey, v string) context.Context {
	if v == "" {
		v = uuid.NewString()
	}
	return context.WithValue(ctx, key, v)
}

// WithCorrelationID tags ctx with id, or with a fresh one when id is empty.
// The correlation ID follows work across processes through event metadata.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withValueOrNew(ctx, correlationKey, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return valueFrom(ctx, correlationKey)
}

// WithRequestID tags ctx with id, or with a fresh one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withValueOrNew(ctx, requestKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return valueFrom(ctx, requestKey)
}

// WithActorID records the user the work runs for.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

func ActorIDFromContext(ctx context.Context) string {
	return valueFrom(ctx, actorKey)
}

// NewRequestContext starts a request: a fresh request ID under the given
// correlation ID, or a new one.
func NewRequestContext(ctx context.Context, correlationID string) context.Context {
	return WithCorrelationID(WithRequestID(ctx, ""), correlationID)
}
