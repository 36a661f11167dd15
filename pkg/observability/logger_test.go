package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_Formats(t *testing.T) {
	var text bytes.Buffer
	NewLogger(LogConfig{Output: &text}).Info("absence created", "absence_id", "a-1")
	assert.Contains(t, text.String(), "absence_id=a-1")

	var js bytes.Buffer
	NewLogger(LogConfig{Format: "json", Output: &js, Service: "planify-worker", Version: "1.2.0"}).
		Info("meeting created", "meeting_id", "m-1")
	entries := decodeLines(t, &js)
	require.Len(t, entries, 1)
	assert.Equal(t, "meeting created", entries[0]["msg"])
	assert.Equal(t, "m-1", entries[0]["meeting_id"])
	assert.Equal(t, "planify-worker", entries[0]["service"])
	assert.Equal(t, "1.2.0", entries[0]["version"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json", Output: &buf})

	logger.Debug("cache miss")
	logger.Info("meeting listed")
	logger.Warn("mail retry")
	logger.Error("mail failed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "mail retry", entries[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestLogConfigFor(t *testing.T) {
	dev := LogConfigFor("planify", "development", "", "", "")
	assert.Equal(t, LogConfig{Level: "info", Format: "text", Service: "planify", Version: "dev"}, dev)

	prod := LogConfigFor("planify-worker", "production", "", "", "1.0.0")
	assert.Equal(t, "json", prod.Format)
	assert.True(t, prod.AddSource)

	forced := LogConfigFor("planify", "production", "DEBUG", "Text", "")
	assert.Equal(t, "debug", forced.Level)
	assert.Equal(t, "text", forced.Format)
}

func TestContextHandler_AddsRequestIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: "json", Output: &buf})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithRequestID(ctx, "req-456")
	ctx = WithActorID(ctx, "user-789")
	logger.With("component", "cli").InfoContext(ctx, "command finished", "name", "meeting create")
	logger.Info("no context")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "corr-123", entries[0][CorrelationIDKey])
	assert.Equal(t, "req-456", entries[0][RequestIDKey])
	assert.Equal(t, "user-789", entries[0][ActorIDKey])
	assert.Equal(t, "cli", entries[0]["component"])
	assert.NotContains(t, entries[1], CorrelationIDKey)
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "parent")
	assert.Equal(t, "parent", CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))

	fresh := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(fresh))
	assert.NotEqual(t, CorrelationIDFromContext(fresh), RequestIDFromContext(fresh))
	assert.Empty(t, ActorIDFromContext(fresh))
}

func TestTimeOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := context.Background()

	require.NoError(t, TimeOperation(ctx, logger, "housekeeping", func(context.Context) error { return nil }))
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "duration_ms")

	buf.Reset()
	boom := errors.New("boom")
	err := TimeOperation(ctx, logger, "housekeeping", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "error=boom")

	assert.NotPanics(t, func() { StartTimer(nil, "quiet").Stop(ctx, nil) })
}
