package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/planify/adapter/cli"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_ValidatesArguments(t *testing.T) {
	ctx := context.Background()

	assert.EqualError(t, Serve(ctx, nil, &cli.App{}, "test", nil), "config is required")
	assert.EqualError(t, Serve(ctx, &config.Config{}, nil, "test", nil), "CLI app is required")
}

func TestNewServer_RegistersEverything(t *testing.T) {
	srv, err := NewServer(&cli.App{}, "test")
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	names := make(map[any]bool, len(tools))
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	assert.True(t, names["meeting.create"])
	assert.True(t, names["absence.check"])
	assert.True(t, names["notification.read"])
}

func TestMiddleware_AuthOnlyWithToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	open := Middleware(&config.Config{}, logger)
	assert.Contains(t, buf.String(), "unauthenticated")

	buf.Reset()
	secured := Middleware(&config.Config{MCPAuthToken: "s3cret"}, logger)
	assert.Len(t, secured, len(open)+1)
	assert.Empty(t, buf.String())
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{
		{Key: "tool", Value: "meeting.list"},
		{Key: "duration_ms", Value: 12},
	})
	assert.Equal(t, []any{"tool", "meeting.list", "duration_ms", 12}, args)
	assert.Empty(t, fieldsToArgs(nil))
}
