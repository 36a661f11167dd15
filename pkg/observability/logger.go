// Package observability provides structured logging, operation timing and
// health reporting for Planify processes.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogConfig configures NewLogger.
type LogConfig struct {
	// Level is debug, info, warn or error. Anything else logs at info.
	Level string
	// Format is "json" or "text".
	Format string
	// Output defaults to os.Stderr.
	Output    io.Writer
	AddSource bool
	// Service and Version tag every entry when set.
	Service string
	Version string
}

// LogConfigFor derives a process's logger settings from its environment.
// Production logs JSON with source locations unless a format is forced.
func LogConfigFor(service, appEnv, level, format, version string) LogConfig {
	cfg := LogConfig{
		Level:   "info",
		Format:  "text",
		Service: service,
		Version: version,
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if appEnv == "production" {
		cfg.Format, cfg.AddSource = "json", true
	}
	if level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format != "" {
		cfg.Format = strings.ToLower(format)
	}
	return cfg
}

// NewLogger builds a slog logger whose records also carry the correlation,
// request and actor IDs found on the logging context.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: cfg.AddSource}

	var base slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.Format == "json" {
		base = slog.NewJSONHandler(out, opts)
	}

	var tags []slog.Attr
	if cfg.Service != "" {
		tags = append(tags, slog.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		tags = append(tags, slog.String("version", cfg.Version))
	}
	return slog.New(contextHandler{base.WithAttrs(tags)})
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// contextHandler appends the request-scoped IDs to each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range []ctxKey{correlationKey, requestKey, actorKey} {
		if v := valueFrom(ctx, key); v != "" {
			r.AddAttrs(slog.String(key.attr(), v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
