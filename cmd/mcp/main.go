package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/planify/internal/app"
	mcpinternal "github.com/felixgeelhaar/planify/internal/mcp"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/felixgeelhaar/planify/pkg/observability"
	"github.com/google/uuid"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor("planify-mcp", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, version))

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid PLANIFY_USER_ID", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	}

	cliApp := mcpinternal.NewCLIApp(container, userID)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, version, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
