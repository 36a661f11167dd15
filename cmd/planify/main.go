package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/planify/adapter/cli"
	"github.com/felixgeelhaar/planify/adapter/cli/absence"
	"github.com/felixgeelhaar/planify/adapter/cli/meeting"
	"github.com/felixgeelhaar/planify/adapter/cli/notification"
	"github.com/felixgeelhaar/planify/adapter/cli/schedule"
	"github.com/felixgeelhaar/planify/adapter/cli/user"
	"github.com/felixgeelhaar/planify/internal/app"
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

	logger := observability.NewLogger(observability.LogConfigFor("planify", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, version))
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	cliApp := cli.NewApp(container)
	if cfg.UserID != "" {
		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid PLANIFY_USER_ID", "error", err)
			container.Close()
			os.Exit(1)
		}
		cliApp.SetCurrentUserID(userID)
	}
	cli.SetApp(cliApp)

	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(absence.Cmd)
	cli.AddCommand(meeting.Cmd)
	cli.AddCommand(user.Cmd)
	cli.AddCommand(notification.Cmd)

	err = cli.Execute(ctx)

	// Without a worker, the CLI delivers the events of its own command.
	if cfg.OutboxProcessorEnabled {
		if flushErr := container.OutboxProcessor.ProcessOnce(ctx); flushErr != nil {
			logger.Warn("failed to deliver pending events", "error", flushErr)
		}
	}
	container.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
