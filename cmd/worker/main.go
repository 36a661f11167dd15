package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/planify/internal/app"
	"github.com/felixgeelhaar/planify/internal/identity/recovery"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/planify/internal/worker"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/felixgeelhaar/planify/pkg/observability"
	"github.com/robfig/cron/v3"
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

	logger := observability.NewLogger(observability.LogConfigFor("planify-worker", cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, version))
	logger.Info("starting planify worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// With RabbitMQ the mailer consumes from the broker. Otherwise the
	// container already registered it on the in-process bus.
	if _, ok := container.EventPublisher.(*eventbus.RabbitMQPublisher); ok {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    cfg.RabbitMQURL,
			Logger: logger,
		}, eventbus.NewConsumerRegistry(logger))
		if err != nil {
			logger.Error("failed to create RabbitMQ consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()
		consumer.RegisterConsumer(container.NotificationMailer)
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("RabbitMQ consumer stopped", "error", err)
				cancel()
			}
		}()
	}

	if cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("outbox processor disabled")
	}

	var tokens worker.TokenPurger
	if store, ok := container.TokenStore.(*recovery.MemoryStore); ok {
		tokens = store
	}
	housekeeping := worker.NewHousekeeping(
		container.OutboxRepo,
		container.Repositories.Notifications,
		tokens,
		worker.HousekeepingConfig{
			OutboxRetentionDays:       cfg.OutboxRetentionDays,
			NotificationRetentionDays: cfg.NotificationRetentionDays,
		},
		logger,
	)
	scheduler := cron.New()
	if _, err := housekeeping.Schedule(ctx, scheduler, cfg.HousekeepingCron); err != nil {
		logger.Error("failed to schedule housekeeping", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("housekeeping scheduled", "schedule", cfg.HousekeepingCron)

	if cfg.WorkerHealthAddr != "" {
		healthSrv := startHealthServer(cfg, container)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("health server shutdown error", "error", err)
			}
		}()
	}

	statsTicker := time.NewTicker(cfg.OutboxStatsInterval)
	defer statsTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-statsTicker.C:
				stats := container.OutboxProcessor.GetStats()
				logger.Info("outbox stats",
					"running", stats.IsRunning,
					"published", stats.PublishedCount,
					"failed", stats.FailedCount,
					"dead", stats.DeadCount,
					"lag_seconds", stats.LagSeconds,
					"oldest_message_at", stats.OldestMessageAt,
					"last_processed_at", stats.LastProcessedAt,
					"last_error_at", stats.LastErrorAt,
					"last_error", stats.LastError,
					"mailer_breaker", container.Mailer.State(),
				)
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down worker")

	<-scheduler.Stop().Done()
	container.OutboxProcessor.Stop()
	logger.Info("worker stopped")
}

func startHealthServer(cfg *config.Config, container *app.Container) *http.Server {
	logger := container.Logger

	ready := observability.NewHealthRegistry()
	ready.Register("database", observability.DatabaseHealthChecker(container.DBConn.Ping))

	all := observability.NewHealthRegistry()
	all.Register("database", observability.DatabaseHealthChecker(container.DBConn.Ping))
	all.Register("outbox", worker.ProcessorHealthChecker(container.OutboxProcessor.GetStats))
	all.Register("mailer", observability.BreakerHealthChecker("mailer", container.Mailer.State))
	if container.RedisClient != nil {
		all.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return container.RedisClient.Ping(ctx).Err()
		}))
	}

	srv := &http.Server{
		Addr:              cfg.WorkerHealthAddr,
		Handler:           worker.NewHealthMux(all, ready, 2*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("health server starting", "addr", cfg.WorkerHealthAddr, "checks", all.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()
	return srv
}
