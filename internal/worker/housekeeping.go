// Package worker holds the background jobs of the planify worker process.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/planify/pkg/observability"
	"github.com/robfig/cron/v3"
)

// OutboxPurger deletes published outbox messages.
type OutboxPurger interface {
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

// NotificationPurger deletes read notifications.
type NotificationPurger interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenPurger drops expired recovery tokens. Stores that expire entries
// on their own need no purger.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// HousekeepingConfig configures retention.
type HousekeepingConfig struct {
	OutboxRetentionDays       int
	NotificationRetentionDays int
}

// Housekeeping purges data that is no longer needed.
type Housekeeping struct {
	outbox        OutboxPurger
	notifications NotificationPurger
	tokens        TokenPurger
	config        HousekeepingConfig
	now           func() time.Time
	logger        *slog.Logger
}

// NewHousekeeping creates a Housekeeping. tokens may be nil.
func NewHousekeeping(
	outbox OutboxPurger,
	notifications NotificationPurger,
	tokens TokenPurger,
	config HousekeepingConfig,
	logger *slog.Logger,
) *Housekeeping {
	if logger == nil {
		logger = slog.Default()
	}
	return &Housekeeping{
		outbox:        outbox,
		notifications: notifications,
		tokens:        tokens,
		config:        config,
		now:           time.Now,
		logger:        logger.With("component", "housekeeping"),
	}
}

// Run executes every purge once. A failing purge does not stop the others.
func (h *Housekeeping) Run(ctx context.Context) error {
	var errs []error

	if h.outbox != nil && h.config.OutboxRetentionDays > 0 {
		errs = append(errs, observability.TimeOperation(ctx, h.logger, "housekeeping.outbox", func(ctx context.Context) error {
			deleted, err := h.outbox.DeleteOld(ctx, h.config.OutboxRetentionDays)
			if err != nil {
				return fmt.Errorf("purge outbox: %w", err)
			}
			h.logger.InfoContext(ctx, "outbox cleanup completed", "deleted", deleted, "retention_days", h.config.OutboxRetentionDays)
			return nil
		}))
	}

	if h.notifications != nil && h.config.NotificationRetentionDays > 0 {
		cutoff := h.now().AddDate(0, 0, -h.config.NotificationRetentionDays)
		errs = append(errs, observability.TimeOperation(ctx, h.logger, "housekeeping.notifications", func(ctx context.Context) error {
			deleted, err := h.notifications.DeleteReadBefore(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("purge notifications: %w", err)
			}
			h.logger.InfoContext(ctx, "notification cleanup completed", "deleted", deleted, "cutoff", cutoff)
			return nil
		}))
	}

	if h.tokens != nil {
		errs = append(errs, observability.TimeOperation(ctx, h.logger, "housekeeping.tokens", func(ctx context.Context) error {
			purged, err := h.tokens.PurgeExpired(ctx)
			if err != nil {
				return fmt.Errorf("purge reset tokens: %w", err)
			}
			h.logger.DebugContext(ctx, "expired reset tokens purged", "purged", purged)
			return nil
		}))
	}

	return errors.Join(errs...)
}

// Schedule registers Run on c with a cron spec such as "@daily" or
// "0 3 * * *".
func (h *Housekeeping) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		runCtx := observability.NewRequestContext(ctx, "")
		if err := h.Run(runCtx); err != nil {
			h.logger.ErrorContext(runCtx, "housekeeping failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid housekeeping schedule %q: %w", spec, err)
	}
	return id, nil
}
