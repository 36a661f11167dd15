package outbox

import (
	"context"
	"time"
)

// Repository stores events next to the aggregate writes that raised them.
// Save and SaveBatch join the transaction carried by ctx.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages whose retry time has come,
	// oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)
	GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld purges published messages older than the given number of days.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
