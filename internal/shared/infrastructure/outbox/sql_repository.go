package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
)

const messageColumns = `id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	payload, metadata, created_at, published_at, next_retry_at, retry_count,
	last_error, dead_lettered_at, dead_letter_reason`

// SQLRepository implements Repository on any database.Connection.
type SQLRepository struct {
	conn database.Connection
	now  func() time.Time
}

// NewSQLRepository creates a new outbox repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn, now: time.Now}
}

// Save stores a new outbox message and assigns its ID.
func (r *SQLRepository) Save(ctx context.Context, msg *Message) error {
	metadata := string(msg.Metadata)
	if metadata == "" {
		metadata = "{}"
	}

	query := `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, next_retry_at, retry_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	return database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query,
		msg.EventID,
		msg.AggregateType,
		msg.AggregateID,
		msg.RoutingKey,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		database.FormatTime(msg.CreatedAt),
		database.FormatNullTime(msg.NextRetryAt),
		msg.Attempts,
	).Scan(&msg.ID)
}

// SaveBatch stores multiple outbox messages atomically. It joins the
// transaction in ctx when there is one.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return database.InTx(ctx, r.conn, func(ctx context.Context) error {
		for _, msg := range msgs {
			if err := r.Save(ctx, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUnpublished retrieves pending messages whose retry time has come,
// oldest first.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`
	return r.list(ctx, query, database.FormatTime(r.now()), limit)
}

// MarkPublished marks a message as successfully published.
func (r *SQLRepository) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox SET published_at = ?, next_retry_at = NULL WHERE id = ?`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, database.FormatTime(r.now()), id)
	return err
}

// MarkFailed records a publish failure and schedules the next attempt.
func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	query := `UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, errMsg, database.FormatTime(nextRetryAt), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	query := `UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ?, last_error = ?, next_retry_at = NULL WHERE id = ?`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, database.FormatTime(r.now()), reason, reason, id)
	return err
}

// GetFailed retrieves failed messages eligible for retry.
func (r *SQLRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY next_retry_at, id
		LIMIT ?`
	return r.list(ctx, query, maxRetries, database.FormatTime(r.now()), limit)
}

// DeleteOld removes published messages older than the retention period.
func (r *SQLRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -olderThanDays)
	result, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		database.FormatTime(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanMessage(row database.Row) (*Message, error) {
	var (
		msg                                     Message
		eventType, payload, metadata, createdAt string
		publishedAt, nextRetryAt, deadAt        *string
	)
	err := row.Scan(
		&msg.ID,
		&msg.EventID,
		&msg.AggregateType,
		&msg.AggregateID,
		&eventType,
		&msg.RoutingKey,
		&payload,
		&metadata,
		&createdAt,
		&publishedAt,
		&nextRetryAt,
		&msg.Attempts,
		&msg.LastError,
		&deadAt,
		&msg.DeadReason,
	)
	if err != nil {
		return nil, err
	}

	msg.Payload = json.RawMessage(payload)
	msg.Metadata = json.RawMessage(metadata)
	if msg.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if msg.PublishedAt, err = database.ParseNullTime(publishedAt); err != nil {
		return nil, err
	}
	if msg.NextRetryAt, err = database.ParseNullTime(nextRetryAt); err != nil {
		return nil, err
	}
	if msg.DeadAt, err = database.ParseNullTime(deadAt); err != nil {
		return nil, err
	}
	return &msg, nil
}
