package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const notificationColumns = `id, recipient_id, meeting_id, description, is_read, read_at, created_at, updated_at`

// SQLNotificationRepository persists notifications.
type SQLNotificationRepository struct {
	conn database.Connection
}

// NewSQLNotificationRepository creates a new SQLNotificationRepository.
func NewSQLNotificationRepository(conn database.Connection) *SQLNotificationRepository {
	return &SQLNotificationRepository{conn: conn}
}

// Save inserts a notification or stores its read state.
func (r *SQLNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	var meetingID any
	if id := n.MeetingID(); id != nil {
		meetingID = *id
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			is_read = excluded.is_read,
			read_at = excluded.read_at,
			updated_at = excluded.updated_at`,
		n.ID(),
		n.RecipientID(),
		meetingID,
		n.Description(),
		n.IsRead(),
		database.FormatNullTime(n.ReadAt()),
		database.FormatTime(n.CreatedAt()),
		database.FormatTime(n.UpdatedAt()),
	)
	return err
}

// FindByID returns the notification or nil when it does not exist.
func (r *SQLNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	n, err := scanNotification(exec.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return n, err
}

// FindByRecipient returns the recipient's notifications newest first.
func (r *SQLNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = ?`
	args := []any{recipientID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC, id`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// Delete removes a notification.
func (r *SQLNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	return err
}

// DeleteReadBefore purges read notifications read before the cutoff.
func (r *SQLNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM notifications
		WHERE is_read = ? AND read_at IS NOT NULL AND read_at < ?`,
		true, database.FormatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanNotification(row database.Row) (*domain.Notification, error) {
	var (
		id, recipientID      uuid.UUID
		meetingID            uuid.NullUUID
		description          string
		read                 bool
		readAt               *string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &recipientID, &meetingID, &description, &read, &readAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	readTime, err := database.ParseNullTime(readAt)
	if err != nil {
		return nil, err
	}
	created, updated, err := parseStamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}

	var meeting *uuid.UUID
	if meetingID.Valid {
		id := meetingID.UUID
		meeting = &id
	}
	return domain.RehydrateNotification(id, recipientID, meeting, description, read, readTime, created, updated), nil
}
