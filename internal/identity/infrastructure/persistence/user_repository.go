package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const userColumns = `id, email, name, surname, active, blocked, created_at, updated_at`

// SQLUserRepository persists users on any database.Connection.
type SQLUserRepository struct {
	conn database.Connection
}

// NewSQLUserRepository creates a new SQLUserRepository.
func NewSQLUserRepository(conn database.Connection) *SQLUserRepository {
	return &SQLUserRepository{conn: conn}
}

// Save inserts the user or updates every mutable column.
func (r *SQLUserRepository) Save(ctx context.Context, user *domain.User) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			surname = excluded.surname,
			active = excluded.active,
			blocked = excluded.blocked,
			updated_at = excluded.updated_at`,
		user.ID(),
		user.Email().String(),
		user.Name().String(),
		user.Surname(),
		user.IsActive(),
		user.IsBlocked(),
		database.FormatTime(user.CreatedAt()),
		database.FormatTime(user.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save user %s: %w", user.ID(), err)
	}
	return nil
}

// FindByID retrieves a user by their ID.
func (r *SQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// FindByEmail retrieves a user by their email address.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email.String())
	return scanUser(row)
}

// ExistsByEmail checks if a user with the given email exists.
func (r *SQLUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var count int64
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email.String()).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAvailable returns active, unblocked users ordered by name.
func (r *SQLUserRepository) ListAvailable(ctx context.Context) ([]*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE active = ? AND blocked = ?
		ORDER BY name, surname, email`, true, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row database.Row) (*domain.User, error) {
	var (
		id                   uuid.UUID
		email, name, surname string
		active, blocked      bool
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &email, &name, &surname, &active, &blocked, &createdAt, &updatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	emailVO, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	nameVO, err := domain.NewName(name)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateUser(id, emailVO, nameVO, surname, active, blocked, created, updated), nil
}
