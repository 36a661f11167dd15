package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
// Finders return ErrUserNotFound when no user matches.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
	// ListAvailable returns active, unblocked users ordered by name.
	ListAvailable(ctx context.Context) ([]*User, error)
}
