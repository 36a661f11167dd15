// Package recovery issues single-use password reset tokens.
package recovery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("reset token is invalid or expired")
	ErrUserInactive = errors.New("user cannot recover access")
)

// TokenStore keeps reset tokens until they are taken or expire.
type TokenStore interface {
	// Put stores token for userID; it expires after ttl.
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Take returns the user of token and removes it. Unknown and expired
	// tokens yield ErrTokenInvalid.
	Take(ctx context.Context, token string) (uuid.UUID, error)
}
