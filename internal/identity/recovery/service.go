package recovery

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long a reset token stays valid.
const DefaultTokenTTL = 30 * time.Minute

// Service issues and redeems reset tokens for roster users.
type Service struct {
	users  domain.UserRepository
	store  TokenStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a new Service. A non-positive ttl uses DefaultTokenTTL.
func NewService(users domain.UserRepository, store TokenStore, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, store: store, ttl: ttl, logger: logger}
}

// Issue creates a token for the active user owning email.
func (s *Service) Issue(ctx context.Context, email string) (string, error) {
	address, err := domain.NewEmail(email)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByEmail(ctx, address)
	if err != nil {
		return "", err
	}
	if !user.IsActive() {
		return "", ErrUserInactive
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, token, user.ID(), s.ttl); err != nil {
		return "", err
	}

	s.logger.Info("reset token issued", "user_id", user.ID(), "ttl", s.ttl)
	return token, nil
}

// Redeem consumes token and returns the user it was issued for.
func (s *Service) Redeem(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := s.store.Take(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("reset token redeemed", "user_id", userID)
	return userID, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
