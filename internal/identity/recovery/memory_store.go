package recovery

import (
	"context"
	"sync"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

type memoryEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemoryStore is a process-local TokenStore.
type MemoryStore struct {
	mu      sync.Mutex
	clock   sharedDomain.Clock
	entries map[string]memoryEntry
}

// NewMemoryStore creates a MemoryStore. A nil clock reads the system time.
func NewMemoryStore(clock sharedDomain.Clock) *MemoryStore {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	return &MemoryStore{clock: clock, entries: make(map[string]memoryEntry)}
}

// Put stores a token.
func (s *MemoryStore) Put(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{userID: userID, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

// Take consumes a token.
func (s *MemoryStore) Take(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	delete(s.entries, token)
	if !s.clock.Now().Before(entry.expiresAt) {
		return uuid.Nil, ErrTokenInvalid
	}
	return entry.userID, nil
}

// PurgeExpired drops expired tokens and returns how many were removed.
func (s *MemoryStore) PurgeExpired(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	removed := 0
	for token, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed, nil
}
