package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// maxLockAttempts bounds how often a data-dependent lock set is widened.
const maxLockAttempts = 3

// keyResolver computes the lock keys an operation needs from current data.
type keyResolver func(ctx context.Context) ([]string, error)

// withLocks resolves the keys, locks them and resolves again. When the data
// moved in between, the set is widened and the lock retaken so fn always
// runs holding every key it needs.
func withLocks(ctx context.Context, locker lock.Locker, resolve keyResolver, fn func(ctx context.Context) error) error {
	keys, err := resolve(ctx)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		unlock, err := locker.Lock(ctx, keys...)
		if err != nil {
			return err
		}

		current, err := resolve(ctx)
		if err != nil {
			unlock()
			return err
		}
		if lock.Covers(keys, current) {
			err = fn(ctx)
			unlock()
			return err
		}

		unlock()
		keys = append(keys, current...)
	}
	return fmt.Errorf("%w: lock set kept changing", lock.ErrLockTimeout)
}

// staticKeys is a resolver for lock sets known up front.
func staticKeys(keys ...string) keyResolver {
	return func(context.Context) ([]string, error) { return keys, nil }
}

func userKeys(ids ...uuid.UUID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, lock.UserKey(id.String()))
	}
	return keys
}
