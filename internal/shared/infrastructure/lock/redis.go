package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig configures a RedisLocker.
type RedisConfig struct {
	// Prefix namespaces every key.
	Prefix string
	// TTL bounds how long a crashed holder can keep a key.
	TTL time.Duration
	// RetryInterval is the pause between acquisition attempts.
	RetryInterval time.Duration
}

// DefaultRedisConfig returns sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Prefix:        "planify:lock:",
		TTL:           30 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

// RedisLocker is a Locker shared by every process using the same Redis.
type RedisLocker struct {
	client *redis.Client
	config RedisConfig
	logger *slog.Logger
}

// NewRedisLocker creates a new RedisLocker.
func NewRedisLocker(client *redis.Client, config RedisConfig, logger *slog.Logger) *RedisLocker {
	defaults := DefaultRedisConfig()
	if config.Prefix == "" {
		config.Prefix = defaults.Prefix
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = defaults.RetryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, config: config, logger: logger}
}

// Lock acquires keys in sorted order with SET NX PX.
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	for _, key := range keys {
		if err := l.acquire(ctx, l.config.Prefix+key, token); err != nil {
			l.release(held, token)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		held = append(held, l.config.Prefix+key)
	}

	return onceFunc(func() { l.release(held, token) }), nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.config.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.config.TTL).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(keys []string, token string) {
	// Release must succeed even when the caller's context is already done.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			l.logger.Warn("failed to release lock", "key", keys[i], "error", err)
		}
	}
}
