package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeys(t *testing.T) {
	assert.Equal(t, []string{"meeting:1", "user:a", "user:b"},
		normalizeKeys([]string{"user:b", "meeting:1", "", "user:a", "user:b"}))
}

func TestCovers(t *testing.T) {
	assert.True(t, Covers([]string{"a", "b"}, []string{"b"}))
	assert.True(t, Covers([]string{"a"}, nil))
	assert.False(t, Covers([]string{"a"}, []string{"a", "c"}))
}

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Overlapping key sets in different orders must not deadlock.
			keys := []string{UserKey("a"), UserKey("b")}
			if i%2 == 0 {
				keys = []string{UserKey("b"), MeetingKey("m"), UserKey("a")}
			}
			unlock, err := locker.Lock(ctx, keys...)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.slots)
}

func TestMemoryLocker_DisjointKeysDoNotBlock(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, UserKey("a"))
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, UserKey("b"))
	require.NoError(t, err)
	unlockB()
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	locker := NewMemoryLocker()

	unlock, err := locker.Lock(context.Background(), UserKey("a"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, UserKey("z"), UserKey("a"))
	assert.ErrorIs(t, err, ErrLockTimeout)

	// The partially acquired key was released.
	unlockZ, err := locker.Lock(context.Background(), UserKey("z"))
	require.NoError(t, err)
	unlockZ()

	unlock()
	unlock()
}

func TestRedisLocker(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Failed to ping test redis: %v", err)
	}

	locker := NewRedisLocker(client, RedisConfig{Prefix: "planify-test:lock:", TTL: 5 * time.Second}, nil)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, UserKey("a"), MeetingKey("m"))
	require.NoError(t, err)

	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, MeetingKey("m"))
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()

	unlock2, err := locker.Lock(ctx, MeetingKey("m"))
	require.NoError(t, err)
	unlock2()
}
