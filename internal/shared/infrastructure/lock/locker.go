// Package lock serializes operations that touch the same users or meetings.
package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrLockTimeout is returned when a key could not be acquired before the
// context ended.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker acquires exclusive ownership of a set of keys.
type Locker interface {
	// Lock blocks until every key is held and returns a function that
	// releases them. Keys are always acquired in sorted order.
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// UserKey is the lock key guarding a user's calendar.
func UserKey(id string) string { return "user:" + id }

// MeetingKey is the lock key guarding a meeting.
func MeetingKey(id string) string { return "meeting:" + id }

// WorkScheduleKey guards the shared work schedule.
const WorkScheduleKey = "work-schedule"

// normalizeKeys sorts and deduplicates keys so that concurrent callers
// acquire overlapping sets in the same order.
func normalizeKeys(keys []string) []string {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, k)
	}
	sort.Strings(unique)
	return unique
}

// Covers reports whether held contains every key in wanted.
func Covers(held, wanted []string) bool {
	set := make(map[string]bool, len(held))
	for _, k := range held {
		set[k] = true
	}
	for _, k := range wanted {
		if !set[k] {
			return false
		}
	}
	return true
}

func onceFunc(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}
