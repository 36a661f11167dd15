package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
)

// Clock provides the current wall-clock time.
type Clock = sharedDomain.Clock

type (
	SystemClock = sharedDomain.SystemClock
	ManualClock = sharedDomain.ManualClock
)

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return sharedDomain.NewManualClock(start)
}
