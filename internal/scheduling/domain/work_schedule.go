package domain

import (
	"sort"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

// MinimumBlockDuration is the shortest work schedule block.
const MinimumBlockDuration = 2 * time.Hour

// ScheduleFit selects how an interval must sit against the work schedule.
type ScheduleFit int

const (
	// FitOverlapAny accepts intervals that overlap at least one block.
	FitOverlapAny ScheduleFit = iota + 1
	// FitContainedInOne accepts intervals entirely inside a single block.
	FitContainedInOne
)

// Absences only need to touch working time; meetings must be held inside
// one block.
const (
	AbsenceScheduleFit = FitOverlapAny
	MeetingScheduleFit = FitContainedInOne
)

func (f ScheduleFit) String() string {
	switch f {
	case FitOverlapAny:
		return "overlap-any"
	case FitContainedInOne:
		return "contained-in-one"
	default:
		return "unknown"
	}
}

// WorkScheduleBlock is a named daily working interval.
type WorkScheduleBlock struct {
	sharedDomain.BaseEntity
	name  string
	start TimeOfDay
	end   TimeOfDay
}

// NewWorkScheduleBlock creates a block, enforcing order and minimum length.
func NewWorkScheduleBlock(name string, start, end TimeOfDay) (*WorkScheduleBlock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, MissingField("block name")
	}
	if !start.Before(end) {
		return nil, NewRuleError(ErrConfig, "block %q starts at %s, not before its end %s", name, start, end)
	}
	if end.Offset()-start.Offset() < MinimumBlockDuration {
		return nil, NewRuleError(ErrConfig, "block %q lasts less than %s", name, MinimumBlockDuration)
	}
	return &WorkScheduleBlock{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		start:      start,
		end:        end,
	}, nil
}

// RehydrateWorkScheduleBlock recreates a block from persisted state.
func RehydrateWorkScheduleBlock(id uuid.UUID, name string, start, end TimeOfDay, createdAt, updatedAt time.Time) *WorkScheduleBlock {
	return &WorkScheduleBlock{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:       name,
		start:      start,
		end:        end,
	}
}

func (b *WorkScheduleBlock) Name() string     { return b.name }
func (b *WorkScheduleBlock) Start() TimeOfDay { return b.start }
func (b *WorkScheduleBlock) End() TimeOfDay   { return b.end }

// On returns the block placed on a calendar date.
func (b *WorkScheduleBlock) On(day time.Time) TimeRange {
	return TimeRange{Start: b.start.On(day), End: b.end.On(day)}
}

// WorkSchedule is the ordered set of daily blocks shared by every user.
type WorkSchedule struct {
	blocks []*WorkScheduleBlock
}

// NewWorkSchedule validates the blocks and orders them by start time.
func NewWorkSchedule(blocks []*WorkScheduleBlock) (*WorkSchedule, error) {
	if len(blocks) == 0 {
		return nil, NewRuleError(ErrConfig, "work schedule needs at least one block")
	}
	sorted := make([]*WorkScheduleBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})

	// Any overlap shows up between neighbours once sorted.
	day := time.Date(FloorYear, time.January, 1, 0, 0, 0, 0, time.Local)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.On(day).Overlaps(cur.On(day)) {
			return nil, NewRuleError(ErrConfig, "blocks %q and %q overlap", prev.name, cur.name)
		}
	}
	return &WorkSchedule{blocks: sorted}, nil
}

// RehydrateWorkSchedule wraps persisted blocks without re-validating them.
func RehydrateWorkSchedule(blocks []*WorkScheduleBlock) *WorkSchedule {
	sorted := make([]*WorkScheduleBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})
	return &WorkSchedule{blocks: sorted}
}

// Blocks returns the blocks ordered by start time.
func (s *WorkSchedule) Blocks() []*WorkScheduleBlock {
	if s == nil {
		return nil
	}
	return s.blocks
}

// IsEmpty reports whether no block is configured.
func (s *WorkSchedule) IsEmpty() bool {
	return s == nil || len(s.blocks) == 0
}

// EarliestStart returns the start of the first block.
func (s *WorkSchedule) EarliestStart() TimeOfDay {
	if s.IsEmpty() {
		return TimeOfDay{}
	}
	return s.blocks[0].start
}

// LatestEnd returns the latest end among all blocks.
func (s *WorkSchedule) LatestEnd() TimeOfDay {
	var latest TimeOfDay
	for _, b := range s.Blocks() {
		if b.end.After(latest) {
			latest = b.end
		}
	}
	return latest
}
