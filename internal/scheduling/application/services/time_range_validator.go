package services

import (
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
)

// DatePolicy decides how dates relative to today are treated.
type DatePolicy int

const (
	// PastDateAbsence accepts today and later.
	PastDateAbsence DatePolicy = iota + 1
	// PastDateMeeting accepts only dates after today.
	PastDateMeeting
)

// TimeRangeValidator checks calendar dates and intervals against the
// calendar rules and the work schedule.
type TimeRangeValidator struct {
	clock domain.Clock
}

// NewTimeRangeValidator creates a validator reading "today" from clock.
func NewTimeRangeValidator(clock domain.Clock) *TimeRangeValidator {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &TimeRangeValidator{clock: clock}
}

// Today returns the current calendar date.
func (v *TimeRangeValidator) Today() time.Time {
	return domain.DateOf(v.clock.Now())
}

// ValidateCalendarDate rejects dates before the floor year, weekends and
// dates in the past according to policy.
func (v *TimeRangeValidator) ValidateCalendarDate(field string, date time.Time, policy DatePolicy) error {
	date = domain.DateOf(date)
	if date.Year() < domain.FloorYear {
		return domain.NewRuleError(domain.ErrInvalidDate, "%s %s is before %d", field, date.Format(domain.DateLayout), domain.FloorYear)
	}

	today := v.Today()
	switch policy {
	case PastDateMeeting:
		if !date.After(today) {
			return domain.NewRuleError(domain.ErrInvalidDate, "%s %s must be after today", field, date.Format(domain.DateLayout))
		}
	default:
		if date.Before(today) {
			return domain.NewRuleError(domain.ErrInvalidDate, "%s %s is in the past", field, date.Format(domain.DateLayout))
		}
	}

	if domain.IsWeekend(date) {
		return domain.NewRuleError(domain.ErrInvalidDate, "%s %s falls on a weekend", field, date.Format(domain.DateLayout))
	}
	return nil
}

// ValidateTimeOrder requires a strictly increasing range of at least the
// minimum duration.
func (v *TimeRangeValidator) ValidateTimeOrder(r domain.TimeRange) error {
	if !r.Start.Before(r.End) {
		return domain.NewRuleError(domain.ErrInvalidTimeRange, "start %s is not before end %s",
			r.Start.Format("2006-01-02 15:04"), r.End.Format("2006-01-02 15:04"))
	}
	if r.Duration() < domain.MinimumDuration {
		return domain.NewRuleError(domain.ErrInvalidTimeRange, "range lasts less than %s", domain.MinimumDuration)
	}
	return nil
}

// ValidateAgainstSchedule checks r against the work schedule. The range must
// start no earlier than the first block and end no later than the last one;
// fit decides how it must sit against the individual blocks.
func (v *TimeRangeValidator) ValidateAgainstSchedule(r domain.TimeRange, schedule *domain.WorkSchedule, fit domain.ScheduleFit) error {
	if schedule.IsEmpty() {
		return domain.NewRuleError(domain.ErrOutsideWorkHours, "no work schedule is configured")
	}

	from, to := domain.TimeOfDayOf(r.Start), domain.TimeOfDayOf(r.End)
	if from.Before(schedule.EarliestStart()) || to.After(schedule.LatestEnd()) {
		return domain.NewRuleError(domain.ErrOutsideWorkHours, "%s-%s is outside %s-%s",
			from, to, schedule.EarliestStart(), schedule.LatestEnd())
	}

	switch fit {
	case domain.FitContainedInOne:
		day := domain.DateOf(r.Start)
		for _, block := range schedule.Blocks() {
			if r.Within(block.On(day)) {
				return nil
			}
		}
		return domain.NewRuleError(domain.ErrOutsideWorkHours, "%s-%s does not fit inside a single work block", from, to)
	case domain.FitOverlapAny:
		for _, day := range r.Days() {
			for _, block := range schedule.Blocks() {
				if r.Overlaps(block.On(day)) {
					return nil
				}
			}
		}
		return domain.NewRuleError(domain.ErrOutsideWorkHours, "%s-%s does not touch any work block", from, to)
	default:
		return domain.NewRuleError(domain.ErrConfig, "unknown schedule fit %d", fit)
	}
}
