package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// TimeOfDayLayout is the wire format for times of day.
	TimeOfDayLayout = "15:04"

	// FloorYear is the first year accepted for any calendar date.
	FloorYear = 2024

	// MinimumDuration is the shortest timed meeting or absence.
	MinimumDuration = 30 * time.Minute
)

// TimeRange is a closed-open interval of naive wall-clock instants.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange creates a time range.
func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start, End: end}
}

// Overlaps reports whether two ranges share any instant. Touching ranges
// (one ends exactly when the other starts) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Within reports whether r lies entirely inside outer.
func (r TimeRange) Within(outer TimeRange) bool {
	return !r.Start.Before(outer.Start) && !r.End.After(outer.End)
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Days returns the calendar dates touched by the range, in order.
func (r TimeRange) Days() []time.Time {
	var days []time.Time
	last := DateOf(r.End)
	for day := DateOf(r.Start); !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// ClipToDay returns the part of r that falls on the given date.
func (r TimeRange) ClipToDay(day time.Time) (TimeRange, bool) {
	dayRange := TimeRange{Start: DateOf(day), End: DateOf(day).AddDate(0, 0, 1)}
	if !r.Overlaps(dayRange) {
		return TimeRange{}, false
	}
	clipped := r
	if clipped.Start.Before(dayRange.Start) {
		clipped.Start = dayRange.Start
	}
	if clipped.End.After(dayRange.End) {
		clipped.End = dayRange.End
	}
	return clipped, true
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02 15:04"), r.End.Format("2006-01-02 15:04"))
}

// DateOf truncates t to midnight of its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AllDayRange spans from midnight of from to the end of to's date.
func AllDayRange(from, to time.Time) TimeRange {
	return TimeRange{Start: DateOf(from), End: EndOfDay(to)}
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate parses a YYYY-MM-DD calendar date in the local zone.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, MissingField(field)
	}
	date, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, NewRuleError(ErrInvalidFormat, "%s must be YYYY-MM-DD, got %q", field, value)
	}
	return date, nil
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NewTimeOfDay creates a time of day.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// ParseTimeOfDay parses an HH:MM value.
func ParseTimeOfDay(field, value string) (TimeOfDay, error) {
	if value == "" {
		return TimeOfDay{}, MissingField(field)
	}
	parsed, err := time.Parse(TimeOfDayLayout, value)
	if err != nil {
		return TimeOfDay{}, NewRuleError(ErrInvalidFormat, "%s must be HH:MM, got %q", field, value)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// TimeOfDayOf extracts the time of day of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Offset returns the time elapsed since midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute
}

// On places the time of day on the given date.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// Before reports whether t is earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Offset() < other.Offset()
}

// After reports whether t is later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Offset() > other.Offset()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
