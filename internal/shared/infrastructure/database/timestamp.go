package database

import (
	"fmt"
	"time"
)

// TimestampLayout is how timestamps are stored: local wall-clock time with
// fixed-width nanoseconds so string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000"

// FormatTime encodes t for storage.
func FormatTime(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// FormatNullTime encodes an optional timestamp; nil becomes SQL NULL.
func FormatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// ParseTime decodes a stored timestamp.
func ParseTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", value, err)
	}
	return t, nil
}

// ParseNullTime decodes an optional stored timestamp.
func ParseNullTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := ParseTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
