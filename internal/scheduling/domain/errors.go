package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every rule violation reported by the engine wraps exactly one
// of these so callers can branch with errors.Is.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrOutsideWorkHours = errors.New("outside work hours")
	ErrAbsenceConflict  = errors.New("absence conflict")
	ErrMeetingConflict  = errors.New("meeting conflict")
	ErrUserUnavailable  = errors.New("user unavailable")
	ErrNotFound         = errors.New("not found")
	ErrMeetingNotOpen   = errors.New("meeting not open")
	ErrForbidden        = errors.New("forbidden")
	ErrConfig           = errors.New("configuration error")
	ErrAlreadyAssisted  = errors.New("already assisted")
	ErrStatusUnchanged  = errors.New("status unchanged")
)

// RuleError is a rule violation with a human-readable reason.
type RuleError struct {
	Kind   error
	Reason string
}

// NewRuleError creates a RuleError of the given kind.
func NewRuleError(kind error, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *RuleError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

// KindOf returns the error kind carried by err, or nil when err is not a
// rule violation.
func KindOf(err error) error {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Kind
	}
	return nil
}

// MissingField reports a required field that was not provided.
func MissingField(field string) error {
	return NewRuleError(ErrMissingField, "%s is required", field)
}

// NotFound reports a missing entity.
func NotFound(what string, id any) error {
	return NewRuleError(ErrNotFound, "%s %v not found", what, id)
}
