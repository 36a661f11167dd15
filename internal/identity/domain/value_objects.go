package domain

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNameTooLong  = errors.New("name exceeds maximum length")
)

const (
	// MaxNameLength is counted in characters, not bytes.
	MaxNameLength = 255
	// MaxEmailLength is the longest address SMTP can route.
	MaxEmailLength = 254
)

// Email is a lower-cased bare address such as ana@example.com. Display names
// and addresses without a dotted domain are rejected.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || len(value) > MaxEmailLength {
		return Email{}, ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return Email{}, ErrInvalidEmail
	}
	_, host, _ := strings.Cut(value, "@")
	if !strings.Contains(strings.Trim(host, "."), ".") {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }

// Name is a trimmed, non-empty given name.
type Name struct {
	value string
}

func NewName(raw string) (Name, error) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return Name{}, ErrEmptyName
	case utf8.RuneCountInString(value) > MaxNameLength:
		return Name{}, ErrNameTooLong
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

func (n Name) Equals(other Name) bool { return n.value == other.value }
