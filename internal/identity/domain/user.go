package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyBlocked = errors.New("user is already blocked")
	ErrUserNotBlocked     = errors.New("user is not blocked")
	ErrUserAlreadyActive  = errors.New("user is already active")
)

// User is a roster member. Only available users, active and not blocked,
// can be invited, assist meetings or register absences.
type User struct {
	sharedDomain.BaseAggregateRoot
	email   Email
	name    Name
	surname string
	active  bool
	blocked bool
}

// NewUser registers someone on the roster. New users stay inactive, and so
// out of scheduling, until activated.
func NewUser(email Email, name Name, surname string) *User {
	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		email:             email,
		name:              name,
		surname:           strings.TrimSpace(surname),
	}
	u.AddDomainEvent(NewUserCreated(u))
	return u
}

// RehydrateUser recreates a user from persisted state.
func RehydrateUser(
	id uuid.UUID,
	email Email,
	name Name,
	surname string,
	active, blocked bool,
	createdAt, updatedAt time.Time,
) *User {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &User{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		email:             email,
		name:              name,
		surname:           surname,
		active:            active,
		blocked:           blocked,
	}
}

func (u *User) Email() Email    { return u.email }
func (u *User) Name() Name      { return u.name }
func (u *User) Surname() string { return u.surname }
func (u *User) IsActive() bool  { return u.active }
func (u *User) IsBlocked() bool { return u.blocked }

// FullName joins name and surname.
func (u *User) FullName() string {
	if u.surname == "" {
		return u.name.String()
	}
	return u.name.String() + " " + u.surname
}

// IsAvailable reports whether the user may take part in meetings and
// register absences.
func (u *User) IsAvailable() bool {
	return u.active && !u.blocked
}

// Activate marks the user as active.
func (u *User) Activate() error {
	if u.active {
		return ErrUserAlreadyActive
	}
	u.active = true
	u.Touch()
	u.AddDomainEvent(newUserStateChanged(u, RoutingKeyUserActivated))
	return nil
}

// Block prevents the user from taking part in scheduling.
func (u *User) Block() error {
	if u.blocked {
		return ErrUserAlreadyBlocked
	}
	u.blocked = true
	u.Touch()
	u.AddDomainEvent(newUserStateChanged(u, RoutingKeyUserBlocked))
	return nil
}

// Unblock lifts a previous block.
func (u *User) Unblock() error {
	if !u.blocked {
		return ErrUserNotBlocked
	}
	u.blocked = false
	u.Touch()
	u.AddDomainEvent(newUserStateChanged(u, RoutingKeyUserUnblocked))
	return nil
}
