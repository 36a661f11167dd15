package domain

import (
	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "User"

	RoutingKeyUserCreated   = "identity.user.created"
	RoutingKeyUserActivated = "identity.user.activated"
	RoutingKeyUserBlocked   = "identity.user.blocked"
	RoutingKeyUserUnblocked = "identity.user.unblocked"
)

// UserCreated carries the contact details of a new roster member.
type UserCreated struct {
	sharedDomain.BaseEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserCreated(u *User) *UserCreated {
	return &UserCreated{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserCreated),
		Email:     u.email.String(),
		Name:      u.FullName(),
	}
}

// UserStateChanged records an activation, block or unblock. The routing key
// tells which.
type UserStateChanged struct {
	sharedDomain.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	Active  bool      `json:"active"`
	Blocked bool      `json:"blocked"`
}

func newUserStateChanged(u *User, routingKey string) *UserStateChanged {
	return &UserStateChanged{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, routingKey),
		UserID:    u.ID(),
		Active:    u.active,
		Blocked:   u.blocked,
	}
}
