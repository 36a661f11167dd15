package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *domain.User {
	email, err := domain.NewEmail("test@example.com")
	require.NoError(t, err)
	name, err := domain.NewName("Test User")
	require.NoError(t, err)
	return domain.NewUser(email, name, "Tester")
}

func TestNewUser_EmitsCreatedEvent(t *testing.T) {
	user := createTestUser(t)

	assert.NotEqual(t, uuid.Nil, user.ID())
	assert.Equal(t, "test@example.com", user.Email().String())
	assert.Equal(t, "Tester", user.Surname())

	events := user.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*domain.UserCreated)
	require.True(t, ok)
	assert.Equal(t, user.ID(), created.AggregateID())
	assert.Equal(t, domain.RoutingKeyUserCreated, created.RoutingKey())
	assert.Equal(t, "Test User Tester", created.Name)

	actor := uuid.New()
	created.SetMetadata(sharedDomain.EventMetadata{UserID: actor})
	assert.Equal(t, actor, events[0].Metadata().UserID)
}

func TestRehydrateUser(t *testing.T) {
	email, err := domain.NewEmail("olga@example.com")
	require.NoError(t, err)
	name, err := domain.NewName("Olga")
	require.NoError(t, err)
	id := uuid.New()
	created := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	user := domain.RehydrateUser(id, email, name, "", true, true, created, created)

	assert.Equal(t, id, user.ID())
	assert.Equal(t, "Olga", user.FullName())
	assert.True(t, user.IsBlocked())
	assert.False(t, user.IsAvailable())
	assert.Empty(t, user.DomainEvents())
}

func TestNewUser_StartsInactive(t *testing.T) {
	user := createTestUser(t)

	assert.False(t, user.IsActive())
	assert.False(t, user.IsBlocked())
	assert.False(t, user.IsAvailable())
	assert.Equal(t, "Test User Tester", user.FullName())
}

func TestUser_Activate(t *testing.T) {
	user := createTestUser(t)
	user.ClearDomainEvents()

	require.NoError(t, user.Activate())
	assert.True(t, user.IsAvailable())

	events := user.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyUserActivated, events[0].RoutingKey())

	assert.ErrorIs(t, user.Activate(), domain.ErrUserAlreadyActive)
}

func TestUser_BlockAndUnblock(t *testing.T) {
	user := createTestUser(t)
	require.NoError(t, user.Activate())
	user.ClearDomainEvents()

	require.NoError(t, user.Block())
	assert.True(t, user.IsBlocked())
	assert.False(t, user.IsAvailable())
	assert.ErrorIs(t, user.Block(), domain.ErrUserAlreadyBlocked)

	require.NoError(t, user.Unblock())
	assert.True(t, user.IsAvailable())
	assert.ErrorIs(t, user.Unblock(), domain.ErrUserNotBlocked)

	events := user.DomainEvents()
	require.Len(t, events, 2)
	blocked := events[0].(*domain.UserStateChanged)
	assert.Equal(t, domain.RoutingKeyUserBlocked, blocked.RoutingKey())
	assert.True(t, blocked.Blocked)
	unblocked := events[1].(*domain.UserStateChanged)
	assert.Equal(t, domain.RoutingKeyUserUnblocked, unblocked.RoutingKey())
	assert.False(t, unblocked.Blocked)
}
