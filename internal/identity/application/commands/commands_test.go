package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	users  *persistence.SQLUserRepository
	outbox *outbox.SQLRepository
	create *CreateUserHandler
	state  *UserStateHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, conn.DB()))

	users := persistence.NewSQLUserRepository(conn)
	outboxRepo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)
	return &fixture{
		ctx:    ctx,
		users:  users,
		outbox: outboxRepo,
		create: NewCreateUserHandler(users, outboxRepo, uow, nil),
		state:  NewUserStateHandler(users, outboxRepo, uow, lock.NewMemoryLocker(), nil),
	}
}

func (f *fixture) routingKeys(t *testing.T) []string {
	t.Helper()
	msgs, err := f.outbox.GetUnpublished(f.ctx, 100)
	require.NoError(t, err)
	keys := make([]string, 0, len(msgs))
	for _, m := range msgs {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	result, err := f.create.Handle(f.ctx, CreateUserCommand{Email: " Ana@Example.com ", Name: "Ana", Surname: "García"})
	require.NoError(t, err)

	user, err := f.users.FindByID(f.ctx, result.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email().String())
	assert.False(t, user.IsActive())
	assert.Equal(t, []string{domain.RoutingKeyUserCreated}, f.routingKeys(t))
}

func TestCreateUser_Activated(t *testing.T) {
	f := newFixture(t)

	result, err := f.create.Handle(f.ctx, CreateUserCommand{Email: "luis@example.com", Name: "Luis", Activate: true})
	require.NoError(t, err)

	user, err := f.users.FindByID(f.ctx, result.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsAvailable())
	assert.ElementsMatch(t, []string{domain.RoutingKeyUserCreated, domain.RoutingKeyUserActivated}, f.routingKeys(t))
}

func TestCreateUser_Rejections(t *testing.T) {
	f := newFixture(t)
	_, err := f.create.Handle(f.ctx, CreateUserCommand{Email: "eva@example.com", Name: "Eva"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		cmd     CreateUserCommand
		wantErr error
	}{
		{"duplicate email", CreateUserCommand{Email: "EVA@example.com", Name: "Eva"}, ErrEmailTaken},
		{"invalid email", CreateUserCommand{Email: "not-an-email", Name: "Eva"}, domain.ErrInvalidEmail},
		{"empty name", CreateUserCommand{Email: "new@example.com", Name: "  "}, domain.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Handle(f.ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, f.routingKeys(t), 1)
}

func TestUserState_ActivateAndUnblock(t *testing.T) {
	f := newFixture(t)
	result, err := f.create.Handle(f.ctx, CreateUserCommand{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, f.state.Activate(f.ctx, ActivateUserCommand{UserID: result.UserID}))
	assert.ErrorIs(t, f.state.Activate(f.ctx, ActivateUserCommand{UserID: result.UserID}), domain.ErrUserAlreadyActive)

	assert.ErrorIs(t, f.state.Unblock(f.ctx, UnblockUserCommand{UserID: result.UserID}), domain.ErrUserNotBlocked)

	user, err := f.users.FindByID(f.ctx, result.UserID)
	require.NoError(t, err)
	require.NoError(t, user.Block())
	require.NoError(t, f.users.Save(f.ctx, user))

	require.NoError(t, f.state.Unblock(f.ctx, UnblockUserCommand{UserID: result.UserID}))
	user, err = f.users.FindByID(f.ctx, result.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsAvailable())
	assert.Contains(t, f.routingKeys(t), domain.RoutingKeyUserUnblocked)
}

func TestUserState_UnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.state.Activate(f.ctx, ActivateUserCommand{UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
