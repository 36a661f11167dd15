package persistence

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLNotificationRepository_SaveAndFind(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLNotificationRepository(conn)
	ctx := context.Background()
	ana := insertUser(t, conn, "ana", true, false)
	meetingID := uuid.New()

	withMeeting := domain.NewNotification(ana, &meetingID, "You have been invited")
	plain := domain.NewNotification(ana, nil, "Welcome")
	require.NoError(t, repo.Save(ctx, withMeeting))
	require.NoError(t, repo.Save(ctx, plain))

	found, err := repo.FindByID(ctx, withMeeting.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.MeetingID())
	assert.Equal(t, meetingID, *found.MeetingID())
	assert.Equal(t, "You have been invited", found.Description())
	assert.False(t, found.IsRead())
	assert.Nil(t, found.ReadAt())

	found, err = repo.FindByID(ctx, plain.ID())
	require.NoError(t, err)
	assert.Nil(t, found.MeetingID())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLNotificationRepository_MarkReadAndFilter(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLNotificationRepository(conn)
	ctx := context.Background()
	ana := insertUser(t, conn, "ana", true, false)

	first := domain.NewNotification(ana, nil, "first")
	require.NoError(t, repo.Save(ctx, first))
	second := domain.NewNotification(ana, nil, "second")
	require.NoError(t, repo.Save(ctx, second))

	first.MarkRead(on(2, 9, 30))
	require.NoError(t, repo.Save(ctx, first))

	all, err := repo.FindByRecipient(ctx, ana, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID(), all[0].ID())
	assert.True(t, all[1].IsRead())
	require.NotNil(t, all[1].ReadAt())
	assert.True(t, all[1].ReadAt().Equal(on(2, 9, 30)))

	unread, err := repo.FindByRecipient(ctx, ana, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID(), unread[0].ID())
}

func TestSQLNotificationRepository_DeleteReadBefore(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLNotificationRepository(conn)
	ctx := context.Background()
	ana := insertUser(t, conn, "ana", true, false)

	old := domain.NewNotification(ana, nil, "old")
	old.MarkRead(on(1, 8, 0))
	recent := domain.NewNotification(ana, nil, "recent")
	recent.MarkRead(on(20, 8, 0))
	unread := domain.NewNotification(ana, nil, "unread")
	for _, n := range []*domain.Notification{old, recent, unread} {
		require.NoError(t, repo.Save(ctx, n))
	}

	deleted, err := repo.DeleteReadBefore(ctx, on(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	left, err := repo.FindByRecipient(ctx, ana, false)
	require.NoError(t, err)
	assert.Len(t, left, 2)

	require.NoError(t, repo.Delete(ctx, recent.ID()))
	left, err = repo.FindByRecipient(ctx, ana, false)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, unread.ID(), left[0].ID())
}
