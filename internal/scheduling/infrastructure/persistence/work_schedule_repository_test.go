package persistence

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLWorkScheduleRepository_EmptyByDefault(t *testing.T) {
	repo := NewSQLWorkScheduleRepository(setupTestDB(t))

	schedule, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, schedule.IsEmpty())
}

func TestSQLWorkScheduleRepository_SaveAndGet(t *testing.T) {
	repo := NewSQLWorkScheduleRepository(setupTestDB(t))
	ctx := context.Background()

	afternoon, err := domain.NewWorkScheduleBlock("Afternoon", domain.NewTimeOfDay(16, 0), domain.NewTimeOfDay(20, 30))
	require.NoError(t, err)
	morning, err := domain.NewWorkScheduleBlock("Morning", domain.NewTimeOfDay(9, 15), domain.NewTimeOfDay(14, 0))
	require.NoError(t, err)
	schedule, err := domain.NewWorkSchedule([]*domain.WorkScheduleBlock{afternoon, morning})
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, schedule))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	blocks := got.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, morning.ID(), blocks[0].ID())
	assert.Equal(t, "09:15", blocks[0].Start().String())
	assert.Equal(t, "14:00", blocks[0].End().String())
	assert.Equal(t, "Afternoon", blocks[1].Name())
	assert.Equal(t, "20:30", blocks[1].End().String())
}

func TestSQLWorkScheduleRepository_SaveReplaces(t *testing.T) {
	repo := NewSQLWorkScheduleRepository(setupTestDB(t))
	ctx := context.Background()

	first, err := domain.NewWorkScheduleBlock("Morning", domain.NewTimeOfDay(9, 0), domain.NewTimeOfDay(14, 0))
	require.NoError(t, err)
	s1, err := domain.NewWorkSchedule([]*domain.WorkScheduleBlock{first})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s1))

	second, err := domain.NewWorkScheduleBlock("Full day", domain.NewTimeOfDay(8, 0), domain.NewTimeOfDay(18, 0))
	require.NoError(t, err)
	s2, err := domain.NewWorkSchedule([]*domain.WorkScheduleBlock{second})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s2))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Blocks(), 1)
	assert.Equal(t, "Full day", got.Blocks()[0].Name())
}
