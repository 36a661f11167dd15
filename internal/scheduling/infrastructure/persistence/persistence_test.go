package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *database.SQLConnection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, conn.DB()))
	return conn
}

// insertUser stores a roster member directly; scheduling only reads users.
func insertUser(t *testing.T, conn database.Connection, name string, active, blocked bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := database.FormatTime(time.Now())
	_, err := conn.Exec(context.Background(), `
		INSERT INTO users (id, email, name, surname, active, blocked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name+"@example.com", name, "Test", active, blocked, now, now)
	require.NoError(t, err)
	return id
}

func on(day, hour, minute int) time.Time {
	return time.Date(2025, time.June, day, hour, minute, 0, 0, time.Local)
}

func period(day, fromHour, toHour int) domain.TimeRange {
	return domain.NewTimeRange(on(day, fromHour, 0), on(day, toHour, 0))
}
