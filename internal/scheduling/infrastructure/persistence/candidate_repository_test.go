package persistence

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCandidateRepository_ListCandidateRows(t *testing.T) {
	conn := setupTestDB(t)
	absences := NewSQLAbsenceRepository(conn)
	repo := NewSQLCandidateRepository(conn)
	ctx := context.Background()

	bea := insertUser(t, conn, "bea", true, false)
	ana := insertUser(t, conn, "ana", true, false)
	insertUser(t, conn, "blocked", true, true)
	insertUser(t, conn, "inactive", false, false)

	require.NoError(t, absences.Save(ctx, domain.NewAbsence(bea, domain.AbsenceVacation, true, domain.AllDayRange(on(9, 0, 0), on(9, 0, 0)))))
	require.NoError(t, absences.Save(ctx, domain.NewAbsence(bea, domain.AbsencePermit, false, period(3, 10, 12))))

	rows, err := repo.ListCandidateRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ana, rows[0].UserID)
	assert.Equal(t, "ana@example.com", rows[0].Email)
	assert.Nil(t, rows[0].Absence)

	assert.Equal(t, bea, rows[1].UserID)
	require.NotNil(t, rows[1].Absence)
	assert.False(t, rows[1].Absence.AllDay)
	assert.True(t, rows[1].Absence.Period.Start.Equal(on(3, 10, 0)))

	require.NotNil(t, rows[2].Absence)
	assert.True(t, rows[2].Absence.AllDay)
}
