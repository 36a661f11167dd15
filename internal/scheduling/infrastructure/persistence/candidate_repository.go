package persistence

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLCandidateRepository reads the meeting roster: every active, unblocked
// user joined with their absences.
type SQLCandidateRepository struct {
	conn database.Connection
}

// NewSQLCandidateRepository creates a new SQLCandidateRepository.
func NewSQLCandidateRepository(conn database.Connection) *SQLCandidateRepository {
	return &SQLCandidateRepository{conn: conn}
}

// ListCandidateRows returns one row per user and absence; users without
// absences get a single row with a nil Absence.
func (r *SQLCandidateRepository) ListCandidateRows(ctx context.Context) ([]domain.CandidateRow, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT u.id, u.email, u.name, u.surname, a.all_day, a.start_at, a.end_at
		FROM users u
		LEFT JOIN absences a ON a.user_id = u.id
		WHERE u.active = ? AND u.blocked = ?
		ORDER BY u.name, u.surname, u.email, a.start_at`, true, false)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CandidateRow
	for rows.Next() {
		var (
			row            domain.CandidateRow
			userID         uuid.UUID
			allDay         *bool
			startAt, endAt *string
		)
		if err := rows.Scan(&userID, &row.Email, &row.Name, &row.Surname, &allDay, &startAt, &endAt); err != nil {
			return nil, err
		}
		row.UserID = userID
		if startAt != nil && endAt != nil {
			period, err := parsePeriod(*startAt, *endAt)
			if err != nil {
				return nil, err
			}
			row.Absence = &domain.CandidateAbsence{AllDay: allDay != nil && *allDay, Period: period}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
