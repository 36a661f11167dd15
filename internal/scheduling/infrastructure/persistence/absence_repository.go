package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const absenceColumns = `id, user_id, absence_type, all_day, start_at, end_at, created_at, updated_at`

// SQLAbsenceRepository persists absences.
type SQLAbsenceRepository struct {
	conn database.Connection
}

// NewSQLAbsenceRepository creates a new SQLAbsenceRepository.
func NewSQLAbsenceRepository(conn database.Connection) *SQLAbsenceRepository {
	return &SQLAbsenceRepository{conn: conn}
}

// Save inserts or updates an absence.
func (r *SQLAbsenceRepository) Save(ctx context.Context, absence *domain.Absence) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO absences (`+absenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			absence_type = excluded.absence_type,
			all_day = excluded.all_day,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			updated_at = excluded.updated_at`,
		absence.ID(),
		absence.UserID(),
		string(absence.Type()),
		absence.IsAllDay(),
		database.FormatTime(absence.Start()),
		database.FormatTime(absence.End()),
		database.FormatTime(absence.CreatedAt()),
		database.FormatTime(absence.UpdatedAt()),
	)
	return err
}

// FindByID returns the absence or nil when it does not exist.
func (r *SQLAbsenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Absence, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	absence, err := scanAbsence(exec.QueryRow(ctx, `SELECT `+absenceColumns+` FROM absences WHERE id = ?`, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	return absence, err
}

// FindByUser returns the user's absences ordered by start.
func (r *SQLAbsenceRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Absence, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+absenceColumns+`
		FROM absences
		WHERE user_id = ?
		ORDER BY start_at, end_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var absences []*domain.Absence
	for rows.Next() {
		absence, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}
	return absences, rows.Err()
}

// Delete removes an absence.
func (r *SQLAbsenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `DELETE FROM absences WHERE id = ?`, id)
	return err
}

func scanAbsence(row database.Row) (*domain.Absence, error) {
	var (
		id, userID                         uuid.UUID
		absenceType                        string
		allDay                             bool
		startAt, endAt, createdAt, updated string
	)
	if err := row.Scan(&id, &userID, &absenceType, &allDay, &startAt, &endAt, &createdAt, &updated); err != nil {
		return nil, err
	}

	kind, err := domain.ParseAbsenceType(absenceType)
	if err != nil {
		return nil, err
	}
	period, err := parsePeriod(startAt, endAt)
	if err != nil {
		return nil, err
	}
	created, updatedAt, err := parseStamps(createdAt, updated)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateAbsence(id, userID, kind, allDay, period, created, updatedAt), nil
}

func parsePeriod(startAt, endAt string) (domain.TimeRange, error) {
	start, err := database.ParseTime(startAt)
	if err != nil {
		return domain.TimeRange{}, err
	}
	end, err := database.ParseTime(endAt)
	if err != nil {
		return domain.TimeRange{}, err
	}
	return domain.NewTimeRange(start, end), nil
}

func parseStamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return created, updated, nil
}
