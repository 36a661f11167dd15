package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLWorkScheduleRepository stores the shared work schedule as one row per
// block, with times kept as minutes since midnight.
type SQLWorkScheduleRepository struct {
	conn database.Connection
}

// NewSQLWorkScheduleRepository creates a new SQLWorkScheduleRepository.
func NewSQLWorkScheduleRepository(conn database.Connection) *SQLWorkScheduleRepository {
	return &SQLWorkScheduleRepository{conn: conn}
}

// Get returns the configured schedule; it has no blocks when none was set up.
func (r *SQLWorkScheduleRepository) Get(ctx context.Context) (*domain.WorkSchedule, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT id, name, start_minute, end_minute, created_at, updated_at
		FROM work_schedule_blocks
		ORDER BY start_minute`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []*domain.WorkScheduleBlock
	for rows.Next() {
		var (
			id                   uuid.UUID
			name                 string
			start, end           int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &name, &start, &end, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		created, updated, err := parseStamps(createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, domain.RehydrateWorkScheduleBlock(id, name, fromMinutes(start), fromMinutes(end), created, updated))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.RehydrateWorkSchedule(blocks), nil
}

// Save replaces the stored blocks with the schedule's blocks.
func (r *SQLWorkScheduleRepository) Save(ctx context.Context, schedule *domain.WorkSchedule) error {
	return database.InTx(ctx, r.conn, func(ctx context.Context) error {
		exec := database.ExecutorFromContext(ctx, r.conn)
		if _, err := exec.Exec(ctx, `DELETE FROM work_schedule_blocks`); err != nil {
			return err
		}
		for _, b := range schedule.Blocks() {
			_, err := exec.Exec(ctx, `
				INSERT INTO work_schedule_blocks (id, name, start_minute, end_minute, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				b.ID(), b.Name(), toMinutes(b.Start()), toMinutes(b.End()),
				database.FormatTime(b.CreatedAt()), database.FormatTime(b.UpdatedAt()),
			)
			if err != nil {
				return fmt.Errorf("save work schedule block %q: %w", b.Name(), err)
			}
		}
		return nil
	})
}

func toMinutes(t domain.TimeOfDay) int {
	return t.Hour*60 + t.Minute
}

func fromMinutes(m int) domain.TimeOfDay {
	return domain.NewTimeOfDay(m/60, m%60)
}
