package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const meetingColumns = `m.id, m.subject, m.all_day, m.start_at, m.end_at, m.online, m.location, m.observations, m.status, m.created_at, m.updated_at`

const attendanceColumns = `id, meeting_id, user_id, role, invitation_status, decline_reason, has_assisted, created_at, updated_at`

// SQLMeetingRepository persists meetings together with their attendances.
type SQLMeetingRepository struct {
	conn database.Connection
}

// NewSQLMeetingRepository creates a new SQLMeetingRepository.
func NewSQLMeetingRepository(conn database.Connection) *SQLMeetingRepository {
	return &SQLMeetingRepository{conn: conn}
}

// Save upserts the meeting and replaces its attendance set in one
// transaction.
func (r *SQLMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	return database.InTx(ctx, r.conn, func(ctx context.Context) error {
		exec := database.ExecutorFromContext(ctx, r.conn)
		_, err := exec.Exec(ctx, `
			INSERT INTO meetings (id, subject, all_day, start_at, end_at, online, location, observations, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				subject = excluded.subject,
				all_day = excluded.all_day,
				start_at = excluded.start_at,
				end_at = excluded.end_at,
				online = excluded.online,
				location = excluded.location,
				observations = excluded.observations,
				status = excluded.status,
				updated_at = excluded.updated_at`,
			meeting.ID(),
			meeting.Subject(),
			meeting.IsAllDay(),
			database.FormatTime(meeting.Period().Start),
			database.FormatTime(meeting.Period().End),
			meeting.IsOnline(),
			string(meeting.Location()),
			meeting.Observations(),
			string(meeting.Status()),
			database.FormatTime(meeting.CreatedAt()),
			database.FormatTime(meeting.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("save meeting %s: %w", meeting.ID(), err)
		}

		if _, err := exec.Exec(ctx, `DELETE FROM meeting_attendances WHERE meeting_id = ?`, meeting.ID()); err != nil {
			return err
		}
		for _, a := range meeting.Attendances() {
			_, err := exec.Exec(ctx, `
				INSERT INTO meeting_attendances (`+attendanceColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID(),
				meeting.ID(),
				a.UserID(),
				string(a.Role()),
				string(a.InvitationStatus()),
				a.DeclineReason(),
				a.HasAssisted(),
				database.FormatTime(a.CreatedAt()),
				database.FormatTime(a.UpdatedAt()),
			)
			if err != nil {
				return fmt.Errorf("save attendance of %s: %w", a.UserID(), err)
			}
		}
		return nil
	})
}

// FindByID returns the meeting or nil when it does not exist.
func (r *SQLMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	meetings, err := r.query(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = ?`, id)
	if err != nil || len(meetings) == 0 {
		return nil, err
	}
	return meetings[0], nil
}

// FindOpenByParticipant returns OPEN meetings the user has an attendance on,
// ordered by start.
func (r *SQLMeetingRepository) FindOpenByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	return r.query(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings m
		JOIN meeting_attendances a ON a.meeting_id = m.id
		WHERE a.user_id = ? AND m.status = ?
		ORDER BY m.start_at, m.id`, userID, string(domain.MeetingOpen))
}

// CountOpenByParticipant counts the OPEN meetings the user has an attendance on.
func (r *SQLMeetingRepository) CountOpenByParticipant(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM meetings m
		JOIN meeting_attendances a ON a.meeting_id = m.id
		WHERE a.user_id = ? AND m.status = ?`, userID, string(domain.MeetingOpen)).Scan(&n)
	return n, err
}

// FindByParticipant returns every meeting the user has an attendance on,
// ordered by start.
func (r *SQLMeetingRepository) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	return r.query(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings m
		JOIN meeting_attendances a ON a.meeting_id = m.id
		WHERE a.user_id = ?
		ORDER BY m.start_at, m.id`, userID)
}

type meetingRow struct {
	id                   uuid.UUID
	details              domain.MeetingDetails
	status               domain.MeetingStatus
	createdAt, updatedAt string
}

// query loads the meetings selected by query, then their attendances in a
// single round trip.
func (r *SQLMeetingRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Meeting, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var found []meetingRow
	for rows.Next() {
		row, err := scanMeetingRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(found) == 0 {
		return nil, nil
	}

	ids := make([]any, len(found))
	for i, row := range found {
		ids[i] = row.id
	}
	attendances, err := r.attendancesOf(ctx, ids)
	if err != nil {
		return nil, err
	}

	meetings := make([]*domain.Meeting, 0, len(found))
	for _, row := range found {
		created, updated, err := parseStamps(row.createdAt, row.updatedAt)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, domain.RehydrateMeeting(row.id, row.details, row.status, attendances[row.id], created, updated))
	}
	return meetings, nil
}

// attendancesOf groups the attendances of the given meetings, organizer
// first.
func (r *SQLMeetingRepository) attendancesOf(ctx context.Context, meetingIDs []any) (map[uuid.UUID][]*domain.Attendance, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM meeting_attendances
		WHERE meeting_id IN (`+database.Placeholders(len(meetingIDs))+`)
		ORDER BY meeting_id, CASE WHEN role = 'ORGANIZER' THEN 0 ELSE 1 END, created_at, id`, meetingIDs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byMeeting := make(map[uuid.UUID][]*domain.Attendance)
	for rows.Next() {
		var (
			id, meetingID, userID uuid.UUID
			role, status, reason  string
			assisted              bool
			createdAt, updatedAt  string
		)
		if err := rows.Scan(&id, &meetingID, &userID, &role, &status, &reason, &assisted, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		parsedRole, err := domain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		parsedStatus, err := domain.ParseInvitationStatus(status)
		if err != nil {
			return nil, err
		}
		created, updated, err := parseStamps(createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		byMeeting[meetingID] = append(byMeeting[meetingID],
			domain.RehydrateAttendance(id, meetingID, userID, parsedRole, parsedStatus, reason, assisted, created, updated))
	}
	return byMeeting, rows.Err()
}

func scanMeetingRow(row database.Row) (meetingRow, error) {
	var (
		out                                       meetingRow
		subject, startAt, endAt, location, status string
		observations                              string
		allDay, online                            bool
	)
	if err := row.Scan(&out.id, &subject, &allDay, &startAt, &endAt, &online, &location, &observations, &status, &out.createdAt, &out.updatedAt); err != nil {
		return meetingRow{}, err
	}

	period, err := parsePeriod(startAt, endAt)
	if err != nil {
		return meetingRow{}, err
	}
	out.status, err = domain.ParseMeetingStatus(status)
	if err != nil {
		return meetingRow{}, err
	}
	out.details = domain.MeetingDetails{
		Subject:      subject,
		AllDay:       allDay,
		Period:       period,
		Online:       online,
		Location:     domain.Location(location),
		Observations: observations,
	}
	return out, nil
}
