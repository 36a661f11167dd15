package services

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// OverlapDetector finds meetings and absences that collide with a window.
// Every comparison goes through domain.TimeRange.Overlaps.
type OverlapDetector struct {
	meetings domain.MeetingRepository
	absences domain.AbsenceRepository
}

// NewOverlapDetector creates a new OverlapDetector.
func NewOverlapDetector(meetings domain.MeetingRepository, absences domain.AbsenceRepository) *OverlapDetector {
	return &OverlapDetector{meetings: meetings, absences: absences}
}

// FindMeetingOverlap returns the first OPEN meeting of the user that
// overlaps window, ignoring the meeting identified by exclude.
func (d *OverlapDetector) FindMeetingOverlap(ctx context.Context, userID uuid.UUID, window domain.TimeRange, exclude uuid.UUID) (*domain.Meeting, error) {
	meetings, err := d.meetings.FindOpenByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range meetings {
		if m.ID() == exclude {
			continue
		}
		if m.Period().Overlaps(window) {
			return m, nil
		}
	}
	return nil, nil
}

// HasMeetingOverlap reports whether the user is already booked in window.
func (d *OverlapDetector) HasMeetingOverlap(ctx context.Context, userID uuid.UUID, window domain.TimeRange, exclude uuid.UUID) (bool, error) {
	m, err := d.FindMeetingOverlap(ctx, userID, window, exclude)
	return m != nil, err
}

// OpenMeetingsWithin returns the user's OPEN meetings overlapping window.
func (d *OverlapDetector) OpenMeetingsWithin(ctx context.Context, userID uuid.UUID, window domain.TimeRange) ([]*domain.Meeting, error) {
	meetings, err := d.meetings.FindOpenByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	var overlapping []*domain.Meeting
	for _, m := range meetings {
		if m.Period().Overlaps(window) {
			overlapping = append(overlapping, m)
		}
	}
	return overlapping, nil
}

// FindAbsenceConflicts returns the user's absences that overlap window.
// An all-day window also collides with any absence starting on its date.
func (d *OverlapDetector) FindAbsenceConflicts(ctx context.Context, userID uuid.UUID, window domain.TimeRange, allDay bool) ([]*domain.Absence, error) {
	absences, err := d.absences.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var conflicts []*domain.Absence
	for _, a := range absences {
		if a.Period().Overlaps(window) || (allDay && domain.SameDate(a.Start(), window.Start)) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts, nil
}

// Candidate is a user who may be invited to a meeting.
type Candidate struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	Surname     string
	HasAbsences bool
}

// FlagCandidates collapses candidate rows per user, flagging users whose
// absences collide with the meeting window. An absence counts when its date
// range overlaps the meeting's and either side is all-day or the absence,
// clipped to the meeting's day, overlaps the meeting. Users keep the order
// of their first row.
//
// Clipping differs from comparing the two time-of-day ranges alone: a timed
// absence from Monday 09:00 to Wednesday 12:00 covers all of Tuesday, so a
// Tuesday 15:00 meeting is flagged. That is the same conflict CreateMeeting
// rejects for the absent user.
func FlagCandidates(rows []domain.CandidateRow, window domain.TimeRange, allDay bool) []Candidate {
	index := make(map[uuid.UUID]int, len(rows))
	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		i, seen := index[row.UserID]
		if !seen {
			i = len(candidates)
			index[row.UserID] = i
			candidates = append(candidates, Candidate{
				UserID:  row.UserID,
				Email:   row.Email,
				Name:    row.Name,
				Surname: row.Surname,
			})
		}
		if row.Absence != nil && absenceCollides(*row.Absence, window, allDay) {
			candidates[i].HasAbsences = true
		}
	}
	return candidates
}

// absenceCollides applies the day-clipping rule described on FlagCandidates.
func absenceCollides(absence domain.CandidateAbsence, window domain.TimeRange, allDay bool) bool {
	absenceDays := domain.NewTimeRange(domain.DateOf(absence.Period.Start), domain.EndOfDay(absence.Period.End))
	windowDays := domain.NewTimeRange(domain.DateOf(window.Start), domain.EndOfDay(window.End))
	if !absenceDays.Overlaps(windowDays) {
		return false
	}
	if allDay || absence.AllDay {
		return true
	}
	clipped, ok := absence.Period.ClipToDay(window.Start)
	return ok && clipped.Overlaps(window)
}
