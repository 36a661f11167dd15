package services

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMeetingRepo struct {
	mock.Mock
}

func (m *mockMeetingRepo) Save(ctx context.Context, meeting *domain.Meeting) error {
	return m.Called(ctx, meeting).Error(0)
}

func (m *mockMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindOpenByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Meeting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) CountOpenByParticipant(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockAbsenceRepo struct {
	mock.Mock
}

func (m *mockAbsenceRepo) Save(ctx context.Context, absence *domain.Absence) error {
	return m.Called(ctx, absence).Error(0)
}

func (m *mockAbsenceRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Absence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Absence), args.Error(1)
}

func (m *mockAbsenceRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Absence, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Absence), args.Error(1)
}

func (m *mockAbsenceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func meetingAt(t *testing.T, organizer uuid.UUID, start, end time.Time) *domain.Meeting {
	t.Helper()
	m, err := domain.NewMeeting(organizer, domain.MeetingDetails{
		Subject:  "Planning",
		Period:   domain.NewTimeRange(start, end),
		Location: domain.LocationESI,
	}, nil)
	require.NoError(t, err)
	return m
}

func TestOverlapDetector_HasMeetingOverlap(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	existing := meetingAt(t, user, on(3, 10, 0), on(3, 11, 0))

	meetings := new(mockMeetingRepo)
	meetings.On("FindOpenByParticipant", ctx, user).Return([]*domain.Meeting{existing}, nil)
	detector := NewOverlapDetector(meetings, new(mockAbsenceRepo))

	busy, err := detector.HasMeetingOverlap(ctx, user, domain.NewTimeRange(on(3, 10, 30), on(3, 11, 30)), uuid.Nil)
	require.NoError(t, err)
	assert.True(t, busy)

	busy, err = detector.HasMeetingOverlap(ctx, user, domain.NewTimeRange(on(3, 11, 0), on(3, 12, 0)), uuid.Nil)
	require.NoError(t, err)
	assert.False(t, busy, "back-to-back meetings do not overlap")

	busy, err = detector.HasMeetingOverlap(ctx, user, domain.NewTimeRange(on(3, 10, 30), on(3, 11, 30)), existing.ID())
	require.NoError(t, err)
	assert.False(t, busy, "the edited meeting is excluded")
}

func TestOverlapDetector_FindAbsenceConflicts(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	timed := domain.NewAbsence(user, domain.AbsencePermit, false, domain.NewTimeRange(on(3, 9, 0), on(3, 10, 0)))
	allDay := domain.NewAbsence(user, domain.AbsenceVacation, true, domain.NewTimeRange(on(5, 0, 0), on(6, 0, 0)))

	absences := new(mockAbsenceRepo)
	absences.On("FindByUser", ctx, user).Return([]*domain.Absence{timed, allDay}, nil)
	detector := NewOverlapDetector(new(mockMeetingRepo), absences)

	conflicts, err := detector.FindAbsenceConflicts(ctx, user, domain.NewTimeRange(on(3, 9, 30), on(3, 12, 0)), false)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Absence{timed}, conflicts)

	conflicts, err = detector.FindAbsenceConflicts(ctx, user, domain.NewTimeRange(on(3, 10, 0), on(3, 12, 0)), false)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	conflicts, err = detector.FindAbsenceConflicts(ctx, user, domain.AllDayRange(on(6, 0, 0), on(6, 0, 0)), true)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Absence{allDay}, conflicts)
}

func TestFlagCandidates(t *testing.T) {
	ana, bea, carl := uuid.New(), uuid.New(), uuid.New()
	window := domain.NewTimeRange(on(3, 10, 0), on(3, 11, 0))

	rows := []domain.CandidateRow{
		{UserID: ana, Email: "ana@x.com", Name: "Ana"},
		{UserID: bea, Email: "bea@x.com", Name: "Bea", Absence: &domain.CandidateAbsence{
			Period: domain.NewTimeRange(on(3, 16, 0), on(3, 18, 0)),
		}},
		{UserID: bea, Email: "bea@x.com", Name: "Bea", Absence: &domain.CandidateAbsence{
			Period: domain.NewTimeRange(on(2, 16, 0), on(3, 10, 30)),
		}},
		{UserID: carl, Email: "carl@x.com", Name: "Carl", Absence: &domain.CandidateAbsence{
			AllDay: true,
			Period: domain.AllDayRange(on(4, 0, 0), on(4, 0, 0)),
		}},
	}

	candidates := FlagCandidates(rows, window, false)
	require.Len(t, candidates, 3)
	assert.Equal(t, ana, candidates[0].UserID)
	assert.False(t, candidates[0].HasAbsences)
	assert.Equal(t, bea, candidates[1].UserID)
	assert.True(t, candidates[1].HasAbsences, "one colliding row is enough")
	assert.Equal(t, carl, candidates[2].UserID)
	assert.False(t, candidates[2].HasAbsences, "absence on another day")
}

func TestFlagCandidates_AllDay(t *testing.T) {
	user := uuid.New()
	rows := []domain.CandidateRow{{UserID: user, Absence: &domain.CandidateAbsence{
		Period: domain.NewTimeRange(on(3, 16, 0), on(3, 18, 0)),
	}}}

	timed := FlagCandidates(rows, domain.NewTimeRange(on(3, 10, 0), on(3, 11, 0)), false)
	assert.False(t, timed[0].HasAbsences)

	allDay := FlagCandidates(rows, domain.AllDayRange(on(3, 0, 0), on(3, 0, 0)), true)
	assert.True(t, allDay[0].HasAbsences)
}

func TestFlagCandidates_MultiDayTimedAbsence(t *testing.T) {
	user := uuid.New()
	rows := []domain.CandidateRow{{UserID: user, Absence: &domain.CandidateAbsence{
		Period: domain.NewTimeRange(on(2, 9, 0), on(4, 12, 0)),
	}}}

	tests := []struct {
		name    string
		meeting domain.TimeRange
		want    bool
	}{
		{"day inside the absence", domain.NewTimeRange(on(3, 15, 0), on(3, 16, 0)), true},
		{"first day after the start", domain.NewTimeRange(on(2, 10, 0), on(2, 11, 0)), true},
		{"first day before the start", domain.NewTimeRange(on(2, 8, 0), on(2, 8, 30)), false},
		{"last day before the end", domain.NewTimeRange(on(4, 11, 0), on(4, 11, 30)), true},
		{"last day after the end", domain.NewTimeRange(on(4, 13, 0), on(4, 14, 0)), false},
		{"day after the absence", domain.NewTimeRange(on(5, 10, 0), on(5, 11, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := FlagCandidates(rows, tt.meeting, false)
			require.Len(t, candidates, 1)
			assert.Equal(t, tt.want, candidates[0].HasAbsences)
		})
	}
}
