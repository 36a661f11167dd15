package commands

import (
	"context"
	"testing"
	"time"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// harness wires every handler against one memory store. Today is Monday
// 2 June 2025 and the schedule has blocks 09:00-14:00 and 16:00-20:00.
type harness struct {
	t      *testing.T
	ctx    context.Context
	store  *memoryStore
	repos  Repositories
	uow    memoryUnitOfWork
	locker *lock.MemoryLocker
	clock  *domain.ManualClock

	configure        *ConfigureWorkScheduleHandler
	createAbsence    *CreateAbsenceHandler
	deleteAbsence    *DeleteAbsenceHandler
	createMeeting    *CreateMeetingHandler
	editMeeting      *EditMeetingHandler
	assist           *AssistMeetingHandler
	changeStatus     *ChangeMeetingStatusHandler
	changeInvitation *ChangeInvitationStatusHandler
	blockUser        *BlockUserHandler
	markRead         *MarkNotificationReadHandler
	discard          *DiscardNotificationHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemoryStore()
	h := &harness{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		repos:  store.repositories(),
		uow:    memoryUnitOfWork{store: store},
		locker: lock.NewMemoryLocker(),
		clock:  domain.NewManualClock(time.Date(2025, time.June, 2, 8, 0, 0, 0, time.Local)),
	}
	h.configure = NewConfigureWorkScheduleHandler(h.repos, h.uow, h.locker)
	h.createAbsence = NewCreateAbsenceHandler(h.repos, h.uow, h.locker, h.clock, nil)
	h.deleteAbsence = NewDeleteAbsenceHandler(h.repos, h.uow, h.locker)
	h.createMeeting = NewCreateMeetingHandler(h.repos, h.uow, h.locker, h.clock, nil)
	h.editMeeting = NewEditMeetingHandler(h.repos, h.uow, h.locker, h.clock, nil)
	h.assist = NewAssistMeetingHandler(h.repos, h.uow, h.locker)
	h.changeStatus = NewChangeMeetingStatusHandler(h.repos, h.uow, h.locker)
	h.changeInvitation = NewChangeInvitationStatusHandler(h.repos, h.uow, h.locker)
	h.blockUser = NewBlockUserHandler(h.repos, h.uow, h.locker, nil)
	h.markRead = NewMarkNotificationReadHandler(h.repos.Notifications, h.uow, h.clock)
	h.discard = NewDiscardNotificationHandler(h.repos.Notifications, h.uow)
	return h
}

func newConfiguredHarness(t *testing.T) *harness {
	h := newHarness(t)
	_, err := h.configure.Handle(h.ctx, ConfigureWorkScheduleCommand{
		Blocks: []WorkScheduleBlockInput{
			{Name: "Morning", Start: "09:00", End: "14:00"},
			{Name: "Afternoon", Start: "16:00", End: "20:00"},
		},
	})
	require.NoError(t, err)
	return h
}

// addUser stores an active user.
func (h *harness) addUser(email, name string) *identityDomain.User {
	h.t.Helper()
	e, err := identityDomain.NewEmail(email)
	require.NoError(h.t, err)
	n, err := identityDomain.NewName(name)
	require.NoError(h.t, err)
	user := identityDomain.NewUser(e, n, "Tester")
	require.NoError(h.t, user.Activate())
	require.NoError(h.t, h.repos.Users.Save(h.ctx, user))
	return user
}

// meetingOn builds a meeting input on Tuesday 3 June 2025.
func meetingOn(subject, from, to string, emails ...string) MeetingInput {
	return MeetingInput{
		Subject:           subject,
		Date:              "2025-06-03",
		FromTime:          from,
		ToTime:            to,
		Location:          "oficina",
		ParticipantEmails: emails,
	}
}

func (h *harness) mustCreateMeeting(organizer *identityDomain.User, in MeetingInput) uuid.UUID {
	h.t.Helper()
	result, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{OrganizerID: organizer.ID(), MeetingInput: in})
	require.NoError(h.t, err)
	return result.MeetingID
}

func (h *harness) accept(meetingID uuid.UUID, user *identityDomain.User) {
	h.t.Helper()
	require.NoError(h.t, h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{
		MeetingID: meetingID,
		UserID:    user.ID(),
		Status:    "accepted",
	}))
}
