package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMeeting_InvitesParticipants(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")
	b := h.addUser("b@x.com", "Bruno")

	result, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Planning", "10:00", "11:00", "a@x.com", "B@x.com", "a@x.com", "org@x.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Invited)

	m := h.store.meeting(result.MeetingID)
	require.NotNil(t, m)
	assert.Equal(t, domain.MeetingOpen, m.Status())
	assert.Equal(t, domain.LocationOficina, m.Location())
	assert.Len(t, m.Attendances(), 3)
	assert.Equal(t, org.ID(), m.OrganizerID())
	assert.Equal(t, domain.InvitationAccepted, m.Organizer().InvitationStatus())
	assert.Equal(t, domain.InvitationPending, m.AttendanceOf(a.ID()).InvitationStatus())
	assert.Equal(t, domain.InvitationPending, m.AttendanceOf(b.ID()).InvitationStatus())

	assert.Len(t, h.store.notificationsFor(a.ID()), 1)
	assert.Len(t, h.store.notificationsFor(b.ID()), 1)
	assert.Empty(t, h.store.notificationsFor(org.ID()))
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyMeetingCreated)
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyNotificationCreated)
}

func TestCreateMeeting_AllDaySpansWholeDate(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	h.addUser("a@x.com", "Ana")

	in := MeetingInput{
		Subject:           "Offsite",
		AllDay:            true,
		Date:              "2025-06-03",
		Online:            true,
		ParticipantEmails: []string{"a@x.com"},
	}
	id := h.mustCreateMeeting(org, in)

	m := h.store.meeting(id)
	assert.Equal(t, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.Local), m.Period().Start)
	assert.Equal(t, time.Date(2025, time.June, 3, 23, 59, 59, 999999999, time.Local), m.Period().End)
}

func TestCreateMeeting_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *MeetingInput)
		wantErr error
	}{
		{"missing subject", func(in *MeetingInput) { in.Subject = " " }, domain.ErrMissingField},
		{"missing participants", func(in *MeetingInput) { in.ParticipantEmails = nil }, domain.ErrMissingField},
		{"missing time", func(in *MeetingInput) { in.ToTime = "" }, domain.ErrMissingField},
		{"missing location", func(in *MeetingInput) { in.Location = "" }, domain.ErrMissingField},
		{"today", func(in *MeetingInput) { in.Date = "2025-06-02" }, domain.ErrInvalidDate},
		{"weekend", func(in *MeetingInput) { in.Date = "2025-06-07" }, domain.ErrInvalidDate},
		{"bad date", func(in *MeetingInput) { in.Date = "03/06/2025" }, domain.ErrInvalidFormat},
		{"bad time", func(in *MeetingInput) { in.FromTime = "9h" }, domain.ErrInvalidFormat},
		{"too short", func(in *MeetingInput) { in.ToTime = "10:15" }, domain.ErrInvalidTimeRange},
		{"spans the gap", func(in *MeetingInput) { in.FromTime, in.ToTime = "14:30", "15:30" }, domain.ErrOutsideWorkHours},
		{"unknown location", func(in *MeetingInput) { in.Location = "moon" }, domain.ErrInvalidFormat},
		{"unknown participant", func(in *MeetingInput) { in.ParticipantEmails = []string{"ghost@x.com"} }, domain.ErrNotFound},
		{"invalid email", func(in *MeetingInput) { in.ParticipantEmails = []string{"not-an-email"} }, domain.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newConfiguredHarness(t)
			org := h.addUser("org@x.com", "Olga")
			h.addUser("a@x.com", "Ana")

			in := meetingOn("Planning", "10:00", "11:00", "a@x.com")
			tt.mutate(&in)
			_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{OrganizerID: org.ID(), MeetingInput: in})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateMeeting_ContainedInOneBlock(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	h.addUser("a@x.com", "Ana")

	_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Morning", "10:00", "11:00", "a@x.com"),
	})
	assert.NoError(t, err)

	_, err = h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Gap", "14:30", "15:30", "a@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrOutsideWorkHours)
}

func TestCreateMeeting_WithoutSchedule(t *testing.T) {
	h := newHarness(t)
	org := h.addUser("org@x.com", "Olga")
	h.addUser("a@x.com", "Ana")

	_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Planning", "10:00", "11:00", "a@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrOutsideWorkHours)
}

func TestCreateMeeting_NoDoubleBooking(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	other := h.addUser("other@x.com", "Otto")
	h.addUser("a@x.com", "Ana")
	h.addUser("b@x.com", "Bruno")

	h.mustCreateMeeting(org, meetingOn("First", "10:00", "11:00", "a@x.com"))

	_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  other.ID(),
		MeetingInput: meetingOn("Overlap", "10:30", "11:30", "b@x.com", "a@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrMeetingConflict)

	_, err = h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Organizer busy", "10:30", "11:30", "b@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrMeetingConflict)

	// Touching endpoints do not overlap.
	_, err = h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  other.ID(),
		MeetingInput: meetingOn("Next", "11:00", "12:00", "a@x.com"),
	})
	assert.NoError(t, err)
}

func TestCreateMeeting_CancelledMeetingsDoNotConflict(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	h.addUser("a@x.com", "Ana")

	id := h.mustCreateMeeting(org, meetingOn("First", "10:00", "11:00", "a@x.com"))
	require.NoError(t, h.changeStatus.Handle(h.ctx, ChangeMeetingStatusCommand{MeetingID: id, OrganizerID: org.ID(), Status: "cancelled"}))

	_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Again", "10:00", "11:00", "a@x.com"),
	})
	assert.NoError(t, err)
}

func TestCreateMeeting_UnavailableParticipants(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	blocked := h.addUser("blocked@x.com", "Blas")
	absent := h.addUser("absent@x.com", "Abel")

	email, err := identityDomain.NewEmail("inactive@x.com")
	require.NoError(t, err)
	name, err := identityDomain.NewName("Ines")
	require.NoError(t, err)
	require.NoError(t, h.repos.Users.Save(h.ctx, identityDomain.NewUser(email, name, "")))

	_, err = h.blockUser.Handle(h.ctx, BlockUserCommand{UserID: blocked.ID()})
	require.NoError(t, err)
	_, err = h.createAbsence.Handle(h.ctx, CreateAbsenceCommand{
		UserID:   absent.ID(),
		Type:     "vacation",
		AllDay:   true,
		FromDate: "2025-06-03",
		ToDate:   "2025-06-03",
	})
	require.NoError(t, err)

	tests := []struct {
		email   string
		wantErr error
	}{
		{"blocked@x.com", domain.ErrUserUnavailable},
		{"inactive@x.com", domain.ErrUserUnavailable},
		{"absent@x.com", domain.ErrAbsenceConflict},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			_, err := h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
				OrganizerID:  org.ID(),
				MeetingInput: meetingOn("Planning", "10:00", "11:00", tt.email),
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateMeeting_ConcurrentBookingsSerialize(t *testing.T) {
	h := newConfiguredHarness(t)
	first := h.addUser("first@x.com", "Fiona")
	second := h.addUser("second@x.com", "Sam")
	h.addUser("a@x.com", "Ana")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, org := range []uuid.UUID{first.ID(), second.ID()} {
		wg.Add(1)
		go func(i int, org uuid.UUID) {
			defer wg.Done()
			_, errs[i] = h.createMeeting.Handle(h.ctx, CreateMeetingCommand{
				OrganizerID:  org,
				MeetingInput: meetingOn("Race", "10:00", "11:00", "a@x.com"),
			})
		}(i, org)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, domain.ErrMeetingConflict) {
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestEditMeeting_DiffKeepsExistingAttendance(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")
	b := h.addUser("b@x.com", "Bruno")
	c := h.addUser("c@x.com", "Carla")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com", "b@x.com"))
	h.accept(id, a)
	before := h.store.meeting(id).AttendanceOf(a.ID())

	in := meetingOn("Planning v2", "10:30", "11:30", "a@x.com", "c@x.com")
	result, err := h.editMeeting.Handle(h.ctx, EditMeetingCommand{MeetingID: id, OrganizerID: org.ID(), MeetingInput: in})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID()}, result.Added)
	assert.Equal(t, []uuid.UUID{b.ID()}, result.Removed)

	m := h.store.meeting(id)
	assert.Equal(t, "Planning v2", m.Subject())
	kept := m.AttendanceOf(a.ID())
	require.NotNil(t, kept)
	assert.Equal(t, before.ID(), kept.ID())
	assert.Equal(t, domain.InvitationAccepted, kept.InvitationStatus())
	require.NotNil(t, m.AttendanceOf(c.ID()))
	assert.Equal(t, domain.InvitationPending, m.AttendanceOf(c.ID()).InvitationStatus())
	assert.Nil(t, m.AttendanceOf(b.ID()))

	assert.Len(t, h.store.notificationsFor(c.ID()), 1)
	assert.Len(t, h.store.notificationsFor(a.ID()), 1)
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyMeetingEdited)
}

func TestEditMeeting_LogsParticipantChanges(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	h.addUser("a@x.com", "Ana")
	h.addUser("b@x.com", "Bruno")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := NewEditMeetingHandler(h.repos, h.uow, h.locker, h.clock, logger)

	_, err := handler.Handle(h.ctx, EditMeetingCommand{
		MeetingID:    id,
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Planning", "10:00", "11:00", "b@x.com"),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"meeting edited"`)
	assert.Contains(t, out, `"meeting_id":"`+id.String()+`"`)
	assert.Contains(t, out, `"added":1`)
	assert.Contains(t, out, `"removed":1`)
}

func TestEditMeeting_Rules(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))

	_, err := h.editMeeting.Handle(h.ctx, EditMeetingCommand{
		MeetingID:    id,
		OrganizerID:  a.ID(),
		MeetingInput: meetingOn("Hijack", "10:00", "11:00", "org@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = h.editMeeting.Handle(h.ctx, EditMeetingCommand{
		MeetingID:    uuid.New(),
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Missing", "10:00", "11:00", "a@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The meeting does not conflict with itself.
	_, err = h.editMeeting.Handle(h.ctx, EditMeetingCommand{
		MeetingID:    id,
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Planning", "10:30", "11:30", "a@x.com"),
	})
	require.NoError(t, err)

	_, err = h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: org.ID()})
	require.NoError(t, err)
	_, err = h.editMeeting.Handle(h.ctx, EditMeetingCommand{
		MeetingID:    id,
		OrganizerID:  org.ID(),
		MeetingInput: meetingOn("Too late", "10:00", "11:00", "a@x.com"),
	})
	assert.ErrorIs(t, err, domain.ErrMeetingNotOpen)
}

func TestAssistMeeting(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")
	outsider := h.addUser("z@x.com", "Zoe")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))

	result, err := h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: a.ID()})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingOpen, result.Status)
	assert.True(t, h.store.meeting(id).AttendanceOf(a.ID()).HasAssisted())

	_, err = h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: a.ID()})
	assert.ErrorIs(t, err, domain.ErrAlreadyAssisted)
	assert.True(t, h.store.meeting(id).AttendanceOf(a.ID()).HasAssisted())

	_, err = h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: outsider.ID()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	result, err = h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: org.ID()})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingClosed, result.Status)
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyMeetingClosed)

	// Both assistances were reported to the organizer.
	assert.Len(t, h.store.notificationsFor(org.ID()), 2)

	_, err = h.assist.Handle(h.ctx, AssistMeetingCommand{MeetingID: id, UserID: a.ID()})
	assert.ErrorIs(t, err, domain.ErrMeetingNotOpen)
}

func TestChangeMeetingStatus_CancelNotifiesAcceptedAttendees(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")
	b := h.addUser("b@x.com", "Bruno")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com", "b@x.com"))
	h.accept(id, a)

	require.NoError(t, h.changeStatus.Handle(h.ctx, ChangeMeetingStatusCommand{MeetingID: id, OrganizerID: org.ID(), Status: "CANCELLED"}))

	assert.Equal(t, domain.MeetingCancelled, h.store.meeting(id).Status())
	assert.Len(t, h.store.notificationsFor(a.ID()), 2)
	assert.Len(t, h.store.notificationsFor(b.ID()), 1)
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyMeetingCancelled)

	err := h.changeStatus.Handle(h.ctx, ChangeMeetingStatusCommand{MeetingID: id, OrganizerID: org.ID(), Status: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrMeetingNotOpen)
}

func TestChangeMeetingStatus_Rules(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))

	tests := []struct {
		name    string
		actor   uuid.UUID
		status  string
		wantErr error
	}{
		{"not the organizer", a.ID(), "CANCELLED", domain.ErrForbidden},
		{"closed is not settable", org.ID(), "CLOSED", domain.ErrForbidden},
		{"unchanged", org.ID(), "open", domain.ErrStatusUnchanged},
		{"unknown", org.ID(), "done", domain.ErrInvalidFormat},
		{"missing", org.ID(), "", domain.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.changeStatus.Handle(h.ctx, ChangeMeetingStatusCommand{MeetingID: id, OrganizerID: tt.actor, Status: tt.status})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.MeetingOpen, h.store.meeting(id).Status())
		})
	}
}

func TestChangeInvitationStatus(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")

	id := h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))

	err := h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{MeetingID: id, UserID: a.ID(), Status: "REJECTED"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	err = h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{MeetingID: id, UserID: a.ID(), Status: "PENDING"})
	assert.ErrorIs(t, err, domain.ErrStatusUnchanged)

	err = h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{MeetingID: id, UserID: org.ID(), Status: "REJECTED", DeclineReason: "busy"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{
		MeetingID: id, UserID: a.ID(), Status: "rejected", DeclineReason: "Dentist",
	}))
	attendance := h.store.meeting(id).AttendanceOf(a.ID())
	assert.Equal(t, domain.InvitationRejected, attendance.InvitationStatus())
	assert.Equal(t, "Dentist", attendance.DeclineReason())

	require.NoError(t, h.changeInvitation.Handle(h.ctx, ChangeInvitationStatusCommand{
		MeetingID: id, UserID: a.ID(), Status: "accepted", DeclineReason: "ignored",
	}))
	attendance = h.store.meeting(id).AttendanceOf(a.ID())
	assert.Equal(t, domain.InvitationAccepted, attendance.InvitationStatus())
	assert.Empty(t, attendance.DeclineReason())

	notifications := h.store.notificationsFor(org.ID())
	assert.Len(t, notifications, 2)
	assert.Contains(t, h.store.routingKeys(), domain.RoutingKeyAttendanceResponded)
}

func TestNotificationCommands(t *testing.T) {
	h := newConfiguredHarness(t)
	org := h.addUser("org@x.com", "Olga")
	a := h.addUser("a@x.com", "Ana")

	h.mustCreateMeeting(org, meetingOn("Planning", "10:00", "11:00", "a@x.com"))
	notifications := h.store.notificationsFor(a.ID())
	require.Len(t, notifications, 1)
	id := notifications[0].ID()

	err := h.markRead.Handle(h.ctx, MarkNotificationReadCommand{NotificationID: id, RecipientID: org.ID()})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, h.markRead.Handle(h.ctx, MarkNotificationReadCommand{NotificationID: id, RecipientID: a.ID()}))
	read := h.store.notificationsFor(a.ID())[0]
	assert.True(t, read.IsRead())
	require.NotNil(t, read.ReadAt())
	assert.Equal(t, h.clock.Now(), *read.ReadAt())

	err = h.discard.Handle(h.ctx, DiscardNotificationCommand{NotificationID: id, RecipientID: org.ID()})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, h.discard.Handle(h.ctx, DiscardNotificationCommand{NotificationID: id, RecipientID: a.ID()}))
	assert.Empty(t, h.store.notificationsFor(a.ID()))

	err = h.discard.Handle(h.ctx, DiscardNotificationCommand{NotificationID: id, RecipientID: a.ID()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
