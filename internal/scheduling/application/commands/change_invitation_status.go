package commands

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// ChangeInvitationStatusCommand records an attendee's answer.
type ChangeInvitationStatusCommand struct {
	MeetingID     uuid.UUID
	UserID        uuid.UUID
	Status        string
	DeclineReason string
}

// ChangeInvitationStatusHandler handles the ChangeInvitationStatusCommand.
type ChangeInvitationStatusHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
}

// NewChangeInvitationStatusHandler creates a new ChangeInvitationStatusHandler.
func NewChangeInvitationStatusHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker) *ChangeInvitationStatusHandler {
	return &ChangeInvitationStatusHandler{repos: repos, uow: uow, locker: locker}
}

// Handle executes the ChangeInvitationStatusCommand and tells the organizer.
func (h *ChangeInvitationStatusHandler) Handle(ctx context.Context, cmd ChangeInvitationStatusCommand) error {
	status, err := domain.ParseInvitationStatus(cmd.Status)
	if err != nil {
		return err
	}

	keys := staticKeys(lock.MeetingKey(cmd.MeetingID.String()), lock.UserKey(cmd.UserID.String()))
	return withLocks(ctx, h.locker, keys, func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			meeting, err := loadMeeting(txCtx, h.repos.Meetings, cmd.MeetingID)
			if err != nil {
				return err
			}
			responder, err := loadUser(txCtx, h.repos.Users, cmd.UserID)
			if err != nil {
				return err
			}

			if err := meeting.ChangeInvitationStatus(responder.ID(), status, cmd.DeclineReason); err != nil {
				return err
			}
			if err := h.repos.Meetings.Save(txCtx, meeting); err != nil {
				return err
			}

			attendance := meeting.AttendanceOf(responder.ID())
			notification := services.ResponseNotification(meeting, responder, attendance.InvitationStatus(), attendance.DeclineReason())
			if err := saveNotifications(txCtx, h.repos, responder.ID(), notification); err != nil {
				return err
			}
			return publish(txCtx, h.repos.Outbox, responder.ID(), meeting)
		})
	})
}
