package commands

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// ChangeMeetingStatusCommand moves a meeting to another status.
type ChangeMeetingStatusCommand struct {
	MeetingID   uuid.UUID
	OrganizerID uuid.UUID
	Status      string
}

// ChangeMeetingStatusHandler handles the ChangeMeetingStatusCommand.
type ChangeMeetingStatusHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
}

// NewChangeMeetingStatusHandler creates a new ChangeMeetingStatusHandler.
func NewChangeMeetingStatusHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker) *ChangeMeetingStatusHandler {
	return &ChangeMeetingStatusHandler{repos: repos, uow: uow, locker: locker}
}

// Handle executes the ChangeMeetingStatusCommand. Cancelling notifies every
// attendee who had accepted.
func (h *ChangeMeetingStatusHandler) Handle(ctx context.Context, cmd ChangeMeetingStatusCommand) error {
	status, err := domain.ParseMeetingStatus(cmd.Status)
	if err != nil {
		return err
	}

	return withLocks(ctx, h.locker, staticKeys(lock.MeetingKey(cmd.MeetingID.String())), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			meeting, err := loadMeeting(txCtx, h.repos.Meetings, cmd.MeetingID)
			if err != nil {
				return err
			}
			if err := meeting.ChangeStatus(cmd.OrganizerID, status); err != nil {
				return err
			}
			if err := h.repos.Meetings.Save(txCtx, meeting); err != nil {
				return err
			}

			if status == domain.MeetingCancelled {
				organizer, err := loadUser(txCtx, h.repos.Users, cmd.OrganizerID)
				if err != nil {
					return err
				}
				notifications := services.CancellationNotifications(meeting, organizer)
				if err := saveNotifications(txCtx, h.repos, cmd.OrganizerID, notifications...); err != nil {
					return err
				}
			}
			return publish(txCtx, h.repos.Outbox, cmd.OrganizerID, meeting)
		})
	})
}
