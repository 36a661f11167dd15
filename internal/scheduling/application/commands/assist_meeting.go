package commands

import (
	"context"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// AssistMeetingCommand records that a participant attended a meeting.
type AssistMeetingCommand struct {
	MeetingID uuid.UUID
	UserID    uuid.UUID
}

// AssistMeetingResult reports the meeting status after the assistance.
type AssistMeetingResult struct {
	Status domain.MeetingStatus
}

// AssistMeetingHandler handles the AssistMeetingCommand.
type AssistMeetingHandler struct {
	repos  Repositories
	uow    sharedApplication.UnitOfWork
	locker lock.Locker
}

// NewAssistMeetingHandler creates a new AssistMeetingHandler.
func NewAssistMeetingHandler(repos Repositories, uow sharedApplication.UnitOfWork, locker lock.Locker) *AssistMeetingHandler {
	return &AssistMeetingHandler{repos: repos, uow: uow, locker: locker}
}

// Handle executes the AssistMeetingCommand. The organizer is notified of
// every assistance, their own included.
func (h *AssistMeetingHandler) Handle(ctx context.Context, cmd AssistMeetingCommand) (*AssistMeetingResult, error) {
	var result *AssistMeetingResult
	err := withLocks(ctx, h.locker, staticKeys(lock.MeetingKey(cmd.MeetingID.String())), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			meeting, err := loadMeeting(txCtx, h.repos.Meetings, cmd.MeetingID)
			if err != nil {
				return err
			}
			assistant, err := loadUser(txCtx, h.repos.Users, cmd.UserID)
			if err != nil {
				return err
			}

			if err := meeting.Assist(assistant.ID()); err != nil {
				return err
			}
			if err := h.repos.Meetings.Save(txCtx, meeting); err != nil {
				return err
			}

			notification := services.AssistanceNotification(meeting, assistant)
			if err := saveNotifications(txCtx, h.repos, assistant.ID(), notification); err != nil {
				return err
			}
			if err := publish(txCtx, h.repos.Outbox, assistant.ID(), meeting); err != nil {
				return err
			}

			result = &AssistMeetingResult{Status: meeting.Status()}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
