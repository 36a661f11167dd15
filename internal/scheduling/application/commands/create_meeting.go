package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// CreateMeetingCommand contains the data needed to create a meeting.
type CreateMeetingCommand struct {
	OrganizerID uuid.UUID
	MeetingInput
}

// CreateMeetingResult contains the result of creating a meeting.
type CreateMeetingResult struct {
	MeetingID uuid.UUID
	Invited   int
}

// CreateMeetingHandler handles the CreateMeetingCommand.
type CreateMeetingHandler struct {
	repos     Repositories
	uow       sharedApplication.UnitOfWork
	locker    lock.Locker
	validator *services.TimeRangeValidator
	detector  *services.OverlapDetector
	logger    *slog.Logger
}

// NewCreateMeetingHandler creates a new CreateMeetingHandler.
func NewCreateMeetingHandler(
	repos Repositories,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	clock domain.Clock,
	logger *slog.Logger,
) *CreateMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateMeetingHandler{
		repos:     repos,
		uow:       uow,
		locker:    locker,
		validator: services.NewTimeRangeValidator(clock),
		detector:  services.NewOverlapDetector(repos.Meetings, repos.Absences),
		logger:    logger,
	}
}

// Handle executes the CreateMeetingCommand. Every invited attendee gets an
// invitation notification.
func (h *CreateMeetingHandler) Handle(ctx context.Context, cmd CreateMeetingCommand) (*CreateMeetingResult, error) {
	schedule, err := h.repos.Schedule.Get(ctx)
	if err != nil {
		return nil, err
	}
	details, err := cmd.details(h.validator, schedule)
	if err != nil {
		return nil, err
	}

	var result *CreateMeetingResult
	resolve := participantKeys(h.repos.Users, cmd.ParticipantEmails, cmd.OrganizerID)
	err = withLocks(ctx, h.locker, resolve, func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			organizer, err := loadUser(txCtx, h.repos.Users, cmd.OrganizerID)
			if err != nil {
				return err
			}
			participants, err := loadUsersByEmail(txCtx, h.repos.Users, nonEmpty(cmd.ParticipantEmails))
			if err != nil {
				return err
			}

			everyone := withOrganizer(organizer, participants)
			if err := validateParticipants(txCtx, h.detector, everyone, details.Period, details.AllDay, uuid.Nil); err != nil {
				return err
			}

			meeting, err := domain.NewMeeting(organizer.ID(), details, userIDs(everyone[1:]))
			if err != nil {
				return err
			}
			if err := h.repos.Meetings.Save(txCtx, meeting); err != nil {
				return err
			}

			invitations := services.InvitationNotifications(meeting, organizer, userIDs(everyone[1:]))
			if err := saveNotifications(txCtx, h.repos, organizer.ID(), invitations...); err != nil {
				return err
			}
			if err := publish(txCtx, h.repos.Outbox, organizer.ID(), meeting); err != nil {
				return err
			}

			result = &CreateMeetingResult{MeetingID: meeting.ID(), Invited: len(invitations)}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("meeting created",
		"meeting_id", result.MeetingID,
		"organizer_id", cmd.OrganizerID,
		"invited", result.Invited,
	)
	return result, nil
}
