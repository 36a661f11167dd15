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

// EditMeetingCommand replaces the details and participants of a meeting.
type EditMeetingCommand struct {
	MeetingID   uuid.UUID
	OrganizerID uuid.UUID
	MeetingInput
}

// EditMeetingResult describes how the participants changed.
type EditMeetingResult struct {
	Added   []uuid.UUID
	Removed []uuid.UUID
}

// EditMeetingHandler handles the EditMeetingCommand.
type EditMeetingHandler struct {
	repos     Repositories
	uow       sharedApplication.UnitOfWork
	locker    lock.Locker
	validator *services.TimeRangeValidator
	detector  *services.OverlapDetector
	logger    *slog.Logger
}

// NewEditMeetingHandler creates a new EditMeetingHandler.
func NewEditMeetingHandler(
	repos Repositories,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	clock domain.Clock,
	logger *slog.Logger,
) *EditMeetingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EditMeetingHandler{
		repos:     repos,
		uow:       uow,
		locker:    locker,
		validator: services.NewTimeRangeValidator(clock),
		detector:  services.NewOverlapDetector(repos.Meetings, repos.Absences),
		logger:    logger,
	}
}

// Handle executes the EditMeetingCommand. Participants that stay keep their
// attendance; newly added ones are invited.
func (h *EditMeetingHandler) Handle(ctx context.Context, cmd EditMeetingCommand) (*EditMeetingResult, error) {
	schedule, err := h.repos.Schedule.Get(ctx)
	if err != nil {
		return nil, err
	}
	details, err := cmd.details(h.validator, schedule)
	if err != nil {
		return nil, err
	}

	var result *EditMeetingResult
	err = withLocks(ctx, h.locker, h.keys(cmd), func(ctx context.Context) error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			meeting, err := loadMeeting(txCtx, h.repos.Meetings, cmd.MeetingID)
			if err != nil {
				return err
			}
			if meeting.OrganizerID() != cmd.OrganizerID {
				return domain.NewRuleError(domain.ErrForbidden, "only the organizer can edit meeting %s", meeting.ID())
			}
			if !meeting.IsOpen() {
				return domain.NewRuleError(domain.ErrMeetingNotOpen, "meeting %s is %s", meeting.ID(), meeting.Status())
			}

			organizer, err := loadUser(txCtx, h.repos.Users, cmd.OrganizerID)
			if err != nil {
				return err
			}
			participants, err := loadUsersByEmail(txCtx, h.repos.Users, nonEmpty(cmd.ParticipantEmails))
			if err != nil {
				return err
			}

			everyone := withOrganizer(organizer, participants)
			if err := validateParticipants(txCtx, h.detector, everyone, details.Period, details.AllDay, meeting.ID()); err != nil {
				return err
			}

			diff, err := meeting.Edit(details, userIDs(everyone[1:]))
			if err != nil {
				return err
			}
			if err := h.repos.Meetings.Save(txCtx, meeting); err != nil {
				return err
			}

			invitations := services.InvitationNotifications(meeting, organizer, diff.Added)
			if err := saveNotifications(txCtx, h.repos, organizer.ID(), invitations...); err != nil {
				return err
			}
			if err := publish(txCtx, h.repos.Outbox, organizer.ID(), meeting); err != nil {
				return err
			}

			result = &EditMeetingResult{Added: diff.Added, Removed: diff.Removed}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("meeting edited",
		"meeting_id", cmd.MeetingID,
		"organizer_id", cmd.OrganizerID,
		"added", len(result.Added),
		"removed", len(result.Removed),
	)
	return result, nil
}

// keys locks the meeting, its current participants and the requested ones.
func (h *EditMeetingHandler) keys(cmd EditMeetingCommand) keyResolver {
	return func(ctx context.Context) ([]string, error) {
		meeting, err := loadMeeting(ctx, h.repos.Meetings, cmd.MeetingID)
		if err != nil {
			return nil, err
		}
		keys, err := participantKeys(h.repos.Users, cmd.ParticipantEmails, meeting.ParticipantIDs()...)(ctx)
		if err != nil {
			return nil, err
		}
		return append(keys, lock.MeetingKey(meeting.ID().String())), nil
	}
}
