package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/google/uuid"
)

// Decline reasons written by the cascade.
const (
	ReasonScheduledAbsence = "Scheduled absence"
	ReasonUserBlocked      = "User blocked"
)

// cascadeUnavailability withdraws a user from their OPEN meetings. With a
// nil window every OPEN meeting is affected, otherwise only the ones
// intersecting it. Meetings the user organizes are cancelled; elsewhere the
// user's invitation is rejected with reason. No notifications are emitted.
// Each meeting is re-read before it is changed and a meeting that vanished
// aborts the whole cascade.
func cascadeUnavailability(
	ctx context.Context,
	meetings domain.MeetingRepository,
	userID uuid.UUID,
	window *domain.TimeRange,
	reason string,
) ([]*domain.Meeting, []string, error) {
	open, err := meetings.FindOpenByParticipant(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var changed []*domain.Meeting
	var messages []string
	for _, candidate := range open {
		if window != nil && !candidate.Period().Overlaps(*window) {
			continue
		}

		meeting, err := meetings.FindByID(ctx, candidate.ID())
		if err != nil {
			return nil, nil, err
		}
		if meeting == nil {
			return nil, nil, domain.NotFound("meeting", candidate.ID())
		}
		if !meeting.IsOpen() {
			continue
		}

		if meeting.OrganizerID() == userID {
			if err := meeting.Cancel(); err != nil {
				return nil, nil, err
			}
			messages = append(messages, fmt.Sprintf("Cancelled meeting %q", meeting.Subject()))
		} else {
			if err := meeting.RejectInvitation(userID, reason); err != nil {
				return nil, nil, err
			}
			messages = append(messages, fmt.Sprintf("Rejected invitation to meeting %q", meeting.Subject()))
		}

		if err := meetings.Save(ctx, meeting); err != nil {
			return nil, nil, err
		}
		changed = append(changed, meeting)
	}
	return changed, messages, nil
}

// cascadeKeys resolves the lock set of a cascade: the user and every OPEN
// meeting they attend.
func cascadeKeys(meetings domain.MeetingRepository, userID uuid.UUID) keyResolver {
	return func(ctx context.Context) ([]string, error) {
		open, err := meetings.FindOpenByParticipant(ctx, userID)
		if err != nil {
			return nil, err
		}
		keys := userKeys(userID)
		for _, m := range open {
			keys = append(keys, lock.MeetingKey(m.ID().String()))
		}
		return keys, nil
	}
}
