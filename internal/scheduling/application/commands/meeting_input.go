package commands

import (
	"context"
	"strings"

	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/application/services"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// MeetingInput holds the editable fields of a meeting as entered.
type MeetingInput struct {
	Subject           string
	AllDay            bool
	Date              string
	FromTime          string
	ToTime            string
	Online            bool
	Location          string
	Observations      string
	ParticipantEmails []string
}

// Window returns the date and time part of the input.
func (in MeetingInput) Window() services.MeetingWindowInput {
	return services.MeetingWindowInput{
		AllDay:   in.AllDay,
		Date:     in.Date,
		FromTime: in.FromTime,
		ToTime:   in.ToTime,
	}
}

// details checks the input and turns it into meeting details.
func (in MeetingInput) details(validator *services.TimeRangeValidator, schedule *domain.WorkSchedule) (domain.MeetingDetails, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return domain.MeetingDetails{}, domain.MissingField("subject")
	}
	if err := in.Window().RequireFields(); err != nil {
		return domain.MeetingDetails{}, err
	}
	if !in.Online && strings.TrimSpace(in.Location) == "" {
		return domain.MeetingDetails{}, domain.MissingField("location")
	}
	if len(nonEmpty(in.ParticipantEmails)) == 0 {
		return domain.MeetingDetails{}, domain.MissingField("participants")
	}

	window, err := validator.MeetingWindow(in.Window(), schedule)
	if err != nil {
		return domain.MeetingDetails{}, err
	}

	var location domain.Location
	if strings.TrimSpace(in.Location) != "" {
		if location, err = domain.ParseLocation(in.Location); err != nil {
			return domain.MeetingDetails{}, err
		}
	}

	return domain.MeetingDetails{
		Subject:      in.Subject,
		AllDay:       in.AllDay,
		Period:       window,
		Online:       in.Online,
		Location:     location,
		Observations: in.Observations,
	}, nil
}

// validateParticipants requires every user to be available and free during
// window. The meeting identified by exclude does not count as a conflict.
func validateParticipants(
	ctx context.Context,
	detector *services.OverlapDetector,
	users []*identityDomain.User,
	window domain.TimeRange,
	allDay bool,
	exclude uuid.UUID,
) error {
	for _, user := range users {
		if err := requireAvailable(user); err != nil {
			return err
		}

		conflict, err := detector.FindMeetingOverlap(ctx, user.ID(), window, exclude)
		if err != nil {
			return err
		}
		if conflict != nil {
			return domain.NewRuleError(domain.ErrMeetingConflict, "%s already attends meeting %q at that time",
				user.Email(), conflict.Subject())
		}

		absences, err := detector.FindAbsenceConflicts(ctx, user.ID(), window, allDay)
		if err != nil {
			return err
		}
		if len(absences) > 0 {
			return domain.NewRuleError(domain.ErrAbsenceConflict, "%s is absent at that time", user.Email())
		}
	}
	return nil
}

// participantKeys resolves the lock set of the users named by emails plus
// the given ids.
func participantKeys(users identityDomain.UserRepository, emails []string, ids ...uuid.UUID) keyResolver {
	return func(ctx context.Context) ([]string, error) {
		resolved, err := loadUsersByEmail(ctx, users, nonEmpty(emails))
		if err != nil {
			return nil, err
		}
		all := append([]uuid.UUID{}, ids...)
		all = append(all, userIDs(resolved)...)
		return userKeys(all...), nil
	}
}

func userIDs(users []*identityDomain.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID())
	}
	return ids
}

// withOrganizer returns organizer followed by the participants that are not
// the organizer.
func withOrganizer(organizer *identityDomain.User, participants []*identityDomain.User) []*identityDomain.User {
	all := []*identityDomain.User{organizer}
	for _, p := range participants {
		if p.ID() != organizer.ID() {
			all = append(all, p)
		}
	}
	return all
}
