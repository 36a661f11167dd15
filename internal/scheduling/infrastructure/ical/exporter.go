// Package ical renders meetings as an iCalendar feed.
package ical

import (
	"context"
	"errors"
	"time"

	ics "github.com/arran4/golang-ical"
	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ProductID identifies the generator in exported calendars.
const ProductID = "-//Planify//Scheduling//EN"

// Exporter converts meetings to iCalendar.
type Exporter struct {
	users identityDomain.UserRepository
	clock domain.Clock
}

// NewExporter creates a new Exporter.
func NewExporter(users identityDomain.UserRepository, clock domain.Clock) *Exporter {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Exporter{users: users, clock: clock}
}

// Export renders meetings as one VCALENDAR with a VEVENT per meeting.
func (e *Exporter) Export(ctx context.Context, meetings []*domain.Meeting) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	stamp := e.clock.Now().UTC()
	cache := make(map[uuid.UUID]*identityDomain.User)
	for _, m := range meetings {
		event := cal.AddEvent(m.ID().String() + "@planify")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(m.CreatedAt().UTC())
		event.SetModifiedAt(m.UpdatedAt().UTC())
		event.SetSummary(m.Subject())
		if m.Observations() != "" {
			event.SetDescription(m.Observations())
		}
		if m.IsOnline() {
			event.SetLocation("Online")
		} else {
			event.SetLocation(string(m.Location()))
		}
		event.SetStatus(eventStatus(m.Status()))

		if m.IsAllDay() {
			event.SetAllDayStartAt(domain.DateOf(m.Period().Start))
			event.SetAllDayEndAt(domain.DateOf(m.Period().End).AddDate(0, 0, 1))
		} else {
			event.SetStartAt(m.Period().Start.UTC())
			event.SetEndAt(m.Period().End.UTC())
		}

		for _, a := range m.Attendances() {
			user, err := e.lookup(ctx, cache, a.UserID())
			if err != nil {
				return "", err
			}
			if user == nil {
				continue
			}
			address := "mailto:" + user.Email().String()
			if a.IsOrganizer() {
				event.SetOrganizer(address, ics.WithCN(user.FullName()))
			}
			event.AddAttendee(address,
				ics.WithCN(user.FullName()),
				participationStatus(a.InvitationStatus()),
				participationRole(a.Role()),
			)
		}
	}
	return cal.Serialize(), nil
}

func (e *Exporter) lookup(ctx context.Context, cache map[uuid.UUID]*identityDomain.User, id uuid.UUID) (*identityDomain.User, error) {
	if user, ok := cache[id]; ok {
		return user, nil
	}
	user, err := e.users.FindByID(ctx, id)
	if errors.Is(err, identityDomain.ErrUserNotFound) {
		user, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[id] = user
	return user, nil
}

func eventStatus(status domain.MeetingStatus) ics.ObjectStatus {
	switch status {
	case domain.MeetingCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}

func participationStatus(status domain.InvitationStatus) ics.ParticipationStatus {
	switch status {
	case domain.InvitationAccepted:
		return ics.ParticipationStatusAccepted
	case domain.InvitationRejected:
		return ics.ParticipationStatusDeclined
	default:
		return ics.ParticipationStatusNeedsAction
	}
}

func participationRole(role domain.Role) ics.ParticipationRole {
	if role == domain.RoleOrganizer {
		return ics.ParticipationRoleChair
	}
	return ics.ParticipationRoleReqParticipant
}

// DefaultWindow is how far back exports reach by default.
const DefaultWindow = 90 * 24 * time.Hour

// Since keeps the meetings that end after cutoff.
func Since(meetings []*domain.Meeting, cutoff time.Time) []*domain.Meeting {
	kept := make([]*domain.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.Period().End.After(cutoff) {
			kept = append(kept, m)
		}
	}
	return kept
}
