package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/planify/internal/shared/domain"
	"github.com/google/uuid"
)

// AbsenceType classifies why a user is away.
type AbsenceType string

const (
	AbsenceVacation  AbsenceType = "VACATION"
	AbsenceSickLeave AbsenceType = "SICK_LEAVE"
	AbsencePermit    AbsenceType = "PERMIT"
)

// AbsenceTypes lists every accepted absence type.
var AbsenceTypes = []AbsenceType{AbsenceVacation, AbsenceSickLeave, AbsencePermit}

// ParseAbsenceType parses an absence type, ignoring case.
func ParseAbsenceType(value string) (AbsenceType, error) {
	normalized := AbsenceType(strings.ToUpper(strings.TrimSpace(value)))
	for _, t := range AbsenceTypes {
		if t == normalized {
			return t, nil
		}
	}
	if normalized == "" {
		return "", MissingField("type")
	}
	return "", NewRuleError(ErrInvalidFormat, "unknown absence type %q", value)
}

// Absence is a period during which a user cannot attend meetings.
type Absence struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	absenceType AbsenceType
	allDay      bool
	period      TimeRange
}

// NewAbsence creates an absence. All-day absences are widened to cover
// whole days.
func NewAbsence(userID uuid.UUID, absenceType AbsenceType, allDay bool, period TimeRange) *Absence {
	if allDay {
		period = AllDayRange(period.Start, period.End)
	}
	a := &Absence{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		absenceType:       absenceType,
		allDay:            allDay,
		period:            period,
	}
	a.AddDomainEvent(NewAbsenceCreated(a))
	return a
}

// RehydrateAbsence recreates an absence from persisted state.
func RehydrateAbsence(
	id uuid.UUID,
	userID uuid.UUID,
	absenceType AbsenceType,
	allDay bool,
	period TimeRange,
	createdAt, updatedAt time.Time,
) *Absence {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Absence{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(baseEntity),
		userID:            userID,
		absenceType:       absenceType,
		allDay:            allDay,
		period:            period,
	}
}

// Getters
func (a *Absence) UserID() uuid.UUID { return a.userID }
func (a *Absence) Type() AbsenceType { return a.absenceType }
func (a *Absence) IsAllDay() bool    { return a.allDay }
func (a *Absence) Period() TimeRange { return a.period }
func (a *Absence) Start() time.Time  { return a.period.Start }
func (a *Absence) End() time.Time    { return a.period.End }

// Delete records the removal of the absence.
func (a *Absence) Delete() {
	a.AddDomainEvent(NewAbsenceDeleted(a))
}
