package services

import (
	"strings"

	"github.com/felixgeelhaar/planify/internal/scheduling/domain"
)

// AbsenceWindowInput is the raw date and time input of an absence.
type AbsenceWindowInput struct {
	AllDay   bool
	FromDate string
	ToDate   string
	FromTime string
	ToTime   string
}

// RequireFields reports the first missing field. Times are optional only
// for all-day absences.
func (in AbsenceWindowInput) RequireFields() error {
	required := []struct{ name, value string }{
		{"fromDate", in.FromDate},
		{"toDate", in.ToDate},
	}
	if !in.AllDay {
		required = append(required,
			struct{ name, value string }{"fromTime", in.FromTime},
			struct{ name, value string }{"toTime", in.ToTime},
		)
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return domain.MissingField(f.name)
		}
	}
	return nil
}

// AbsenceWindow parses and validates an absence period.
func (v *TimeRangeValidator) AbsenceWindow(in AbsenceWindowInput, schedule *domain.WorkSchedule) (domain.TimeRange, error) {
	if err := in.RequireFields(); err != nil {
		return domain.TimeRange{}, err
	}
	fromDate, err := domain.ParseDate("fromDate", strings.TrimSpace(in.FromDate))
	if err != nil {
		return domain.TimeRange{}, err
	}
	toDate, err := domain.ParseDate("toDate", strings.TrimSpace(in.ToDate))
	if err != nil {
		return domain.TimeRange{}, err
	}
	if err := v.ValidateCalendarDate("fromDate", fromDate, PastDateAbsence); err != nil {
		return domain.TimeRange{}, err
	}
	if err := v.ValidateCalendarDate("toDate", toDate, PastDateAbsence); err != nil {
		return domain.TimeRange{}, err
	}
	if toDate.Before(fromDate) {
		return domain.TimeRange{}, domain.NewRuleError(domain.ErrInvalidDate, "toDate %s is before fromDate %s",
			toDate.Format(domain.DateLayout), fromDate.Format(domain.DateLayout))
	}
	if in.AllDay {
		return domain.AllDayRange(fromDate, toDate), nil
	}

	fromTime, err := domain.ParseTimeOfDay("fromTime", strings.TrimSpace(in.FromTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	toTime, err := domain.ParseTimeOfDay("toTime", strings.TrimSpace(in.ToTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	window := domain.NewTimeRange(fromTime.On(fromDate), toTime.On(toDate))
	if err := v.ValidateTimeOrder(window); err != nil {
		return domain.TimeRange{}, err
	}
	if err := v.ValidateAgainstSchedule(window, schedule, domain.AbsenceScheduleFit); err != nil {
		return domain.TimeRange{}, err
	}
	return window, nil
}

// MeetingWindowInput is the raw date and time input of a meeting.
type MeetingWindowInput struct {
	AllDay   bool
	Date     string
	FromTime string
	ToTime   string
}

// RequireFields reports the first missing field.
func (in MeetingWindowInput) RequireFields() error {
	if strings.TrimSpace(in.Date) == "" {
		return domain.MissingField("date")
	}
	if in.AllDay {
		return nil
	}
	if strings.TrimSpace(in.FromTime) == "" {
		return domain.MissingField("fromTime")
	}
	if strings.TrimSpace(in.ToTime) == "" {
		return domain.MissingField("toTime")
	}
	return nil
}

// MeetingWindow parses and validates a meeting slot. All-day meetings skip
// the work schedule check.
func (v *TimeRangeValidator) MeetingWindow(in MeetingWindowInput, schedule *domain.WorkSchedule) (domain.TimeRange, error) {
	if err := in.RequireFields(); err != nil {
		return domain.TimeRange{}, err
	}
	date, err := domain.ParseDate("date", strings.TrimSpace(in.Date))
	if err != nil {
		return domain.TimeRange{}, err
	}
	if err := v.ValidateCalendarDate("date", date, PastDateMeeting); err != nil {
		return domain.TimeRange{}, err
	}
	if in.AllDay {
		return domain.AllDayRange(date, date), nil
	}

	fromTime, err := domain.ParseTimeOfDay("fromTime", strings.TrimSpace(in.FromTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	toTime, err := domain.ParseTimeOfDay("toTime", strings.TrimSpace(in.ToTime))
	if err != nil {
		return domain.TimeRange{}, err
	}
	window := domain.NewTimeRange(fromTime.On(date), toTime.On(date))
	if err := v.ValidateTimeOrder(window); err != nil {
		return domain.TimeRange{}, err
	}
	if err := v.ValidateAgainstSchedule(window, schedule, domain.MeetingScheduleFit); err != nil {
		return domain.TimeRange{}, err
	}
	return window, nil
}
