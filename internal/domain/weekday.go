package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the week as configured for the budget bar.
type Weekday string

// The seven weekday values.
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists every Weekday starting from Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday matches s against the weekday names case-insensitively,
// ignoring surrounding whitespace.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// String returns the lower-case weekday name.
func (d Weekday) String() string {
	return string(d)
}

// TimeWeekday converts to the standard library representation.
func (d Weekday) TimeWeekday() time.Weekday {
	switch d {
	case Sunday:
		return time.Sunday
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Monday
	}
}

// WeekStart returns midnight UTC of the most recent d on or before t.
func (d Weekday) WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) - int(d.TimeWeekday()) + 7) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
