package query

import (
	"fmt"
	"strconv"
	"time"
)

// Validation error kinds surfaced to API clients alongside the
// offending field. Callers display these to end users, so a day out of
// range, a month out of range and a generally malformed value must stay
// distinguishable.
const (
	KindFormat     = "generic-format"
	KindMonthRange = "month-range"
	KindDayRange   = "day-range"
	KindRange      = "out-of-range"
)

// ValidationError reports malformed or out-of-range filter input.
type ValidationError struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Kind)
}

// Window is the universal filter applied to every aggregation query.
// Nil fields leave the corresponding bound open.
type Window struct {
	Start    *time.Time
	End      *time.Time
	OwnerID  *uint
	EntityID *uint
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// Validate rejects windows whose bounds are inverted. Inverted bounds
// are an input error, never silently swapped.
func (w Window) Validate() error {
	if w.Start != nil && w.End != nil && w.Start.After(*w.End) {
		return &ValidationError{
			Field:   "start_date",
			Kind:    KindRange,
			Message: "start_date must not be after end_date",
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value for the named field. The date is
// validated piecewise instead of through time.Parse so the error kind
// can tell a bad day apart from a bad month.
func ParseDate(field, s string) (time.Time, error) {
	if len(s) != len(dateLayout) || s[4] != '-' || s[7] != '-' {
		return time.Time{}, &ValidationError{
			Field:   field,
			Kind:    KindFormat,
			Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", s),
		}
	}

	year, errY := strconv.Atoi(s[0:4])
	month, errM := strconv.Atoi(s[5:7])
	day, errD := strconv.Atoi(s[8:10])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, &ValidationError{
			Field:   field,
			Kind:    KindFormat,
			Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", s),
		}
	}

	if month < 1 || month > 12 {
		return time.Time{}, &ValidationError{
			Field:   field,
			Kind:    KindMonthRange,
			Message: fmt.Sprintf("month %02d is out of range", month),
		}
	}
	if day < 1 || day > daysIn(year, month) {
		return time.Time{}, &ValidationError{
			Field:   field,
			Kind:    KindDayRange,
			Message: fmt.Sprintf("day %02d is out of range for %04d-%02d", day, year, month),
		}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// daysIn returns the number of days in the given month; day zero of the
// following month is the last day of this one.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
