package core

import (
	"strings"
	"time"

	"fieldops/internal/timeutil"
)

// Month is a calendar month in YYYY-MM form.
type Month string

// ParseMonth validates s and returns it as a Month.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(timeutil.MonthLayout, s)
	if err != nil || t.Format(timeutil.MonthLayout) != s {
		return "", newValidationError("month", "must be YYYY-MM, got %q", s)
	}
	return Month(s), nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format(timeutil.MonthLayout))
}

// Range returns the first and last calendar day of the month.
func (m Month) Range() DateRange {
	t, err := time.Parse(timeutil.MonthLayout, string(m))
	if err != nil {
		return DateRange{}
	}
	last := t.AddDate(0, 1, -1)
	return DateRange{From: t.Format(timeutil.DateLayout), To: last.Format(timeutil.DateLayout)}
}

// DateRange is an inclusive range of YYYY-MM-DD days. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

// Contains reports whether day falls inside r. YYYY-MM-DD strings order
// lexicographically, so plain comparison is enough.
func (r DateRange) Contains(day string) bool {
	if day == "" {
		return false
	}
	if len(day) > len(timeutil.DateLayout) {
		day = day[:len(timeutil.DateLayout)]
	}
	if r.From != "" && day < r.From {
		return false
	}
	if r.To != "" && day > r.To {
		return false
	}
	return true
}

// ParseDate validates a YYYY-MM-DD day.
func ParseDate(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(timeutil.DateLayout, s); err != nil {
		return "", newValidationError(field, "must be YYYY-MM-DD, got %q", s)
	}
	return s, nil
}
