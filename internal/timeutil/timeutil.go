package timeutil

import (
	"fmt"
	"time"
)

// DefaultZone is the business timezone used when none is configured.
const DefaultZone = "Asia/Kolkata"

// Common layouts
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// LoadLocation resolves a timezone name. Asia/Kolkata falls back to a fixed
// UTC+5:30 zone when the host has no tzdata.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultZone {
			return time.FixedZone("IST", 5*60*60+30*60), nil
		}
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Clock supplies the current instant. Services take a Clock so "today" is
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns T.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Today returns the calendar day of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
