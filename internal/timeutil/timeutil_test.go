package timeutil_test

import (
	"testing"
	"time"

	"fieldops/internal/timeutil"
)

func TestLoadLocation_Default(t *testing.T) {
	loc, err := timeutil.LoadLocation("")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 5*60*60+30*60 {
		t.Errorf("offset: want 19800, got %d", offset)
	}
}

func TestLoadLocation_Unknown(t *testing.T) {
	if _, err := timeutil.LoadLocation("Nowhere/Atlantis"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestToday_UsesClockLocation(t *testing.T) {
	loc, _ := timeutil.LoadLocation("")
	// 20:00 UTC on Jan 31 is already Feb 1 in India.
	instant := time.Date(2026, 1, 31, 20, 0, 0, 0, time.UTC).In(loc)
	if got := timeutil.Today(timeutil.FixedClock{T: instant}); got != "2026-02-01" {
		t.Errorf("Today: want 2026-02-01, got %s", got)
	}
}
