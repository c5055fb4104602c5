package core_test

import (
	"testing"

	"fieldops/internal/core"
)

func TestParseMonth(t *testing.T) {
	for _, ok := range []string{"2026-01", "2024-12", " 2026-03 "} {
		if _, err := core.ParseMonth(ok); err != nil {
			t.Errorf("ParseMonth(%q) failed: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "2026-13", "2026-1", "26-01", "2026/01", "2026-01-01"} {
		if _, err := core.ParseMonth(bad); err == nil {
			t.Errorf("ParseMonth(%q) expected error", bad)
		}
	}
}

func TestMonthRange(t *testing.T) {
	cases := map[core.Month]core.DateRange{
		"2026-02": {From: "2026-02-01", To: "2026-02-28"},
		"2024-02": {From: "2024-02-01", To: "2024-02-29"},
		"2026-12": {From: "2026-12-01", To: "2026-12-31"},
	}
	for m, want := range cases {
		if got := m.Range(); got != want {
			t.Errorf("%s.Range() = %+v, want %+v", m, got, want)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := core.Month("2026-03").Range()
	cases := map[string]bool{
		"2026-03-01":          true,
		"2026-03-31":          true,
		"2026-03-15T10:00:00": true,
		"2026-02-28":          false,
		"2026-04-01":          false,
		"":                    false,
	}
	for day, want := range cases {
		if got := r.Contains(day); got != want {
			t.Errorf("Contains(%q) = %v, want %v", day, got, want)
		}
	}
}
