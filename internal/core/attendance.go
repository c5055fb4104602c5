package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// clockDay is the fixed reference day clock times are parsed on.
var clockDay = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ComputeHours returns checkOut - checkIn in hours. A checkOut before
// checkIn yields a negative value; it is never wrapped to the next day.
func ComputeHours(checkIn, checkOut time.Time) float64 {
	return checkOut.Sub(checkIn).Hours()
}

// ParseClock parses "HH:MM" or "HH:MM:SS" on a fixed reference day.
func ParseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return clockDay.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second), nil
		}
	}
	return time.Time{}, newValidationError("time", "must be HH:MM or HH:MM:SS, got %q", s)
}

// ── Types ─────────────────────────────────────────────────────────────────────

// TimesResult is the outcome of RecordTimes.
type TimesResult struct {
	Record *AttendanceRecord `json:"record"`
	// NeedsReview is set when check-out precedes check-in.
	NeedsReview bool `json:"needs_review"`
}

// AttendanceDay lists one day's attendance with counts.
type AttendanceDay struct {
	Date            string             `json:"date"`
	Records         []AttendanceRecord `json:"records"`
	Present         int                `json:"present"`
	Absent          int                `json:"absent"`
	ActiveEmployees int                `json:"active_employees"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// AttendanceService records daily attendance per employee.
type AttendanceService interface {
	// Mark sets the employee's status for date, creating the row if needed.
	Mark(ctx context.Context, employeeID, date string, status AttendanceStatus) (*AttendanceRecord, error)

	// RecordTimes stores check-in/check-out for date and recomputes
	// total_hours. Hours stay 0 unless both times are set.
	RecordTimes(ctx context.Context, employeeID, date, checkIn, checkOut string) (*TimesResult, error)

	// Day returns all attendance rows for date.
	Day(ctx context.Context, date string) (*AttendanceDay, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type attendanceService struct {
	store Store
}

// NewAttendanceService constructs an AttendanceService backed by store.
func NewAttendanceService(store Store) AttendanceService {
	return &attendanceService{store: store}
}

func (s *attendanceService) Mark(ctx context.Context, employeeID, date string, status AttendanceStatus) (*AttendanceRecord, error) {
	if status != AttendancePresent && status != AttendanceAbsent {
		return nil, newValidationError("status", "unknown status %q", status)
	}
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	var rec *AttendanceRecord
	err = s.store.InTx(ctx, func(tx Store) error {
		rec, err = s.load(ctx, tx, employeeID, date)
		if err != nil {
			return err
		}
		rec.Status = status
		return tx.UpsertAttendance(ctx, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return rec, nil
}

func (s *attendanceService) RecordTimes(ctx context.Context, employeeID, date, checkIn, checkOut string) (*TimesResult, error) {
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}
	checkIn, checkOut = strings.TrimSpace(checkIn), strings.TrimSpace(checkOut)

	var hours float64
	if checkIn != "" && checkOut != "" {
		in, err := ParseClock(checkIn)
		if err != nil {
			return nil, err
		}
		out, err := ParseClock(checkOut)
		if err != nil {
			return nil, err
		}
		hours = ComputeHours(in, out)
	} else {
		for _, t := range []string{checkIn, checkOut} {
			if t == "" {
				continue
			}
			if _, err := ParseClock(t); err != nil {
				return nil, err
			}
		}
	}

	var rec *AttendanceRecord
	err = s.store.InTx(ctx, func(tx Store) error {
		rec, err = s.load(ctx, tx, employeeID, date)
		if err != nil {
			return err
		}
		if rec.Status == "" {
			rec.Status = AttendancePresent
		}
		rec.CheckInTime = checkIn
		rec.CheckOutTime = checkOut
		rec.TotalHours = hours
		return tx.UpsertAttendance(ctx, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance times: %w", err)
	}
	return &TimesResult{Record: rec, NeedsReview: hours < 0}, nil
}

func (s *attendanceService) Day(ctx context.Context, date string) (*AttendanceDay, error) {
	date, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.ListAttendance(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	active, err := s.store.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	day := &AttendanceDay{Date: date, Records: recs, ActiveEmployees: len(active)}
	if day.Records == nil {
		day.Records = []AttendanceRecord{}
	}
	for _, r := range recs {
		switch r.Status {
		case AttendancePresent:
			day.Present++
		case AttendanceAbsent:
			day.Absent++
		}
	}
	return day, nil
}

// load returns the stored row or a new unsaved one for an existing employee.
func (s *attendanceService) load(ctx context.Context, tx Store, employeeID, date string) (*AttendanceRecord, error) {
	rec, err := tx.GetAttendance(ctx, employeeID, date)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	emp, err := tx.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &AttendanceRecord{
		ID:           newID(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Date:         date,
	}, nil
}
