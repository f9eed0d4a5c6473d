package weekly

import (
	"errors"
	"strings"
	"time"
)

// Status constants for weekly schedule templates.
const (
	StatusPlanned   = "planned"
	StatusConfirmed = "confirmed"
)

// Domain errors
var (
	ErrEmptyMemberID = errors.New("weekly entry member ID cannot be empty")
	ErrInvalidDay    = errors.New("day of week must be 0 (Sunday) through 6 (Saturday)")
	ErrEmptyTime     = errors.New("start and end time cannot be empty")
	ErrInvalidStatus = errors.New("status must be 'planned' or 'confirmed'")
)

// Entry is a weekly schedule template, not a dated occurrence. Confirmed
// entries feed the planned-monthly-sessions projection.
type Entry struct {
	ID         string
	DayOfWeek  int // 0=Sunday .. 6=Saturday
	StartTime  string
	EndTime    string
	MemberID   string
	MemberName string
	Status     string
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if e.DayOfWeek < 0 || e.DayOfWeek > 6 {
		return ErrInvalidDay
	}
	if strings.TrimSpace(e.StartTime) == "" || strings.TrimSpace(e.EndTime) == "" {
		return ErrEmptyTime
	}
	if e.Status != StatusPlanned && e.Status != StatusConfirmed {
		return ErrInvalidStatus
	}
	return nil
}

// IsConfirmed returns true if the entry counts toward the monthly projection.
func (e *Entry) IsConfirmed() bool {
	return e.Status == StatusConfirmed
}

// MonthlyOccurrences counts how many times this entry's weekday occurs in the
// given calendar month.
// PRE: month is 1..12
// POST: result is 4 or 5 for any real month
func (e *Entry) MonthlyOccurrences(year int, month time.Month) int {
	count := 0
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == month {
		if int(day.Weekday()) == e.DayOfWeek {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}
