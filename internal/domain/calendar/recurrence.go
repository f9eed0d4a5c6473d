package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Cadence constants for recurring schedules.
const (
	CadenceWeekly   = "weekly"
	CadenceBiWeekly = "bi-weekly"
)

// End condition type constants.
const (
	EndByOccurrences = "occurrences" // stop after N occurrences
	EndByDate        = "date"        // stop after a calendar date
	EndBySessions    = "sessions"    // N = member's remaining session balance
)

// Safety bounds for recurrence expansion. MaxOccurrences stops runaway loops
// from misconfigured input; MaxDaySpan bounds the raw day iteration so sparse
// day sets still terminate. Changing either changes observable behaviour
// (truncated vs. exhaustive series).
const (
	MaxOccurrences = 200
	MaxDaySpan     = 1000
)

// Recurrence errors
var (
	ErrInvalidCadence      = errors.New("cadence must be 'weekly' or 'bi-weekly'")
	ErrInvalidEndCondition = errors.New("end condition type must be 'occurrences', 'date', or 'sessions'")
)

// EndCondition describes when a recurring series stops.
type EndCondition struct {
	Type  string
	Count int    // occurrences / sessions
	Date  string // YYYY-MM-DD, date type only
}

// Recurrence is a recurring-schedule request ready for expansion.
type Recurrence struct {
	StartDate  string // YYYY-MM-DD, the anchor
	DaysOfWeek map[time.Weekday]bool
	Cadence    string
	End        EndCondition
}

// Validate checks the recurrence request.
// PRE: Recurrence struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Recurrence) Validate() error {
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return fmt.Errorf("invalid start date %q: %w", r.StartDate, err)
	}
	if r.Cadence != CadenceWeekly && r.Cadence != CadenceBiWeekly {
		return ErrInvalidCadence
	}
	switch r.End.Type {
	case EndByOccurrences, EndBySessions:
		if r.End.Count <= 0 {
			return fmt.Errorf("end condition %q needs a positive count", r.End.Type)
		}
	case EndByDate:
		if _, err := time.Parse("2006-01-02", r.End.Date); err != nil {
			return fmt.Errorf("invalid end date %q: %w", r.End.Date, err)
		}
	default:
		return ErrInvalidEndCondition
	}
	return nil
}

// Expand produces the ordered concrete dates satisfying the pattern.
//
// Iterates day by day from the anchor. A day qualifies when its weekday is in
// DaysOfWeek and, for bi-weekly cadence, when it falls in the same parity week
// as the anchor (weekDiff = floor(days since anchor / 7), even weeks only).
// Expansion stops at the resolved occurrence target, past the end date, or at
// the MaxOccurrences/MaxDaySpan safety bounds, whichever comes first.
// PRE: Validate() returned nil
// POST: result dates are ascending; an empty day set yields an empty result
func (r *Recurrence) Expand() []string {
	anchor, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil
	}
	if len(r.DaysOfWeek) == 0 {
		return nil
	}

	target := MaxOccurrences
	if r.End.Type == EndByOccurrences || r.End.Type == EndBySessions {
		if r.End.Count < target {
			target = r.End.Count
		}
	}

	var endLimit time.Time
	if r.End.Type == EndByDate {
		endLimit, err = time.Parse("2006-01-02", r.End.Date)
		if err != nil {
			return nil
		}
	}

	var dates []string
	for offset := 0; offset < MaxDaySpan; offset++ {
		day := anchor.AddDate(0, 0, offset)
		if r.End.Type == EndByDate && day.After(endLimit) {
			break
		}
		if !r.DaysOfWeek[day.Weekday()] {
			continue
		}
		if r.Cadence == CadenceBiWeekly && (offset/7)%2 != 0 {
			continue
		}
		dates = append(dates, day.Format("2006-01-02"))
		if len(dates) >= target {
			break
		}
	}
	return dates
}
