package calendar

import (
	"errors"
	"fmt"
	"time"
)

// SlotMinutes is the booking grid granularity.
const SlotMinutes = 30

// ErrInvalidClock marks a booking time that is not an HH:MM wall-clock value.
var ErrInvalidClock = errors.New("time must be HH:MM")

// MaxConflictPreview bounds how many conflicts a recurring check reports. The
// caller only shows a preview, so the walk stops early once the bound is hit.
const MaxConflictPreview = 5

// BookingIndex maps YYYY-MM-DD dates to the set of occupied HH:MM slot labels.
type BookingIndex map[string]map[string]bool

// slotLabel formats minutes-since-midnight as an HH:MM slot label.
func slotLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parseClock returns minutes since midnight for an HH:MM string. "24:00" is
// accepted as the end-of-day boundary so late intervals stay well-formed.
func parseClock(clock string) (int, bool) {
	if clock == "24:00" {
		return 24 * 60, true
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// NormalizeInterval validates a booking interval before it reaches the grid.
// Start must be HH:MM. An empty end defaults to one slot after start; a
// supplied end must parse and fall after start. The interval is clamped at
// end of day.
// PRE: start is the intended HH:MM class start
// POST: on success, ExpandSlots(start, end) is non-empty
func NormalizeInterval(start, end string) (string, string, error) {
	startMin, ok := parseClock(start)
	if !ok || startMin >= 24*60 {
		return "", "", fmt.Errorf("start %q: %w", start, ErrInvalidClock)
	}
	if end == "" {
		endMin := startMin + SlotMinutes
		if endMin > 24*60 {
			endMin = 24 * 60
		}
		return start, slotLabel(endMin), nil
	}
	endMin, ok := parseClock(end)
	if !ok || endMin <= startMin {
		return "", "", fmt.Errorf("end %q: %w", end, ErrInvalidClock)
	}
	return start, end, nil
}

// ExpandSlots expands a [start, end) interval into 30-minute slot labels.
// A non-multiple-of-30 duration still expands by stepping 30 minutes from
// start until the end is reached.
// PRE: start and end are HH:MM strings
// POST: returns nil for unparseable or inverted intervals
func ExpandSlots(start, end string) []string {
	startMin, ok := parseClock(start)
	if !ok {
		return nil
	}
	endMin, ok := parseClock(end)
	if !ok || endMin <= startMin {
		return nil
	}

	var slots []string
	for m := startMin; m < endMin; m += SlotMinutes {
		slots = append(slots, slotLabel(m))
	}
	return slots
}

// BuildBookingIndex expands every booked event into per-date slot sets.
// Conflicts are member-agnostic: the trainer cannot be double-booked, so the
// grid spans the whole schedule.
// PRE: events may contain any type; non-booked events are ignored
// POST: index contains one entry per date with at least one occupied slot
func BuildBookingIndex(events []Event) BookingIndex {
	index := make(BookingIndex)
	for _, e := range events {
		if !e.IsBooked() {
			continue
		}
		slots := ExpandSlots(e.StartTime, e.EndTime)
		if len(slots) == 0 {
			continue
		}
		daySlots, ok := index[e.Date]
		if !ok {
			daySlots = make(map[string]bool)
			index[e.Date] = daySlots
		}
		for _, s := range slots {
			daySlots[s] = true
		}
	}
	return index
}

// CheckSingleConflict reports whether the date+time slot is already booked.
// The interval end is exclusive: a booking ending at 11:00 does not occupy
// the 11:00 slot.
func CheckSingleConflict(index BookingIndex, date, clock string) bool {
	return index[date][clock]
}

// Conflict identifies one colliding occurrence of a candidate booking.
type Conflict struct {
	Date string
	Time string
}

// String renders the conflict as "{date} {time}" for display.
func (c Conflict) String() string {
	return c.Date + " " + c.Time
}

// CheckRecurringConflicts checks each expanded occurrence's start-time slot
// against the index, collecting at most MaxConflictPreview conflicts before
// stopping early.
// PRE: dates are YYYY-MM-DD, clock is HH:MM
// POST: len(result) <= MaxConflictPreview
func CheckRecurringConflicts(index BookingIndex, dates []string, clock string) []Conflict {
	var conflicts []Conflict
	for _, d := range dates {
		if CheckSingleConflict(index, d, clock) {
			conflicts = append(conflicts, Conflict{Date: d, Time: clock})
			if len(conflicts) >= MaxConflictPreview {
				break
			}
		}
	}
	return conflicts
}
