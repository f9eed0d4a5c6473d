// Package dateutil normalizes the date strings arriving from the external
// store and provides the calendar-range math the projections need.
package dateutil

import (
	"strings"
	"time"
)

// DateLayout is the canonical date format used across the application.
const DateLayout = "2006-01-02"

// Normalize reduces a date string to YYYY-MM-DD. ISO datetime strings are
// truncated to their date portion. Invalid or unparseable input normalizes to
// the empty string; callers tolerate it rather than erroring.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// ISO datetimes ("2024-03-04T10:00:00Z", "2024-03-04 10:00:00") truncate
	// to the date portion.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ""
	}
	return s
}

// Parse converts a normalized date string into a time.Time in UTC.
// POST: ok is false when the input does not normalize to a date
func Parse(raw string) (time.Time, bool) {
	s := Normalize(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Format renders a time as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfWeek returns the Sunday beginning the week containing t.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// EndOfWeek returns the Saturday ending the week containing t.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

// StartOfMonth returns the first day of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of the month containing t.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// MonthKey returns the YYYY-MM grouping key for a date string, or "" for
// unparseable input.
func MonthKey(raw string) string {
	s := Normalize(raw)
	if s == "" {
		return ""
	}
	return s[:7]
}
