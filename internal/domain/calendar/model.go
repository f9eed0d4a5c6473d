package calendar

import (
	"errors"
	"strings"
)

// Event type constants.
const (
	TypeNewMember    = "new_member"
	TypeSale         = "sale"
	TypeRefund       = "refund"
	TypeConsultation = "consultation"
	TypeWorkout      = "workout"
)

// Workout status constants. Only workout events carry a status.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Max length constants.
const (
	MaxTitleLength = 200
)

// Domain errors
var (
	ErrEmptyDate        = errors.New("event date cannot be empty")
	ErrInvalidType      = errors.New("event type must be new_member, sale, refund, consultation, or workout")
	ErrInvalidStatus    = errors.New("workout status must be scheduled, completed, or cancelled")
	ErrStatusNotWorkout = errors.New("only workout events carry a status")
	ErrNotScheduled     = errors.New("only a scheduled workout can be completed")
	ErrNotCompleted     = errors.New("workout is not completed")
)

// Event is a dated calendar entry. Workout events are bookable time slots with
// a status lifecycle; the other types are ledger markers. RecurrenceID groups
// every occurrence generated from one recurring-schedule request so a series
// can be edited or deleted in bulk.
type Event struct {
	ID           string
	Date         string // YYYY-MM-DD
	Type         string
	Title        string
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	MemberID     string
	RecurrenceID string
	Status       string // workout only
}

func validType(t string) bool {
	switch t {
	case TypeNewMember, TypeSale, TypeRefund, TypeConsultation, TypeWorkout:
		return true
	}
	return false
}

// Validate checks the event's invariants.
// PRE: Event struct is populated
// POST: Returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Date) == "" {
		return ErrEmptyDate
	}
	if !validType(e.Type) {
		return ErrInvalidType
	}
	if len(e.Title) > MaxTitleLength {
		return errors.New("event title cannot exceed 200 characters")
	}
	if e.Type == TypeWorkout {
		if e.Status != StatusScheduled && e.Status != StatusCompleted && e.Status != StatusCancelled {
			return ErrInvalidStatus
		}
	} else if e.Status != "" {
		return ErrStatusNotWorkout
	}
	return nil
}

// IsWorkout returns true for bookable workout events.
func (e *Event) IsWorkout() bool {
	return e.Type == TypeWorkout
}

// IsBooked returns true if this event occupies its time slot. Cancelled
// workouts free the slot; completed and scheduled ones keep it.
func (e *Event) IsBooked() bool {
	if !e.IsWorkout() {
		return false
	}
	return e.Status != StatusCancelled
}

// Complete transitions a scheduled workout to completed.
// PRE: event is a scheduled workout
// POST: Status is completed
func (e *Event) Complete() error {
	if !e.IsWorkout() || e.Status != StatusScheduled {
		return ErrNotScheduled
	}
	e.Status = StatusCompleted
	return nil
}

// Uncomplete reverts a completed workout back to scheduled.
// PRE: event is a completed workout
// POST: Status is scheduled
func (e *Event) Uncomplete() error {
	if !e.IsWorkout() || e.Status != StatusCompleted {
		return ErrNotCompleted
	}
	e.Status = StatusScheduled
	return nil
}

// InSeries returns true if the event belongs to the given recurring series.
func (e *Event) InSeries(recurrenceID string) bool {
	return recurrenceID != "" && e.RecurrenceID == recurrenceID
}
