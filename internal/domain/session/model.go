package session

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("session member ID cannot be empty")
	ErrEmptyDate        = errors.New("session date cannot be empty")
	ErrNonPositiveCount = errors.New("class count must be positive")
)

// Session is one consumed training unit. ClassCount is normally 1 but a single
// record can batch several sessions logged at once.
type Session struct {
	ID          string
	SessionDate string // YYYY-MM-DD
	MemberID    string
	MemberName  string
	ClassCount  int
	UnitPrice   int
	// CompletionSourceID is the calendar event that produced this session when
	// completion originated from the schedule. Always populated for
	// schedule-driven sessions; empty for manually logged ones.
	CompletionSourceID string
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if strings.TrimSpace(s.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(s.SessionDate) == "" {
		return ErrEmptyDate
	}
	if s.ClassCount <= 0 {
		return ErrNonPositiveCount
	}
	return nil
}

// FromSchedule returns true when this session was created by completing a
// scheduled workout rather than logged manually.
func (s *Session) FromSchedule() bool {
	return s.CompletionSourceID != ""
}
