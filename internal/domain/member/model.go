package member

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Manual forecast override values. Empty string means no override.
const (
	ForecastNone       = ""
	ForecastDormant    = "manual_dormant"
	ForecastReregister = "manual_reregister"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("member name cannot be empty")
	ErrNegativeSessions = errors.New("session counters cannot be negative")
	ErrInvalidForecast  = errors.New("forecast status must be 'manual_dormant', 'manual_reregister', or empty")
	ErrSessionUnderflow = errors.New("used sessions cannot drop below zero")
)

// Member is a tracked gym member. TotalSessions and UnitPrice always mirror the
// most recent package sale; UsedSessions is a cumulative counter across the
// member's entire history, not per-package.
type Member struct {
	ID               string
	Name             string
	Phone            string
	TotalSessions    int
	UsedSessions     int
	UnitPrice        int
	RegistrationDate string // YYYY-MM-DD
	Birthday         string // YYYY-MM-DD, optional
	ForecastStatus   string // "", manual_dormant, manual_reregister
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if m.TotalSessions < 0 || m.UsedSessions < 0 {
		return ErrNegativeSessions
	}
	if m.ForecastStatus != ForecastNone && m.ForecastStatus != ForecastDormant && m.ForecastStatus != ForecastReregister {
		return ErrInvalidForecast
	}
	return nil
}

// RecordPackage updates the most-recent-package fields after a new sale.
// PRE: classCount >= 0, unitPrice >= 0
// POST: TotalSessions and UnitPrice reflect the new package
func (m *Member) RecordPackage(classCount, unitPrice int) {
	m.TotalSessions = classCount
	m.UnitPrice = unitPrice
}

// ConsumeSessions increments the cumulative used-session counter.
// PRE: count > 0
// POST: UsedSessions increased by count
func (m *Member) ConsumeSessions(count int) {
	m.UsedSessions += count
}

// RefundSessions decrements the cumulative used-session counter.
// PRE: count > 0
// POST: UsedSessions decreased by count, never below zero
func (m *Member) RefundSessions(count int) error {
	if m.UsedSessions-count < 0 {
		return ErrSessionUnderflow
	}
	m.UsedSessions -= count
	return nil
}

// MatchesName reports whether name matches this member ignoring case and
// surrounding whitespace. Used by the attendance-sheet import to resolve
// scanned names against the registry.
func (m *Member) MatchesName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name))
}
