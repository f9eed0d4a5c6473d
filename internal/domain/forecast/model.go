package forecast

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyMemberName  = errors.New("forecast entry member name cannot be empty")
	ErrEmptyDate        = errors.New("forecast date cannot be empty")
	ErrNonPositiveCount = errors.New("class count must be positive")
)

// Entry is a free-standing projected-revenue line. It is not tied to a real
// sale until the projected re-registration is realized.
type Entry struct {
	ID           string
	ForecastDate string // YYYY-MM-DD
	MemberName   string
	ClassCount   int
	UnitPrice    int
	Amount       int
}

// NewEntry builds an Entry with the amount derived from count and price.
// PRE: classCount > 0, unitPrice >= 0
// POST: Amount == classCount * unitPrice
func NewEntry(id, forecastDate, memberName string, classCount, unitPrice int) Entry {
	return Entry{
		ID:           id,
		ForecastDate: forecastDate,
		MemberName:   memberName,
		ClassCount:   classCount,
		UnitPrice:    unitPrice,
		Amount:       classCount * unitPrice,
	}
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.MemberName) == "" {
		return ErrEmptyMemberName
	}
	if strings.TrimSpace(e.ForecastDate) == "" {
		return ErrEmptyDate
	}
	if e.ClassCount <= 0 {
		return ErrNonPositiveCount
	}
	return nil
}
