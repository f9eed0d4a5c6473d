package sale

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("sale member ID cannot be empty")
	ErrEmptySaleDate    = errors.New("sale date cannot be empty")
	ErrNonPositiveCount = errors.New("class count must be positive")
	ErrNegativePrice    = errors.New("unit price cannot be negative")
)

// Sale is one purchased session package. Amount equals ClassCount*UnitPrice at
// creation time but the two are editable independently afterwards; no
// recomputation is enforced.
type Sale struct {
	ID         string
	SaleDate   string // YYYY-MM-DD
	MemberID   string
	MemberName string
	ClassCount int
	UnitPrice  int
	Amount     int
	PaidAmount int
}

// NewSale builds a Sale with the amount derived from count and price.
// PRE: classCount > 0, unitPrice >= 0
// POST: Amount == classCount * unitPrice, PaidAmount defaults to Amount
func NewSale(id, saleDate, memberID, memberName string, classCount, unitPrice int) Sale {
	return Sale{
		ID:         id,
		SaleDate:   saleDate,
		MemberID:   memberID,
		MemberName: memberName,
		ClassCount: classCount,
		UnitPrice:  unitPrice,
		Amount:     classCount * unitPrice,
		PaidAmount: classCount * unitPrice,
	}
}

// Validate checks if the Sale has valid data.
// PRE: Sale struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Sale) Validate() error {
	if strings.TrimSpace(s.MemberID) == "" {
		return ErrEmptyMemberID
	}
	if strings.TrimSpace(s.SaleDate) == "" {
		return ErrEmptySaleDate
	}
	if s.ClassCount <= 0 {
		return ErrNonPositiveCount
	}
	if s.UnitPrice < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Outstanding returns the unpaid portion of the sale.
func (s *Sale) Outstanding() int {
	return s.Amount - s.PaidAmount
}
