package sale

import (
	"errors"
	"sort"
)

// ErrNoRemainingSessions signals that every purchased package is exhausted.
// Callers must block session creation when they see this error.
var ErrNoRemainingSessions = errors.New("member has no remaining sessions")

// Allocated pairs a purchase with the number of sessions attributed to it.
type Allocated struct {
	Sale
	UsedCount int
}

// Remaining returns the unconsumed sessions on this package.
func (a Allocated) Remaining() int {
	return a.ClassCount - a.UsedCount
}

// Exhausted returns true when every session on this package is consumed.
func (a Allocated) Exhausted() bool {
	return a.UsedCount >= a.ClassCount
}

// byDate returns purchases sorted ascending by sale date. The sort is stable so
// same-day purchases keep their insertion order.
func byDate(sales []Sale) []Sale {
	sorted := make([]Sale, len(sales))
	copy(sorted, sales)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SaleDate < sorted[j].SaleDate
	})
	return sorted
}

// Allocate attributes a member's cumulative used-session count across their
// purchase history, oldest purchase first.
//
// Each purchase absorbs min(its class count, whatever is still unattributed).
// Negative or over-allocated inputs are tolerated: the attribution simply
// clamps, so sum(UsedCount) == min(usedSessions, sum(ClassCount)).
// PRE: sales all belong to one member
// POST: result is ordered by sale date; no UsedCount exceeds its ClassCount
func Allocate(sales []Sale, usedSessions int) []Allocated {
	remaining := usedSessions
	if remaining < 0 {
		remaining = 0
	}

	result := make([]Allocated, 0, len(sales))
	for _, s := range byDate(sales) {
		used := s.ClassCount
		if remaining < used {
			used = remaining
		}
		remaining -= used
		result = append(result, Allocated{Sale: s, UsedCount: used})
	}
	return result
}

// ActivePurchase returns the purchase new sessions should be priced against:
// the oldest purchase that still has unused capacity.
// PRE: sales all belong to one member
// POST: returns ErrNoRemainingSessions when every package is exhausted
func ActivePurchase(sales []Sale, usedSessions int) (Sale, error) {
	toAccountFor := usedSessions
	if toAccountFor < 0 {
		toAccountFor = 0
	}

	for _, s := range byDate(sales) {
		if toAccountFor < s.ClassCount {
			return s, nil
		}
		toAccountFor -= s.ClassCount
	}
	return Sale{}, ErrNoRemainingSessions
}

// FindActiveUnitPrice returns the unit price a newly logged session should
// carry, drawn from the currently active purchase.
// PRE: sales all belong to one member
// POST: returns ErrNoRemainingSessions when no package has remaining capacity
func FindActiveUnitPrice(sales []Sale, usedSessions int) (int, error) {
	active, err := ActivePurchase(sales, usedSessions)
	if err != nil {
		return 0, err
	}
	return active.UnitPrice, nil
}

// TotalRemaining returns the member's overall unconsumed session balance.
// POST: never negative
func TotalRemaining(sales []Sale, usedSessions int) int {
	total := 0
	for _, s := range sales {
		total += s.ClassCount
	}
	remaining := total - usedSessions
	if remaining < 0 {
		return 0
	}
	return remaining
}
