package calendar

import (
	"context"

	domain "gymdesk/internal/domain/calendar"
)

// Store persists calendar Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	ListByRecurrenceID(ctx context.Context, recurrenceID string) ([]domain.Event, error)
	CountByDatePrefix(ctx context.Context, date string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	FromDate string // inclusive YYYY-MM-DD
	ToDate   string // inclusive YYYY-MM-DD
	Type     string
	MemberID string
}
