package forecast

import (
	"context"

	domain "gymdesk/internal/domain/forecast"
)

// Store persists projected-revenue forecast entries.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, value domain.Entry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Entry, error)
	CountByDatePrefix(ctx context.Context, forecastDate string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	FromDate string // inclusive YYYY-MM-DD
	ToDate   string // inclusive YYYY-MM-DD
}
