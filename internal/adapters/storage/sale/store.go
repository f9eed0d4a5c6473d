package sale

import (
	"context"

	domain "gymdesk/internal/domain/sale"
)

// Store persists Sale state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Sale, error)
	Save(ctx context.Context, value domain.Sale) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Sale, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Sale, error)
	DeleteByMemberID(ctx context.Context, memberID string) (int, error)
	CountByDatePrefix(ctx context.Context, saleDate string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	FromDate string // inclusive YYYY-MM-DD
	ToDate   string // inclusive YYYY-MM-DD
}
