package member

import (
	"context"

	domain "gymdesk/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	FindByName(ctx context.Context, name string) (domain.Member, error)
	CountByDatePrefix(ctx context.Context, registrationDate string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit          int
	Offset         int
	Search         string // matches name or phone
	ForecastStatus string
}
