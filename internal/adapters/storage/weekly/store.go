package weekly

import (
	"context"

	domain "gymdesk/internal/domain/weekly"
)

// Store persists weekly schedule template state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, value domain.Entry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Entry, error)
	DeleteByMemberID(ctx context.Context, memberID string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status   string
	MemberID string
}
