package session

import (
	"context"

	domain "gymdesk/internal/domain/session"
)

// Store persists Session state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Session, error)
	GetByCompletionSource(ctx context.Context, eventID string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Session, error)
	DeleteByMemberID(ctx context.Context, memberID string) (int, error)
	CountByDatePrefix(ctx context.Context, sessionDate string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	FromDate string // inclusive YYYY-MM-DD
	ToDate   string // inclusive YYYY-MM-DD
}
