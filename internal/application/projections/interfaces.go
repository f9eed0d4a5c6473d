package projections

import (
	"context"

	storageCalendar "gymdesk/internal/adapters/storage/calendar"
	storageForecast "gymdesk/internal/adapters/storage/forecast"
	storageMember "gymdesk/internal/adapters/storage/member"
	storageSale "gymdesk/internal/adapters/storage/sale"
	storageSession "gymdesk/internal/adapters/storage/session"
	storageWeekly "gymdesk/internal/adapters/storage/weekly"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainForecast "gymdesk/internal/domain/forecast"
	domainMember "gymdesk/internal/domain/member"
	domainSale "gymdesk/internal/domain/sale"
	domainSession "gymdesk/internal/domain/session"
	domainWeekly "gymdesk/internal/domain/weekly"
)

// MemberStore interface for member queries.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (domainMember.Member, error)
	List(ctx context.Context, filter storageMember.ListFilter) ([]domainMember.Member, error)
	Count(ctx context.Context, filter storageMember.ListFilter) (int, error)
}

// SaleStore interface for sale queries.
type SaleStore interface {
	List(ctx context.Context, filter storageSale.ListFilter) ([]domainSale.Sale, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domainSale.Sale, error)
}

// SessionStore interface for session queries.
type SessionStore interface {
	List(ctx context.Context, filter storageSession.ListFilter) ([]domainSession.Session, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domainSession.Session, error)
}

// CalendarStore interface for calendar event queries.
type CalendarStore interface {
	List(ctx context.Context, filter storageCalendar.ListFilter) ([]domainCalendar.Event, error)
}

// WeeklyStore interface for weekly schedule queries.
type WeeklyStore interface {
	List(ctx context.Context, filter storageWeekly.ListFilter) ([]domainWeekly.Entry, error)
}

// ForecastStore interface for forecast entry queries.
type ForecastStore interface {
	List(ctx context.Context, filter storageForecast.ListFilter) ([]domainForecast.Entry, error)
}
