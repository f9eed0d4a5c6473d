package projections

import (
	"context"
	"time"

	storageMember "gymdesk/internal/adapters/storage/member"
	storageSale "gymdesk/internal/adapters/storage/sale"
	storageSession "gymdesk/internal/adapters/storage/session"
	domainForecast "gymdesk/internal/domain/forecast"
	domainSale "gymdesk/internal/domain/sale"
)

// GetForecastBucketsQuery carries query parameters.
type GetForecastBucketsQuery struct {
	Threshold int       // <= 0 uses the default re-register threshold
	Now       time.Time // zero value uses time.Now
}

// GetForecastBucketsResult carries the classified buckets.
type GetForecastBucketsResult struct {
	Buckets domainForecast.Buckets
}

// GetForecastBucketsDeps holds dependencies for GetForecastBuckets.
type GetForecastBucketsDeps struct {
	MemberStore  MemberStore
	SaleStore    SaleStore
	SessionStore SessionStore
}

// QueryGetForecastBuckets classifies every member into re-register and
// dormant candidate buckets.
// PRE: Valid query parameters
// POST: No member appears in both buckets; unchanged data yields identical buckets
func QueryGetForecastBuckets(ctx context.Context, query GetForecastBucketsQuery, deps GetForecastBucketsDeps) (GetForecastBucketsResult, error) {
	threshold := query.Threshold
	if threshold <= 0 {
		threshold = domainForecast.DefaultReregisterThreshold
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	members, err := deps.MemberStore.List(ctx, storageMember.ListFilter{Limit: 1000})
	if err != nil {
		return GetForecastBucketsResult{}, err
	}
	sales, err := deps.SaleStore.List(ctx, storageSale.ListFilter{Limit: 10000})
	if err != nil {
		return GetForecastBucketsResult{}, err
	}
	sessions, err := deps.SessionStore.List(ctx, storageSession.ListFilter{Limit: 10000})
	if err != nil {
		return GetForecastBucketsResult{}, err
	}

	salesByMember := make(map[string][]domainSale.Sale)
	for _, s := range sales {
		salesByMember[s.MemberID] = append(salesByMember[s.MemberID], s)
	}
	lastSessionByMember := make(map[string]string)
	for _, s := range sessions {
		if s.SessionDate > lastSessionByMember[s.MemberID] {
			lastSessionByMember[s.MemberID] = s.SessionDate
		}
	}

	activities := make([]domainForecast.MemberActivity, 0, len(members))
	for _, m := range members {
		activities = append(activities, domainForecast.MemberActivity{
			Member:          m,
			Remaining:       domainSale.TotalRemaining(salesByMember[m.ID], m.UsedSessions),
			LastSessionDate: lastSessionByMember[m.ID],
		})
	}

	return GetForecastBucketsResult{
		Buckets: domainForecast.Classify(activities, threshold, now),
	}, nil
}
