package projections

import (
	"context"

	storageCalendar "gymdesk/internal/adapters/storage/calendar"
	storageMember "gymdesk/internal/adapters/storage/member"
	storageSale "gymdesk/internal/adapters/storage/sale"
	storageSession "gymdesk/internal/adapters/storage/session"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainSale "gymdesk/internal/domain/sale"
)

// GetMemberStatsQuery carries query parameters.
type GetMemberStatsQuery struct {
	MemberID string // empty for all members
	Search   string
}

// MemberWithStats is one member enriched with derived activity figures.
type MemberWithStats struct {
	ID               string
	Name             string
	Phone            string
	RegistrationDate string
	Birthday         string
	ForecastStatus   string

	// Purchase-derived figures.
	LTV                     int // total spend across all sales
	CumulativeTotalSessions int // sum of purchased class counts
	ActiveUnitPrice         int // 0 once the balance is exhausted

	// Session-derived figures. UsedSessions is the stored counter on the
	// member; ConsumedSessions is the sum of logged session class counts.
	// The two are exposed side by side so drift is visible, not hidden.
	UsedSessions      int
	ConsumedSessions  int
	Remaining         int
	LastSessionDate   string // YYYY-MM-DD, empty if never trained
	ScheduledSessions int    // workout events not yet completed
}

// GetMemberStatsResult carries the query result.
type GetMemberStatsResult struct {
	Members []MemberWithStats
}

// GetMemberStatsDeps holds dependencies for GetMemberStats.
type GetMemberStatsDeps struct {
	MemberStore   MemberStore
	SaleStore     SaleStore
	SessionStore  SessionStore
	CalendarStore CalendarStore
}

// QueryGetMemberStats computes per-member lifetime and balance figures.
// PRE: Valid query parameters
// POST: Remaining is never negative; LastSessionDate is the max session date
func QueryGetMemberStats(ctx context.Context, query GetMemberStatsQuery, deps GetMemberStatsDeps) (GetMemberStatsResult, error) {
	members, err := deps.MemberStore.List(ctx, storageMember.ListFilter{
		Limit:  1000,
		Search: query.Search,
	})
	if err != nil {
		return GetMemberStatsResult{}, err
	}

	sales, err := deps.SaleStore.List(ctx, storageSale.ListFilter{Limit: 10000})
	if err != nil {
		return GetMemberStatsResult{}, err
	}
	sessions, err := deps.SessionStore.List(ctx, storageSession.ListFilter{Limit: 10000})
	if err != nil {
		return GetMemberStatsResult{}, err
	}
	workouts, err := deps.CalendarStore.List(ctx, storageCalendar.ListFilter{
		Limit: 10000,
		Type:  domainCalendar.TypeWorkout,
	})
	if err != nil {
		return GetMemberStatsResult{}, err
	}

	salesByMember := make(map[string][]domainSale.Sale)
	for _, s := range sales {
		salesByMember[s.MemberID] = append(salesByMember[s.MemberID], s)
	}

	consumedByMember := make(map[string]int)
	lastSessionByMember := make(map[string]string)
	for _, s := range sessions {
		consumedByMember[s.MemberID] += s.ClassCount
		if s.SessionDate > lastSessionByMember[s.MemberID] {
			lastSessionByMember[s.MemberID] = s.SessionDate
		}
	}

	scheduledByMember := make(map[string]int)
	for _, e := range workouts {
		if e.Status == domainCalendar.StatusScheduled {
			scheduledByMember[e.MemberID]++
		}
	}

	var result []MemberWithStats
	for _, m := range members {
		if query.MemberID != "" && m.ID != query.MemberID {
			continue
		}

		memberSales := salesByMember[m.ID]
		stats := MemberWithStats{
			ID:               m.ID,
			Name:             m.Name,
			Phone:            m.Phone,
			RegistrationDate: m.RegistrationDate,
			Birthday:         m.Birthday,
			ForecastStatus:   m.ForecastStatus,
			UsedSessions:     m.UsedSessions,
			ConsumedSessions: consumedByMember[m.ID],
			Remaining:        domainSale.TotalRemaining(memberSales, m.UsedSessions),
			LastSessionDate:  lastSessionByMember[m.ID],

			ScheduledSessions: scheduledByMember[m.ID],
		}
		for _, s := range memberSales {
			stats.LTV += s.Amount
			stats.CumulativeTotalSessions += s.ClassCount
		}
		if price, err := domainSale.FindActiveUnitPrice(memberSales, m.UsedSessions); err == nil {
			stats.ActiveUnitPrice = price
		}

		result = append(result, stats)
	}

	return GetMemberStatsResult{Members: result}, nil
}
