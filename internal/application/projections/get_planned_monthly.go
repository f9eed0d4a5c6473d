package projections

import (
	"context"
	"time"

	storageWeekly "gymdesk/internal/adapters/storage/weekly"
	domainWeekly "gymdesk/internal/domain/weekly"
)

// GetPlannedMonthlyQuery carries query parameters.
type GetPlannedMonthlyQuery struct {
	Year  int
	Month time.Month
}

// PlannedMemberMonth is one member's planned session count for the month.
type PlannedMemberMonth struct {
	MemberID   string
	MemberName string
	Sessions   int // weekday occurrences across confirmed weekly entries
}

// GetPlannedMonthlyResult carries the query result.
type GetPlannedMonthlyResult struct {
	Members       []PlannedMemberMonth
	TotalSessions int
}

// GetPlannedMonthlyDeps holds dependencies for GetPlannedMonthly.
type GetPlannedMonthlyDeps struct {
	WeeklyStore WeeklyStore
}

// QueryGetPlannedMonthly expands the confirmed weekly template into a
// per-member planned session count for one calendar month.
// PRE: Year and Month identify a valid calendar month
// POST: TotalSessions equals the sum over Members
func QueryGetPlannedMonthly(ctx context.Context, query GetPlannedMonthlyQuery, deps GetPlannedMonthlyDeps) (GetPlannedMonthlyResult, error) {
	entries, err := deps.WeeklyStore.List(ctx, storageWeekly.ListFilter{
		Status: domainWeekly.StatusConfirmed,
	})
	if err != nil {
		return GetPlannedMonthlyResult{}, err
	}

	perMember := make(map[string]*PlannedMemberMonth)
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		occurrences := e.MonthlyOccurrences(query.Year, query.Month)
		if occurrences == 0 {
			continue
		}
		pm, ok := perMember[e.MemberID]
		if !ok {
			pm = &PlannedMemberMonth{MemberID: e.MemberID, MemberName: e.MemberName}
			perMember[e.MemberID] = pm
			order = append(order, e.MemberID)
		}
		pm.Sessions += occurrences
	}

	result := GetPlannedMonthlyResult{}
	for _, id := range order {
		result.Members = append(result.Members, *perMember[id])
		result.TotalSessions += perMember[id].Sessions
	}
	return result, nil
}
