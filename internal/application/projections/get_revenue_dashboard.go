package projections

import (
	"context"
	"sort"

	storageForecast "gymdesk/internal/adapters/storage/forecast"
	storageSale "gymdesk/internal/adapters/storage/sale"
	"gymdesk/internal/application/currency"
	"gymdesk/internal/application/dateutil"
)

// GetRevenueDashboardQuery carries query parameters.
type GetRevenueDashboardQuery struct {
	FromDate string // inclusive YYYY-MM-DD, empty for all time
	ToDate   string // inclusive YYYY-MM-DD, empty for all time
}

// MonthRevenue is one month's aggregated sales figures.
type MonthRevenue struct {
	Month         string // YYYY-MM
	SaleCount     int
	Amount        int
	Paid          int
	Outstanding   int
	AmountDisplay string // Amount with thousands separators
}

// GetRevenueDashboardResult carries the query result.
type GetRevenueDashboardResult struct {
	Months           []MonthRevenue // ascending by month
	TotalAmount      int
	TotalPaid        int
	TotalOutstanding int
	ProjectedRevenue int // sum over forecast entries in range

	// Pre-formatted totals for the desk display.
	TotalAmountDisplay      string
	TotalPaidDisplay        string
	TotalOutstandingDisplay string
	ProjectedRevenueDisplay string
}

// GetRevenueDashboardDeps holds dependencies for GetRevenueDashboard.
type GetRevenueDashboardDeps struct {
	SaleStore     SaleStore
	ForecastStore ForecastStore
}

// QueryGetRevenueDashboard groups sales by calendar month and totals paid
// versus outstanding amounts, with projected revenue from forecast entries.
// PRE: Date bounds, when set, are YYYY-MM-DD
// POST: Totals equal the sum over Months; Months sorted ascending
func QueryGetRevenueDashboard(ctx context.Context, query GetRevenueDashboardQuery, deps GetRevenueDashboardDeps) (GetRevenueDashboardResult, error) {
	sales, err := deps.SaleStore.List(ctx, storageSale.ListFilter{
		Limit:    10000,
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	})
	if err != nil {
		return GetRevenueDashboardResult{}, err
	}

	byMonth := make(map[string]*MonthRevenue)
	result := GetRevenueDashboardResult{}
	for _, s := range sales {
		key := dateutil.MonthKey(s.SaleDate)
		if key == "" {
			continue
		}
		m, ok := byMonth[key]
		if !ok {
			m = &MonthRevenue{Month: key}
			byMonth[key] = m
		}
		outstanding := s.Amount - s.PaidAmount
		m.SaleCount++
		m.Amount += s.Amount
		m.Paid += s.PaidAmount
		m.Outstanding += outstanding
		result.TotalAmount += s.Amount
		result.TotalPaid += s.PaidAmount
		result.TotalOutstanding += outstanding
	}

	for _, m := range byMonth {
		m.AmountDisplay = currency.Format(m.Amount)
		result.Months = append(result.Months, *m)
	}
	sort.Slice(result.Months, func(i, j int) bool {
		return result.Months[i].Month < result.Months[j].Month
	})

	forecasts, err := deps.ForecastStore.List(ctx, storageForecast.ListFilter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	})
	if err != nil {
		return GetRevenueDashboardResult{}, err
	}
	for _, f := range forecasts {
		result.ProjectedRevenue += f.Amount
	}

	result.TotalAmountDisplay = currency.Format(result.TotalAmount)
	result.TotalPaidDisplay = currency.Format(result.TotalPaid)
	result.TotalOutstandingDisplay = currency.Format(result.TotalOutstanding)
	result.ProjectedRevenueDisplay = currency.Format(result.ProjectedRevenue)

	return result, nil
}
