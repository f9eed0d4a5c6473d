package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	forecastStore "gymdesk/internal/adapters/storage/forecast"
	"gymdesk/internal/application/dateutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	domainForecast "gymdesk/internal/domain/forecast"
)

func forecastListFilterFromQuery(r *http.Request) forecastStore.ListFilter {
	return forecastStore.ListFilter{
		FromDate: r.URL.Query().Get("from"),
		ToDate:   r.URL.Query().Get("to"),
	}
}

// handleForecast handles GET/POST/DELETE for /api/forecast
// Forecast entries are the projected-revenue lines on the revenue dashboard.
func handleForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		entries, err := stores.ForecastStore.List(ctx, forecastListFilterFromQuery(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(entries))
		return
	}

	if r.Method == "POST" {
		var input struct {
			ForecastDate string
			MemberName   string
			ClassCount   int
			UnitPrice    int
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		date := dateutil.Normalize(input.ForecastDate)
		if date == "" {
			http.Error(w, "invalid forecast date", http.StatusBadRequest)
			return
		}
		count, err := stores.ForecastStore.CountByDatePrefix(ctx, date)
		if err != nil {
			internalError(w, err)
			return
		}
		id := fmt.Sprintf("forecast-%s-%d", strings.ReplaceAll(date, "-", ""), count+1)
		entry := domainForecast.NewEntry(id, date, input.MemberName, input.ClassCount, input.UnitPrice)
		if err := entry.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.ForecastStore.Save(ctx, entry); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := stores.ForecastStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleForecastBuckets handles GET /api/forecast/buckets
func handleForecastBuckets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetForecastBuckets(ctx, projections.GetForecastBucketsQuery{
		Threshold: queryInt(r, "threshold", 0),
		Now:       timeNow(),
	}, projections.GetForecastBucketsDeps{
		MemberStore:  stores.MemberStore,
		SaleStore:    stores.SaleStore,
		SessionStore: stores.SessionStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Buckets)
}

// handleMemberStats handles GET /api/stats/members
func handleMemberStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetMemberStats(ctx, projections.GetMemberStatsQuery{
		MemberID: r.URL.Query().Get("member_id"),
		Search:   r.URL.Query().Get("q"),
	}, projections.GetMemberStatsDeps{
		MemberStore:   stores.MemberStore,
		SaleStore:     stores.SaleStore,
		SessionStore:  stores.SessionStore,
		CalendarStore: stores.CalendarStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDashboard handles GET /api/dashboard
// Accepts explicit from/to bounds or range=week|month; no bounds means all time.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	// Named ranges resolve against the current clock; explicit bounds win.
	if from == "" && to == "" {
		now := timeNow()
		switch r.URL.Query().Get("range") {
		case "week":
			from = dateutil.Format(dateutil.StartOfWeek(now))
			to = dateutil.Format(dateutil.EndOfWeek(now))
		case "month":
			from = dateutil.Format(dateutil.StartOfMonth(now))
			to = dateutil.Format(dateutil.EndOfMonth(now))
		}
	}

	result, err := projections.QueryGetRevenueDashboard(ctx, projections.GetRevenueDashboardQuery{
		FromDate: from,
		ToDate:   to,
	}, projections.GetRevenueDashboardDeps{
		SaleStore:     stores.SaleStore,
		ForecastStore: stores.ForecastStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePlannedMonthly handles GET /api/planned-monthly?year=2024&month=3
func handlePlannedMonthly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	now := timeNow()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetPlannedMonthly(ctx, projections.GetPlannedMonthlyQuery{
		Year:  year,
		Month: time.Month(month),
	}, projections.GetPlannedMonthlyDeps{
		WeeklyStore: stores.WeeklyStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImportAttendance handles POST /api/import/attendance
// Accepts the name+date rows produced by the external attendance scan service.
func handleImportAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.ImportAttendanceInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(input.Rows) == 0 {
		http.Error(w, "no rows to import", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteImportAttendance(ctx, input, orchestrators.ImportAttendanceDeps{
		MemberStore: stores.MemberStore,
		AddSession:  addSessionDepsFromStores(),
		Now:         timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
