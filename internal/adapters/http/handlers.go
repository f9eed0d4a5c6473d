package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	"gymdesk/internal/application/orchestrators"
	domainSale "gymdesk/internal/domain/sale"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// queryInt parses an integer query parameter, returning def when absent or bad.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleData handles GET /api/data
// Returns every collection in one payload for the front-desk client's initial load.
func handleData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	members, err := stores.MemberStore.List(ctx, memberStore.ListFilter{Limit: 10000})
	if err != nil {
		internalError(w, err)
		return
	}
	sales, err := stores.SaleStore.List(ctx, saleStore.ListFilter{Limit: 10000})
	if err != nil {
		internalError(w, err)
		return
	}
	sessions, err := stores.SessionStore.List(ctx, sessionStore.ListFilter{Limit: 10000})
	if err != nil {
		internalError(w, err)
		return
	}
	events, err := stores.CalendarStore.List(ctx, calendarListFilterFromQuery(r))
	if err != nil {
		internalError(w, err)
		return
	}
	weeklyEntries, err := stores.WeeklyStore.List(ctx, weeklyListFilterFromQuery(r))
	if err != nil {
		internalError(w, err)
		return
	}
	forecastEntries, err := stores.ForecastStore.List(ctx, forecastListFilterFromQuery(r))
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Members":         members,
		"Sales":           sales,
		"Sessions":        sessions,
		"CalendarEvents":  events,
		"WeeklySchedule":  weeklyEntries,
		"ForecastEntries": forecastEntries,
	})
}

// handleMembers handles GET (list), POST (register), and DELETE for /api/members
func handleMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		filter := memberStore.ListFilter{
			Search:         r.URL.Query().Get("q"),
			ForecastStatus: r.URL.Query().Get("forecast_status"),
			Limit:          queryInt(r, "limit", 100),
			Offset:         queryInt(r, "offset", 0),
		}
		members, err := stores.MemberStore.List(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		total, err := stores.MemberStore.Count(ctx, filter)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"Members": members, "Total": total})
		return
	}

	if r.Method == "POST" {
		var input orchestrators.RegisterMemberInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		id, err := orchestrators.ExecuteRegisterMember(ctx, input, orchestrators.RegisterMemberDeps{
			MemberStore:   stores.MemberStore,
			CalendarStore: stores.CalendarStore,
			Now:           timeNow,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if _, err := stores.MemberStore.GetByID(ctx, id); err != nil {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		// Sales, sessions, and weekly entries cascade at the schema level.
		if err := stores.MemberStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		slog.Info("member_deleted", "member_id", id)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleForecastStatus handles POST /api/members/forecast-status
func handleForecastStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.SetForecastStatusInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteSetForecastStatus(ctx, input, orchestrators.SetForecastStatusDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSales handles GET/POST/DELETE for /api/sales
func handleSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if memberID := r.URL.Query().Get("member_id"); memberID != "" {
			sales, err := stores.SaleStore.ListByMemberID(ctx, memberID)
			if err != nil {
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(sales))
			return
		}
		sales, err := stores.SaleStore.List(ctx, saleStore.ListFilter{
			FromDate: r.URL.Query().Get("from"),
			ToDate:   r.URL.Query().Get("to"),
			Limit:    queryInt(r, "limit", 1000),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(sales))
		return
	}

	if r.Method == "POST" {
		var body struct {
			MemberID   string
			SaleDate   string
			ClassCount int
			UnitPrice  int
			PaidAmount *int // omitted means fully paid
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		input := orchestrators.RecordSaleInput{
			MemberID:   body.MemberID,
			SaleDate:   body.SaleDate,
			ClassCount: body.ClassCount,
			UnitPrice:  body.UnitPrice,
			PaidAmount: -1,
		}
		if body.PaidAmount != nil {
			input.PaidAmount = *body.PaidAmount
		}
		result, err := orchestrators.ExecuteRecordSale(ctx, input, saleOrchestratorDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, result)
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteDeleteSale(ctx, id, saleOrchestratorDeps()); err != nil {
			if errors.Is(err, orchestrators.ErrSaleNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func saleOrchestratorDeps() orchestrators.RecordSaleDeps {
	return orchestrators.RecordSaleDeps{
		MemberStore:   stores.MemberStore,
		SaleStore:     stores.SaleStore,
		CalendarStore: stores.CalendarStore,
		Now:           timeNow,
	}
}

// handleSessions handles GET/POST/DELETE for /api/sessions
func handleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		if memberID := r.URL.Query().Get("member_id"); memberID != "" {
			sessions, err := stores.SessionStore.ListByMemberID(ctx, memberID)
			if err != nil {
				internalError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, emptyIfNil(sessions))
			return
		}
		sessions, err := stores.SessionStore.List(ctx, sessionStore.ListFilter{
			FromDate: r.URL.Query().Get("from"),
			ToDate:   r.URL.Query().Get("to"),
			Limit:    queryInt(r, "limit", 1000),
		})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(sessions))
		return
	}

	if r.Method == "POST" {
		var input orchestrators.AddSessionInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		result, err := orchestrators.ExecuteAddSession(ctx, input, addSessionDepsFromStores())
		if err != nil {
			if errors.Is(err, domainSale.ErrNoRemainingSessions) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, result)
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		result, err := orchestrators.ExecuteRemoveSession(ctx, id, orchestrators.RemoveSessionDeps{
			MemberStore:   stores.MemberStore,
			SessionStore:  stores.SessionStore,
			CalendarStore: stores.CalendarStore,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrSessionNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func addSessionDepsFromStores() orchestrators.AddSessionDeps {
	return orchestrators.AddSessionDeps{
		MemberStore:   stores.MemberStore,
		SaleStore:     stores.SaleStore,
		SessionStore:  stores.SessionStore,
		CalendarStore: stores.CalendarStore,
		Now:           timeNow,
	}
}

// handlePerf handles GET /api/perf
// Returns aggregated request and query timings from the ring buffer.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusServiceUnavailable)
		return
	}
	minutes := queryInt(r, "minutes", 15)
	topN := queryInt(r, "top", 10)
	snap := perfCollector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), topN)
	writeJSON(w, http.StatusOK, snap)
}

// emptyIfNil substitutes an empty slice so JSON renders [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
