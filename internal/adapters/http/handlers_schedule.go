package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	weeklyStore "gymdesk/internal/adapters/storage/weekly"
	"gymdesk/internal/application/dateutil"
	"gymdesk/internal/application/orchestrators"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainSale "gymdesk/internal/domain/sale"
	domainWeekly "gymdesk/internal/domain/weekly"
)

func calendarListFilterFromQuery(r *http.Request) calendarStore.ListFilter {
	return calendarStore.ListFilter{
		FromDate: r.URL.Query().Get("from"),
		ToDate:   r.URL.Query().Get("to"),
		Type:     r.URL.Query().Get("type"),
		MemberID: r.URL.Query().Get("member_id"),
		Limit:    queryInt(r, "limit", 1000),
	}
}

// handleCalendar handles GET (list) / POST (marker create) / DELETE for /api/calendar
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		events, err := stores.CalendarStore.List(ctx, calendarListFilterFromQuery(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(events))
		return
	}

	if r.Method == "POST" {
		// One-off ledger markers (consultation, refund, …). Workouts go
		// through /api/schedule so they get conflict checking.
		var input struct {
			Date      string
			Type      string
			Title     string
			StartTime string
			EndTime   string
			MemberID  string
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if input.Type == domainCalendar.TypeWorkout {
			http.Error(w, "workout events must be booked via /api/schedule", http.StatusBadRequest)
			return
		}
		date := dateutil.Normalize(input.Date)
		if date == "" {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		count, err := stores.CalendarStore.CountByDatePrefix(ctx, date)
		if err != nil {
			internalError(w, err)
			return
		}
		event := domainCalendar.Event{
			ID:        fmt.Sprintf("event-%s-%d", strings.ReplaceAll(date, "-", ""), count+1),
			Date:      date,
			Type:      input.Type,
			Title:     input.Title,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			MemberID:  input.MemberID,
		}
		if err := event.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.CalendarStore.Save(ctx, event); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, event)
		return
	}

	if r.Method == "DELETE" {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := stores.CalendarStore.Delete(ctx, id); err != nil {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// scheduleRequest is the JSON body for booking and previewing schedules.
type scheduleRequest struct {
	MemberID   string
	StartDate  string
	StartTime  string
	EndTime    string
	Recurrence *recurrenceRequest
}

// recurrenceRequest mirrors the domain recurrence with JSON-friendly weekdays.
type recurrenceRequest struct {
	DaysOfWeek []int // 0=Sunday .. 6=Saturday
	Cadence    string
	End        struct {
		Type  string
		Count int
		Date  string
	}
}

func (req *scheduleRequest) toInput() orchestrators.BookScheduleInput {
	input := orchestrators.BookScheduleInput{
		MemberID:  req.MemberID,
		StartDate: req.StartDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.Recurrence != nil {
		days := make(map[time.Weekday]bool, len(req.Recurrence.DaysOfWeek))
		for _, d := range req.Recurrence.DaysOfWeek {
			if d >= 0 && d <= 6 {
				days[time.Weekday(d)] = true
			}
		}
		input.Recurrence = &domainCalendar.Recurrence{
			StartDate:  req.StartDate,
			DaysOfWeek: days,
			Cadence:    req.Recurrence.Cadence,
			End: domainCalendar.EndCondition{
				Type:  req.Recurrence.End.Type,
				Count: req.Recurrence.End.Count,
				Date:  req.Recurrence.End.Date,
			},
		}
	}
	return input
}

func bookScheduleDepsFromStores() orchestrators.BookScheduleDeps {
	return orchestrators.BookScheduleDeps{
		MemberStore:   stores.MemberStore,
		SaleStore:     stores.SaleStore,
		CalendarStore: stores.CalendarStore,
	}
}

// handleSchedule handles POST /api/schedule
func handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scheduleRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteBookSchedule(ctx, req.toInput(), bookScheduleDepsFromStores())
	if err != nil {
		if errors.Is(err, orchestrators.ErrSlotConflict) {
			// The conflict preview goes back to the client so the desk can
			// pick a different slot.
			writeJSON(w, http.StatusConflict, map[string]any{
				"Error":     err.Error(),
				"Conflicts": result.Conflicts,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleSchedulePreview handles POST /api/schedule/preview
// Expands and conflict-checks a booking request without writing anything.
func handleSchedulePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scheduleRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecutePreviewSchedule(ctx, req.toInput(), bookScheduleDepsFromStores())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleScheduleSeries handles DELETE /api/schedule/series
func handleScheduleSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "DELETE" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.DeleteSeriesInput{
		EventID: r.URL.Query().Get("event_id"),
		Scope:   r.URL.Query().Get("scope"),
	}
	if input.EventID == "" {
		http.Error(w, "event_id is required", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteDeleteSeries(ctx, input, orchestrators.DeleteSeriesDeps{
		MemberStore:   stores.MemberStore,
		SessionStore:  stores.SessionStore,
		CalendarStore: stores.CalendarStore,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidScope) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, orchestrators.ErrEventNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCompleteWorkout handles POST /api/workouts/complete
func handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	handleWorkoutTransition(w, r, orchestrators.ExecuteCompleteWorkout)
}

// handleUncompleteWorkout handles POST /api/workouts/uncomplete
func handleUncompleteWorkout(w http.ResponseWriter, r *http.Request) {
	handleWorkoutTransition(w, r, orchestrators.ExecuteUncompleteWorkout)
}

func handleWorkoutTransition(w http.ResponseWriter, r *http.Request,
	execute func(ctx context.Context, eventID string, deps orchestrators.CompleteWorkoutDeps) (orchestrators.CompleteWorkoutResult, error)) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		EventID string
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := execute(ctx, input.EventID, orchestrators.CompleteWorkoutDeps{
		MemberStore:   stores.MemberStore,
		SaleStore:     stores.SaleStore,
		SessionStore:  stores.SessionStore,
		CalendarStore: stores.CalendarStore,
		Now:           timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEventNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, orchestrators.ErrNotWorkout),
			errors.Is(err, domainCalendar.ErrNotScheduled),
			errors.Is(err, domainCalendar.ErrNotCompleted):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domainSale.ErrNoRemainingSessions):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func weeklyListFilterFromQuery(r *http.Request) weeklyStore.ListFilter {
	return weeklyStore.ListFilter{
		Status:   r.URL.Query().Get("status"),
		MemberID: r.URL.Query().Get("member_id"),
	}
}

// handleWeekly handles GET/POST/DELETE for /api/weekly
func handleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		entries, err := stores.WeeklyStore.List(ctx, weeklyListFilterFromQuery(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(entries))
		return
	}

	if r.Method == "POST" {
		var input struct {
			DayOfWeek int
			StartTime string
			EndTime   string
			MemberID  string
			Status    string
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		m, err := stores.MemberStore.GetByID(ctx, input.MemberID)
		if err != nil {
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		entry := domainWeekly.Entry{
			ID:         generateID(),
			DayOfWeek:  input.DayOfWeek,
			StartTime:  input.StartTime,
			EndTime:    input.EndTime,
			MemberID:   m.ID,
			MemberName: m.Name,
			Status:     input.Status,
		}
		if entry.Status == "" {
			entry.Status = domainWeekly.StatusPlanned
		}
		if err := entry.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.WeeklyStore.Save(ctx, entry); err != nil {
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
		if err := stores.WeeklyStore.Delete(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}
