package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	sessionStore "gymdesk/internal/adapters/storage/session"
)

// Series deletion scopes.
const (
	ScopeSingle        = "single"          // just this occurrence
	ScopeThisAndFuture = "this_and_future" // this occurrence onward
	ScopeEntireSeries  = "entire_series"
)

// ErrInvalidScope reports an unknown deletion scope.
var ErrInvalidScope = errors.New("scope must be 'single', 'this_and_future', or 'entire_series'")

// DeleteSeriesInput carries input for the orchestrator.
type DeleteSeriesInput struct {
	EventID string
	Scope   string
}

// DeleteSeriesResult reports the aggregate outcome of the bulk delete.
type DeleteSeriesResult struct {
	EventsDeleted   int
	EventsFailed    int
	SessionsCleaned int
}

// DeleteSeriesDeps holds dependencies for DeleteSeries.
type DeleteSeriesDeps struct {
	MemberStore   memberStore.Store
	SessionStore  sessionStore.Store
	CalendarStore calendarStore.Store
}

// ExecuteDeleteSeries deletes a booked occurrence, the rest of its series, or
// the whole series, cleaning up any sessions completed from the deleted
// events. Deletions proceed per event; one failure does not stop the rest.
// PRE: EventID names an existing event; Scope is a known scope
// POST: EventsDeleted+EventsFailed equals the number of targeted events
func ExecuteDeleteSeries(ctx context.Context, input DeleteSeriesInput, deps DeleteSeriesDeps) (DeleteSeriesResult, error) {
	switch input.Scope {
	case ScopeSingle, ScopeThisAndFuture, ScopeEntireSeries:
	default:
		return DeleteSeriesResult{}, ErrInvalidScope
	}

	anchor, err := deps.CalendarStore.GetByID(ctx, input.EventID)
	if err != nil {
		return DeleteSeriesResult{}, ErrEventNotFound
	}

	targets := []string{anchor.ID}
	if input.Scope != ScopeSingle && anchor.RecurrenceID != "" {
		series, err := deps.CalendarStore.ListByRecurrenceID(ctx, anchor.RecurrenceID)
		if err != nil {
			return DeleteSeriesResult{}, err
		}
		targets = targets[:0]
		for _, e := range series {
			if input.Scope == ScopeThisAndFuture && e.Date < anchor.Date {
				continue
			}
			targets = append(targets, e.ID)
		}
	}

	result := DeleteSeriesResult{}
	for _, id := range targets {
		// A session completed from this occurrence must not outlive it.
		if s, err := deps.SessionStore.GetByCompletionSource(ctx, id); err == nil {
			if _, err := ExecuteRemoveSession(ctx, s.ID, RemoveSessionDeps(deps)); err != nil {
				slog.Warn("delete_series_session_cleanup_failed", "event_id", id, "session_id", s.ID, "error", err.Error())
			} else {
				result.SessionsCleaned++
			}
		}

		if err := deps.CalendarStore.Delete(ctx, id); err != nil {
			result.EventsFailed++
			slog.Error("delete_series_event_failed", "event_id", id, "error", err.Error())
			continue
		}
		result.EventsDeleted++
	}

	slog.Info("series_deleted", "anchor_event", input.EventID, "scope", input.Scope,
		"deleted", result.EventsDeleted, "failed", result.EventsFailed, "sessions_cleaned", result.SessionsCleaned)
	return result, nil
}
