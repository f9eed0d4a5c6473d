package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
)

// Completion errors.
var (
	ErrEventNotFound = errors.New("calendar event not found")
	ErrNotWorkout    = errors.New("only workout events can be completed")
)

// CompleteWorkoutDeps holds dependencies for CompleteWorkout.
type CompleteWorkoutDeps struct {
	MemberStore   memberStore.Store
	SaleStore     saleStore.Store
	SessionStore  sessionStore.Store
	CalendarStore calendarStore.Store
	Now           func() time.Time
}

// CompleteWorkoutResult reports the aggregate outcome.
type CompleteWorkoutResult struct {
	SessionID     string
	EventUpdated  bool
	MemberUpdated bool
}

// ExecuteCompleteWorkout marks a scheduled workout completed and logs the
// attended session with the event as its completion source. The balance guard
// applies: a zero remaining balance blocks completion before any write.
// PRE: eventID names a scheduled workout event
// POST: Event completed; session created with CompletionSourceID == eventID
func ExecuteCompleteWorkout(ctx context.Context, eventID string, deps CompleteWorkoutDeps) (CompleteWorkoutResult, error) {
	event, err := deps.CalendarStore.GetByID(ctx, eventID)
	if err != nil {
		return CompleteWorkoutResult{}, ErrEventNotFound
	}
	if !event.IsWorkout() {
		return CompleteWorkoutResult{}, ErrNotWorkout
	}
	if err := event.Complete(); err != nil {
		return CompleteWorkoutResult{}, err
	}

	sessionResult, err := ExecuteAddSession(ctx, AddSessionInput{
		MemberID:           event.MemberID,
		SessionDate:        event.Date,
		CompletionSourceID: event.ID,
		SkipCalendarEvent:  true,
	}, AddSessionDeps(deps))
	if err != nil {
		return CompleteWorkoutResult{}, err
	}

	result := CompleteWorkoutResult{
		SessionID:     sessionResult.SessionID,
		MemberUpdated: sessionResult.MemberUpdated,
	}
	if err := deps.CalendarStore.Save(ctx, event); err != nil {
		slog.Error("complete_workout_event_update_failed", "event_id", eventID, "error", err.Error())
	} else {
		result.EventUpdated = true
	}

	slog.Info("workout_completed", "event_id", eventID, "session_id", result.SessionID, "member_id", event.MemberID)
	return result, nil
}

// ExecuteUncompleteWorkout reverses a completion: the event returns to
// scheduled and the session it produced is removed, refunding the balance.
// PRE: eventID names a completed workout event
// POST: Event scheduled again; linked session gone
func ExecuteUncompleteWorkout(ctx context.Context, eventID string, deps CompleteWorkoutDeps) (CompleteWorkoutResult, error) {
	event, err := deps.CalendarStore.GetByID(ctx, eventID)
	if err != nil {
		return CompleteWorkoutResult{}, ErrEventNotFound
	}
	if !event.IsWorkout() {
		return CompleteWorkoutResult{}, ErrNotWorkout
	}
	if err := event.Uncomplete(); err != nil {
		return CompleteWorkoutResult{}, err
	}

	result := CompleteWorkoutResult{}

	// The session carries the event ID as its completion source.
	s, err := deps.SessionStore.GetByCompletionSource(ctx, eventID)
	if err != nil {
		slog.Warn("uncomplete_workout_session_missing", "event_id", eventID)
	} else {
		removeResult, err := ExecuteRemoveSession(ctx, s.ID, RemoveSessionDeps{
			MemberStore:   deps.MemberStore,
			SessionStore:  deps.SessionStore,
			CalendarStore: deps.CalendarStore,
		})
		if err != nil {
			return CompleteWorkoutResult{}, err
		}
		result.SessionID = s.ID
		result.MemberUpdated = removeResult.MemberUpdated
	}

	if err := deps.CalendarStore.Save(ctx, event); err != nil {
		slog.Error("uncomplete_workout_event_update_failed", "event_id", eventID, "error", err.Error())
	} else {
		result.EventUpdated = true
	}

	slog.Info("workout_uncompleted", "event_id", eventID, "session_id", result.SessionID, "member_id", event.MemberID)
	return result, nil
}
