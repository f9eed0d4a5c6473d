package orchestrators

import (
	"context"
	"errors"
	"testing"

	domainCalendar "gymdesk/internal/domain/calendar"
	domainMember "gymdesk/internal/domain/member"
	domainSession "gymdesk/internal/domain/session"
)

func seriesEvent(id, date string) domainCalendar.Event {
	e := scheduledWorkout(id, date, "m1")
	e.RecurrenceID = "series-1"
	return e
}

func seriesDeps(members *memMemberStore, sessions *memSessionStore, events *memCalendarStore) DeleteSeriesDeps {
	return DeleteSeriesDeps{
		MemberStore:   members,
		SessionStore:  sessions,
		CalendarStore: events,
	}
}

// TestExecuteDeleteSeries_ThisAndFuture verifies the cut keeps past
// occurrences and removes the anchor onward.
func TestExecuteDeleteSeries_ThisAndFuture(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore(
		seriesEvent("e1", "2024-03-04"),
		seriesEvent("e2", "2024-03-11"),
		seriesEvent("e3", "2024-03-18"),
		seriesEvent("e4", "2024-03-25"),
	)

	res, err := ExecuteDeleteSeries(context.Background(), DeleteSeriesInput{
		EventID: "e3",
		Scope:   ScopeThisAndFuture,
	}, seriesDeps(members, newMemSessionStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EventsDeleted != 2 || res.EventsFailed != 0 {
		t.Fatalf("deleted/failed = %d/%d, want 2/0", res.EventsDeleted, res.EventsFailed)
	}
	for _, id := range []string{"e1", "e2"} {
		if _, err := events.GetByID(context.Background(), id); err != nil {
			t.Errorf("past occurrence %s removed, want kept", id)
		}
	}
	for _, id := range []string{"e3", "e4"} {
		if _, err := events.GetByID(context.Background(), id); err == nil {
			t.Errorf("future occurrence %s kept, want removed", id)
		}
	}
}

// TestExecuteDeleteSeries_EntireSeries verifies all occurrences go regardless
// of the anchor's position.
func TestExecuteDeleteSeries_EntireSeries(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore(
		seriesEvent("e1", "2024-03-04"),
		seriesEvent("e2", "2024-03-11"),
		seriesEvent("e3", "2024-03-18"),
	)

	res, err := ExecuteDeleteSeries(context.Background(), DeleteSeriesInput{
		EventID: "e2",
		Scope:   ScopeEntireSeries,
	}, seriesDeps(members, newMemSessionStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EventsDeleted != 3 {
		t.Errorf("deleted = %d, want 3", res.EventsDeleted)
	}
	if len(events.events) != 0 {
		t.Errorf("events remaining = %d, want 0", len(events.events))
	}
}

// TestExecuteDeleteSeries_CleansCompletedSessions verifies a session completed
// from a deleted occurrence is removed and refunded.
func TestExecuteDeleteSeries_CleansCompletedSessions(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim", UsedSessions: 1})
	sessions := newMemSessionStore(domainSession.Session{
		ID: "ss1", SessionDate: "2024-03-04", MemberID: "m1", ClassCount: 1,
		CompletionSourceID: "e1",
	})
	completed := seriesEvent("e1", "2024-03-04")
	completed.Status = domainCalendar.StatusCompleted
	events := newMemCalendarStore(completed, seriesEvent("e2", "2024-03-11"))

	res, err := ExecuteDeleteSeries(context.Background(), DeleteSeriesInput{
		EventID: "e1",
		Scope:   ScopeEntireSeries,
	}, seriesDeps(members, sessions, events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SessionsCleaned != 1 {
		t.Errorf("sessions cleaned = %d, want 1", res.SessionsCleaned)
	}
	if _, err := sessions.GetByID(context.Background(), "ss1"); err == nil {
		t.Error("session still present after series delete")
	}
	m, _ := members.GetByID(context.Background(), "m1")
	if m.UsedSessions != 0 {
		t.Errorf("used sessions = %d, want refunded to 0", m.UsedSessions)
	}
}

// TestExecuteDeleteSeries_SingleScope verifies only the named occurrence goes.
func TestExecuteDeleteSeries_SingleScope(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore(seriesEvent("e1", "2024-03-04"), seriesEvent("e2", "2024-03-11"))

	res, err := ExecuteDeleteSeries(context.Background(), DeleteSeriesInput{
		EventID: "e1",
		Scope:   ScopeSingle,
	}, seriesDeps(members, newMemSessionStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EventsDeleted != 1 {
		t.Errorf("deleted = %d, want 1", res.EventsDeleted)
	}
	if _, err := events.GetByID(context.Background(), "e2"); err != nil {
		t.Error("sibling occurrence removed, want kept")
	}
}

// TestExecuteDeleteSeries_InvalidScope verifies unknown scopes are rejected.
func TestExecuteDeleteSeries_InvalidScope(t *testing.T) {
	deps := seriesDeps(newMemMemberStore(), newMemSessionStore(), newMemCalendarStore())
	_, err := ExecuteDeleteSeries(context.Background(), DeleteSeriesInput{EventID: "e1", Scope: "everything"}, deps)
	if !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("err = %v, want ErrInvalidScope", err)
	}
}
