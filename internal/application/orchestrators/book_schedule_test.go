package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	domainCalendar "gymdesk/internal/domain/calendar"
	domainMember "gymdesk/internal/domain/member"
	domainSale "gymdesk/internal/domain/sale"
)

func bookDeps(members *memMemberStore, sales *memSaleStore, events *memCalendarStore) BookScheduleDeps {
	return BookScheduleDeps{
		MemberStore:          members,
		SaleStore:            sales,
		CalendarStore:        events,
		GenerateRecurrenceID: func() string { return "series-1" },
	}
}

// TestExecuteBookSchedule_RecurringSeriesSharesID verifies every occurrence of
// a recurring booking carries the same recurrence ID.
func TestExecuteBookSchedule_RecurringSeriesSharesID(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore()

	res, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartTime: "10:00",
		EndTime:   "11:00",
		Recurrence: &domainCalendar.Recurrence{
			StartDate:  "2024-03-04",
			DaysOfWeek: map[time.Weekday]bool{time.Monday: true, time.Wednesday: true},
			Cadence:    domainCalendar.CadenceWeekly,
			End:        domainCalendar.EndCondition{Type: domainCalendar.EndByOccurrences, Count: 4},
		},
	}, bookDeps(members, newMemSaleStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Succeeded != 4 || res.Failed != 0 {
		t.Fatalf("succeeded/failed = %d/%d, want 4/0", res.Succeeded, res.Failed)
	}
	if res.RecurrenceID != "series-1" {
		t.Errorf("recurrence id = %q, want series-1", res.RecurrenceID)
	}
	want := []string{"2024-03-04", "2024-03-06", "2024-03-11", "2024-03-13"}
	for i, d := range want {
		if res.Dates[i] != d {
			t.Errorf("dates[%d] = %q, want %q", i, res.Dates[i], d)
		}
	}
	for _, e := range events.events {
		if e.RecurrenceID != "series-1" {
			t.Errorf("event %s recurrence id = %q, want series-1", e.ID, e.RecurrenceID)
		}
		if e.Status != domainCalendar.StatusScheduled {
			t.Errorf("event %s status = %q, want scheduled", e.ID, e.Status)
		}
	}
}

// TestExecuteBookSchedule_ConflictPrecludesAllWrites verifies one conflicting
// occurrence blocks the entire submission.
func TestExecuteBookSchedule_ConflictPrecludesAllWrites(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	// Existing booking 10:00-11:00 on the second occurrence date.
	events := newMemCalendarStore(domainCalendar.Event{
		ID: "e1", Date: "2024-03-06", Type: domainCalendar.TypeWorkout,
		StartTime: "10:00", EndTime: "11:00", MemberID: "m2", Status: domainCalendar.StatusScheduled,
	})

	res, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartTime: "10:30",
		EndTime:   "11:30",
		Recurrence: &domainCalendar.Recurrence{
			StartDate:  "2024-03-04",
			DaysOfWeek: map[time.Weekday]bool{time.Monday: true, time.Wednesday: true},
			Cadence:    domainCalendar.CadenceWeekly,
			End:        domainCalendar.EndCondition{Type: domainCalendar.EndByOccurrences, Count: 4},
		},
	}, bookDeps(members, newMemSaleStore(), events))
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("err = %v, want ErrSlotConflict", err)
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].Date != "2024-03-06" {
		t.Fatalf("conflicts = %+v, want one on 2024-03-06", res.Conflicts)
	}
	// Only the pre-existing event remains.
	if len(events.events) != 1 {
		t.Errorf("events = %d, want 1 (no writes on conflict)", len(events.events))
	}
}

// TestExecuteBookSchedule_SessionsEndConditionUsesBalance verifies a
// sessions-bounded series stops at the member's remaining balance.
func TestExecuteBookSchedule_SessionsEndConditionUsesBalance(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim", UsedSessions: 7})
	sales := newMemSaleStore(domainSale.NewSale("s1", "2024-01-01", "m1", "Kim", 10, 50000))
	events := newMemCalendarStore()

	res, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartTime: "10:00",
		Recurrence: &domainCalendar.Recurrence{
			StartDate:  "2024-03-04",
			DaysOfWeek: map[time.Weekday]bool{time.Monday: true},
			Cadence:    domainCalendar.CadenceWeekly,
			End:        domainCalendar.EndCondition{Type: domainCalendar.EndBySessions},
		},
	}, bookDeps(members, sales, events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10 purchased - 7 used = 3 occurrences
	if res.Succeeded != 3 {
		t.Errorf("succeeded = %d, want 3", res.Succeeded)
	}
}

// TestExecuteBookSchedule_SingleBooking verifies a nil recurrence books one
// occurrence with no recurrence ID.
func TestExecuteBookSchedule_SingleBooking(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore()

	res, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartDate: "2024-03-04",
		StartTime: "10:00",
		EndTime:   "11:00",
	}, bookDeps(members, newMemSaleStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Succeeded != 1 || res.RecurrenceID != "" {
		t.Errorf("succeeded/recurrence = %d/%q, want 1 and empty", res.Succeeded, res.RecurrenceID)
	}
}

// TestExecuteBookSchedule_EmptyPattern verifies an empty day set errors
// without writing.
func TestExecuteBookSchedule_EmptyPattern(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore()

	_, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartTime: "10:00",
		Recurrence: &domainCalendar.Recurrence{
			StartDate:  "2024-03-04",
			DaysOfWeek: map[time.Weekday]bool{},
			Cadence:    domainCalendar.CadenceWeekly,
			End:        domainCalendar.EndCondition{Type: domainCalendar.EndByOccurrences, Count: 4},
		},
	}, bookDeps(members, newMemSaleStore(), events))
	if !errors.Is(err, ErrEmptySchedule) {
		t.Fatalf("err = %v, want ErrEmptySchedule", err)
	}
	if len(events.events) != 0 {
		t.Errorf("events = %d, want 0", len(events.events))
	}
}

// TestExecutePreviewSchedule_ReportsWithoutWriting verifies the preview
// returns dates and conflicts but persists nothing.
func TestExecutePreviewSchedule_ReportsWithoutWriting(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore(domainCalendar.Event{
		ID: "e1", Date: "2024-03-04", Type: domainCalendar.TypeWorkout,
		StartTime: "10:00", EndTime: "11:00", MemberID: "m2", Status: domainCalendar.StatusScheduled,
	})

	res, err := ExecutePreviewSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartTime: "10:30",
		Recurrence: &domainCalendar.Recurrence{
			StartDate:  "2024-03-04",
			DaysOfWeek: map[time.Weekday]bool{time.Monday: true},
			Cadence:    domainCalendar.CadenceWeekly,
			End:        domainCalendar.EndCondition{Type: domainCalendar.EndByOccurrences, Count: 2},
		},
	}, bookDeps(members, newMemSaleStore(), events))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Dates) != 2 {
		t.Errorf("dates = %d, want 2", len(res.Dates))
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].Date != "2024-03-04" {
		t.Errorf("conflicts = %+v, want one on 2024-03-04", res.Conflicts)
	}
	if len(events.events) != 1 {
		t.Errorf("events = %d, want 1 (preview writes nothing)", len(events.events))
	}
}

// TestExecuteBookSchedule_EmptyEndTimeStillOccupiesSlot verifies a booking
// without an end time defaults to a one-slot interval, so a second booking at
// the same date and time collides instead of slipping past the grid.
func TestExecuteBookSchedule_EmptyEndTimeStillOccupiesSlot(t *testing.T) {
	members := newMemMemberStore(
		domainMember.Member{ID: "m1", Name: "Kim"},
		domainMember.Member{ID: "m2", Name: "Lee"},
	)
	events := newMemCalendarStore()
	deps := bookDeps(members, newMemSaleStore(), events)

	res, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m1",
		StartDate: "2024-03-04",
		StartTime: "10:00",
	}, deps)
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if res.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", res.Succeeded)
	}
	for _, e := range events.events {
		if e.EndTime != "10:30" {
			t.Errorf("stored end time = %q, want defaulted 10:30", e.EndTime)
		}
	}

	_, err = ExecuteBookSchedule(context.Background(), BookScheduleInput{
		MemberID:  "m2",
		StartDate: "2024-03-04",
		StartTime: "10:00",
	}, deps)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("second booking err = %v, want ErrSlotConflict", err)
	}
	if len(events.events) != 1 {
		t.Errorf("events stored = %d, want 1 (conflict must not write)", len(events.events))
	}
}

// TestExecuteBookSchedule_RejectsMalformedTimes verifies unparseable time
// fields are rejected before any write.
func TestExecuteBookSchedule_RejectsMalformedTimes(t *testing.T) {
	members := newMemMemberStore(domainMember.Member{ID: "m1", Name: "Kim"})
	events := newMemCalendarStore()
	deps := bookDeps(members, newMemSaleStore(), events)

	for _, tt := range []struct {
		name  string
		start string
		end   string
	}{
		{name: "garbage start", start: "ten", end: "11:00"},
		{name: "empty start", start: "", end: "11:00"},
		{name: "inverted end", start: "11:00", end: "10:00"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteBookSchedule(context.Background(), BookScheduleInput{
				MemberID:  "m1",
				StartDate: "2024-03-04",
				StartTime: tt.start,
				EndTime:   tt.end,
			}, deps)
			if !errors.Is(err, domainCalendar.ErrInvalidClock) {
				t.Fatalf("err = %v, want ErrInvalidClock", err)
			}
			if len(events.events) != 0 {
				t.Errorf("events stored = %d, want 0", len(events.events))
			}
		})
	}
}
