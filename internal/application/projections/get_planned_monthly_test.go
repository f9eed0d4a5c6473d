package projections

import (
	"context"
	"testing"
	"time"

	storageWeekly "gymdesk/internal/adapters/storage/weekly"
	domainWeekly "gymdesk/internal/domain/weekly"
)

type mockPlannedWeeklyStore struct {
	entries []domainWeekly.Entry
}

// List returns seeded entries matching the status filter.
// PRE: filter is valid
// POST: Returns entries with the requested status
func (m *mockPlannedWeeklyStore) List(_ context.Context, filter storageWeekly.ListFilter) ([]domainWeekly.Entry, error) {
	var out []domainWeekly.Entry
	for _, e := range m.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// TestQueryGetPlannedMonthly_CountsWeekdayOccurrences verifies the monthly
// expansion of confirmed weekly slots.
func TestQueryGetPlannedMonthly_CountsWeekdayOccurrences(t *testing.T) {
	deps := GetPlannedMonthlyDeps{
		WeeklyStore: &mockPlannedWeeklyStore{entries: []domainWeekly.Entry{
			// March 2024 has 4 Mondays and 4 Wednesdays.
			{ID: "w1", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", MemberID: "m1", MemberName: "Kim", Status: domainWeekly.StatusConfirmed},
			{ID: "w2", DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", MemberID: "m1", MemberName: "Kim", Status: domainWeekly.StatusConfirmed},
		}},
	}

	res, err := QueryGetPlannedMonthly(context.Background(), GetPlannedMonthlyQuery{Year: 2024, Month: time.March}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Members) != 1 {
		t.Fatalf("members = %d, want 1", len(res.Members))
	}
	if res.Members[0].Sessions != 8 {
		t.Errorf("sessions = %d, want 8", res.Members[0].Sessions)
	}
	if res.TotalSessions != 8 {
		t.Errorf("total = %d, want 8", res.TotalSessions)
	}
}

// TestQueryGetPlannedMonthly_IgnoresPlannedEntries verifies only confirmed
// entries count toward the plan.
func TestQueryGetPlannedMonthly_IgnoresPlannedEntries(t *testing.T) {
	deps := GetPlannedMonthlyDeps{
		WeeklyStore: &mockPlannedWeeklyStore{entries: []domainWeekly.Entry{
			{ID: "w1", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", MemberID: "m1", MemberName: "Kim", Status: domainWeekly.StatusPlanned},
		}},
	}

	res, err := QueryGetPlannedMonthly(context.Background(), GetPlannedMonthlyQuery{Year: 2024, Month: time.March}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalSessions != 0 {
		t.Errorf("total = %d, want 0", res.TotalSessions)
	}
}

// TestQueryGetPlannedMonthly_GroupsPerMember verifies totals aggregate per member.
func TestQueryGetPlannedMonthly_GroupsPerMember(t *testing.T) {
	deps := GetPlannedMonthlyDeps{
		WeeklyStore: &mockPlannedWeeklyStore{entries: []domainWeekly.Entry{
			{ID: "w1", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", MemberID: "m1", MemberName: "Kim", Status: domainWeekly.StatusConfirmed},
			{ID: "w2", DayOfWeek: 5, StartTime: "18:00", EndTime: "19:00", MemberID: "m2", MemberName: "Lee", Status: domainWeekly.StatusConfirmed},
		}},
	}

	// March 2024: 4 Mondays, 5 Fridays.
	res, err := QueryGetPlannedMonthly(context.Background(), GetPlannedMonthlyQuery{Year: 2024, Month: time.March}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(res.Members))
	}
	if res.Members[0].Sessions != 4 || res.Members[1].Sessions != 5 {
		t.Errorf("sessions = %d/%d, want 4/5", res.Members[0].Sessions, res.Members[1].Sessions)
	}
	if res.TotalSessions != 9 {
		t.Errorf("total = %d, want 9", res.TotalSessions)
	}
}
