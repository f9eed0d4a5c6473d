package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	"gymdesk/internal/application/dateutil"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainSale "gymdesk/internal/domain/sale"

	"github.com/google/uuid"
)

// Booking errors.
var (
	ErrSlotConflict  = errors.New("requested time conflicts with an existing booking")
	ErrEmptySchedule = errors.New("recurrence pattern produced no dates")
)

// BookScheduleInput carries input for the orchestrator. A nil Recurrence books
// a single occurrence on StartDate.
type BookScheduleInput struct {
	MemberID   string
	StartDate  string // YYYY-MM-DD
	StartTime  string // HH:MM
	EndTime    string // HH:MM, defaults to one slot after StartTime
	Recurrence *domainCalendar.Recurrence
}

// BookScheduleResult reports per-occurrence outcomes for a booking request.
type BookScheduleResult struct {
	RecurrenceID string
	Dates        []string
	Succeeded    int
	Failed       int
	Conflicts    []domainCalendar.Conflict
}

// BookScheduleDeps holds dependencies for BookSchedule.
type BookScheduleDeps struct {
	MemberStore   memberStore.Store
	SaleStore     saleStore.Store
	CalendarStore calendarStore.Store
	// GenerateRecurrenceID defaults to a random UUID.
	GenerateRecurrenceID func() string
}

// ExecuteBookSchedule books a single or recurring workout. The pattern is
// expanded first and checked against existing bookings; any conflict precludes
// the entire submission. Surviving occurrences are written one by one under a
// shared RecurrenceID with per-occurrence failures tolerated.
// PRE: MemberID exists
// POST: Either no writes (conflict/validation) or Succeeded+Failed == len(Dates);
// every written event expands to at least one grid slot
func ExecuteBookSchedule(ctx context.Context, input BookScheduleInput, deps BookScheduleDeps) (BookScheduleResult, error) {
	startTime, endTime, err := domainCalendar.NormalizeInterval(input.StartTime, input.EndTime)
	if err != nil {
		return BookScheduleResult{}, err
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return BookScheduleResult{}, err
	}

	var dates []string
	if input.Recurrence == nil {
		date := dateutil.Normalize(input.StartDate)
		if date == "" {
			return BookScheduleResult{}, fmt.Errorf("invalid booking date %q", input.StartDate)
		}
		dates = []string{date}
	} else {
		r := *input.Recurrence
		// A sessions-bounded series resolves the count against the member's
		// remaining balance at booking time.
		if r.End.Type == domainCalendar.EndBySessions {
			sales, err := deps.SaleStore.ListByMemberID(ctx, m.ID)
			if err != nil {
				return BookScheduleResult{}, err
			}
			r.End.Count = domainSale.TotalRemaining(sales, m.UsedSessions)
		}
		if err := r.Validate(); err != nil {
			return BookScheduleResult{}, err
		}
		dates = r.Expand()
	}
	if len(dates) == 0 {
		return BookScheduleResult{}, ErrEmptySchedule
	}

	// Conflict check across the whole span before any write.
	existing, err := deps.CalendarStore.List(ctx, calendarStore.ListFilter{
		Limit:    10000,
		FromDate: dates[0],
		ToDate:   dates[len(dates)-1],
		Type:     domainCalendar.TypeWorkout,
	})
	if err != nil {
		return BookScheduleResult{}, err
	}
	index := domainCalendar.BuildBookingIndex(existing)
	conflicts := domainCalendar.CheckRecurringConflicts(index, dates, startTime)
	if len(conflicts) > 0 {
		return BookScheduleResult{Dates: dates, Conflicts: conflicts}, ErrSlotConflict
	}

	generateID := deps.GenerateRecurrenceID
	if generateID == nil {
		generateID = uuid.NewString
	}
	recurrenceID := ""
	if input.Recurrence != nil {
		recurrenceID = generateID()
	}

	result := BookScheduleResult{RecurrenceID: recurrenceID, Dates: dates}
	for i, date := range dates {
		event := domainCalendar.Event{
			ID:           fmt.Sprintf("%s-%s-%d", EntitySchedule, recurrenceKey(recurrenceID, date), i+1),
			Date:         date,
			Type:         domainCalendar.TypeWorkout,
			Title:        m.Name,
			StartTime:    startTime,
			EndTime:      endTime,
			MemberID:     m.ID,
			RecurrenceID: recurrenceID,
			Status:       domainCalendar.StatusScheduled,
		}
		if err := event.Validate(); err != nil {
			return result, err
		}
		if err := deps.CalendarStore.Save(ctx, event); err != nil {
			result.Failed++
			slog.Error("book_schedule_occurrence_failed", "date", date, "member_id", m.ID, "error", err.Error())
			continue
		}
		result.Succeeded++
	}

	slog.Info("schedule_booked", "member_id", m.ID, "recurrence_id", recurrenceID,
		"succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// recurrenceKey keeps single-booking IDs readable while letting series share
// their UUID.
func recurrenceKey(recurrenceID, date string) string {
	if recurrenceID == "" {
		return date
	}
	return recurrenceID
}

// PreviewScheduleResult carries the dry-run expansion for the booking form.
type PreviewScheduleResult struct {
	Dates     []string
	Conflicts []domainCalendar.Conflict // capped at the preview limit
}

// ExecutePreviewSchedule expands a recurrence and reports conflicts without
// writing anything. The conflict list is capped for display.
// PRE: Recurrence validates; StartTime is HH:MM
// POST: No writes; Conflicts has at most the preview cap
func ExecutePreviewSchedule(ctx context.Context, input BookScheduleInput, deps BookScheduleDeps) (PreviewScheduleResult, error) {
	startTime, _, err := domainCalendar.NormalizeInterval(input.StartTime, input.EndTime)
	if err != nil {
		return PreviewScheduleResult{}, err
	}

	var dates []string
	if input.Recurrence == nil {
		date := dateutil.Normalize(input.StartDate)
		if date == "" {
			return PreviewScheduleResult{}, fmt.Errorf("invalid booking date %q", input.StartDate)
		}
		dates = []string{date}
	} else {
		r := *input.Recurrence
		if r.End.Type == domainCalendar.EndBySessions && input.MemberID != "" {
			m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
			if err != nil {
				return PreviewScheduleResult{}, err
			}
			sales, err := deps.SaleStore.ListByMemberID(ctx, m.ID)
			if err != nil {
				return PreviewScheduleResult{}, err
			}
			r.End.Count = domainSale.TotalRemaining(sales, m.UsedSessions)
		}
		if err := r.Validate(); err != nil {
			return PreviewScheduleResult{}, err
		}
		dates = r.Expand()
	}
	if len(dates) == 0 {
		return PreviewScheduleResult{}, nil
	}

	existing, err := deps.CalendarStore.List(ctx, calendarStore.ListFilter{
		Limit:    10000,
		FromDate: dates[0],
		ToDate:   dates[len(dates)-1],
		Type:     domainCalendar.TypeWorkout,
	})
	if err != nil {
		return PreviewScheduleResult{}, err
	}
	index := domainCalendar.BuildBookingIndex(existing)

	return PreviewScheduleResult{
		Dates:     dates,
		Conflicts: domainCalendar.CheckRecurringConflicts(index, dates, startTime),
	}, nil
}
