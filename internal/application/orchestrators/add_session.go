package orchestrators

import (
	"context"
	"log/slog"
	"time"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	"gymdesk/internal/application/dateutil"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainSale "gymdesk/internal/domain/sale"
	domainSession "gymdesk/internal/domain/session"
)

// AddSessionInput carries input for the orchestrator.
type AddSessionInput struct {
	MemberID    string
	SessionDate string // YYYY-MM-DD, defaults to today
	// CompletionSourceID links the session back to the workout event that
	// produced it. Empty for manually logged sessions.
	CompletionSourceID string
	// SkipCalendarEvent suppresses the synthesized workout marker, used when
	// the session already originates from a calendar event.
	SkipCalendarEvent bool
}

// AddSessionResult reports the aggregate outcome of the multi-step write.
type AddSessionResult struct {
	SessionID     string
	UnitPrice     int
	MemberUpdated bool
	EventCreated  bool
}

// AddSessionDeps holds dependencies for AddSession.
type AddSessionDeps struct {
	MemberStore   memberStore.Store
	SaleStore     saleStore.Store
	SessionStore  sessionStore.Store
	CalendarStore calendarStore.Store
	Now           func() time.Time
}

// ExecuteAddSession logs one attended session against the member's active
// package. A zero remaining balance blocks the write entirely with
// sale.ErrNoRemainingSessions. The session, the member counter bump, and the
// synthesized workout event are independent writes with no rollback; the
// result reports which landed.
// PRE: MemberID exists
// POST: Session priced from the active package; member.UsedSessions +1
func ExecuteAddSession(ctx context.Context, input AddSessionInput, deps AddSessionDeps) (AddSessionResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return AddSessionResult{}, err
	}

	sales, err := deps.SaleStore.ListByMemberID(ctx, m.ID)
	if err != nil {
		return AddSessionResult{}, err
	}

	// The balance guard: no remaining sessions means no write at all.
	unitPrice, err := domainSale.FindActiveUnitPrice(sales, m.UsedSessions)
	if err != nil {
		return AddSessionResult{}, err
	}

	sessionDate := dateutil.Normalize(input.SessionDate)
	if sessionDate == "" {
		sessionDate = dateutil.Format(now())
	}

	id, err := nextSeqID(ctx, EntitySession, sessionDate, deps.SessionStore.CountByDatePrefix)
	if err != nil {
		return AddSessionResult{}, err
	}

	s := domainSession.Session{
		ID:                 id,
		SessionDate:        sessionDate,
		MemberID:           m.ID,
		MemberName:         m.Name,
		ClassCount:         1,
		UnitPrice:          unitPrice,
		CompletionSourceID: input.CompletionSourceID,
	}
	if err := s.Validate(); err != nil {
		return AddSessionResult{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return AddSessionResult{}, err
	}
	result := AddSessionResult{SessionID: s.ID, UnitPrice: unitPrice}

	m.ConsumeSessions(1)
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		slog.Error("add_session_member_update_failed", "session_id", s.ID, "member_id", m.ID, "error", err.Error())
	} else {
		result.MemberUpdated = true
	}

	if !input.SkipCalendarEvent {
		// The marker gets a one-slot interval so it occupies the grid like
		// any other workout.
		startTime, endTime, _ := domainCalendar.NormalizeInterval(now().Format("15:04"), "")
		event := domainCalendar.Event{
			ID:        s.ID + "-event",
			Date:      sessionDate,
			Type:      domainCalendar.TypeWorkout,
			Title:     m.Name,
			MemberID:  m.ID,
			StartTime: startTime,
			EndTime:   endTime,
			Status:    domainCalendar.StatusCompleted,
		}
		if err := deps.CalendarStore.Save(ctx, event); err != nil {
			slog.Warn("add_session_marker_failed", "session_id", s.ID, "error", err.Error())
		} else {
			result.EventCreated = true
		}
	}

	slog.Info("session_added", "session_id", s.ID, "member_id", m.ID, "unit_price", unitPrice)
	return result, nil
}
