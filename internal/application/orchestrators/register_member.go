package orchestrators

import (
	"context"
	"log/slog"
	"time"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/dateutil"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainMember "gymdesk/internal/domain/member"
)

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name             string
	Phone            string
	RegistrationDate string // YYYY-MM-DD, defaults to today
	Birthday         string // optional
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore   memberStore.Store
	CalendarStore calendarStore.Store
	Now           func() time.Time
}

// ExecuteRegisterMember creates a member and drops a new_member marker on the
// calendar. The marker is best effort; a calendar failure does not undo the
// member write.
// PRE: Non-empty name
// POST: Member persisted with a date-sequenced ID
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	regDate := dateutil.Normalize(input.RegistrationDate)
	if regDate == "" {
		regDate = dateutil.Format(now())
	}

	id, err := nextSeqID(ctx, EntityMember, regDate, deps.MemberStore.CountByDatePrefix)
	if err != nil {
		return "", err
	}

	m := domainMember.Member{
		ID:               id,
		Name:             input.Name,
		Phone:            input.Phone,
		RegistrationDate: regDate,
		Birthday:         dateutil.Normalize(input.Birthday),
	}
	if err := m.Validate(); err != nil {
		return "", err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return "", err
	}

	event := domainCalendar.Event{
		ID:       id + "-registered",
		Date:     regDate,
		Type:     domainCalendar.TypeNewMember,
		Title:    m.Name,
		MemberID: m.ID,
	}
	if err := deps.CalendarStore.Save(ctx, event); err != nil {
		slog.Warn("register_member_marker_failed", "member_id", m.ID, "error", err.Error())
	}

	slog.Info("member_registered", "member_id", m.ID, "name", m.Name)
	return m.ID, nil
}
