package orchestrators

import (
	"context"
	"log/slog"

	memberStore "gymdesk/internal/adapters/storage/member"
	domainMember "gymdesk/internal/domain/member"
)

// SetForecastStatusInput carries the manual override request.
type SetForecastStatusInput struct {
	MemberID string
	Status   string // "", manual_dormant, manual_reregister
}

// SetForecastStatusDeps holds dependencies for SetForecastStatus.
type SetForecastStatusDeps struct {
	MemberStore memberStore.Store
}

// ExecuteSetForecastStatus applies a manual classification override to a
// member. The previous value is restored in memory when the save fails so a
// retry starts from true state.
// PRE: MemberID exists; Status is a valid override value
// POST: Member's ForecastStatus equals the requested value
func ExecuteSetForecastStatus(ctx context.Context, input SetForecastStatusInput, deps SetForecastStatusDeps) error {
	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}

	previous := m.ForecastStatus
	m.ForecastStatus = input.Status
	if err := m.Validate(); err != nil {
		m.ForecastStatus = previous
		return err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		m.ForecastStatus = previous
		return err
	}

	slog.Info("forecast_status_set", "member_id", m.ID, "status", displayStatus(input.Status), "previous", displayStatus(previous))
	return nil
}

func displayStatus(s string) string {
	if s == domainMember.ForecastNone {
		return "auto"
	}
	return s
}
