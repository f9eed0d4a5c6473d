package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	sessionStore "gymdesk/internal/adapters/storage/session"
)

// ErrSessionNotFound reports a removal against a missing session.
var ErrSessionNotFound = errors.New("session not found")

// RemoveSessionDeps holds dependencies for RemoveSession.
type RemoveSessionDeps struct {
	MemberStore   memberStore.Store
	SessionStore  sessionStore.Store
	CalendarStore calendarStore.Store
}

// RemoveSessionResult reports the aggregate outcome of the multi-step write.
type RemoveSessionResult struct {
	MemberUpdated bool
	EventDeleted  bool
}

// ExecuteRemoveSession deletes a logged session, refunds the member's
// used-session counter, and removes the linked calendar marker. Independent
// writes, no rollback.
// PRE: sessionID is non-empty
// POST: Session removed; member.UsedSessions -1 unless already zero
func ExecuteRemoveSession(ctx context.Context, sessionID string, deps RemoveSessionDeps) (RemoveSessionResult, error) {
	s, err := deps.SessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return RemoveSessionResult{}, ErrSessionNotFound
	}

	if err := deps.SessionStore.Delete(ctx, sessionID); err != nil {
		return RemoveSessionResult{}, err
	}
	result := RemoveSessionResult{}

	m, err := deps.MemberStore.GetByID(ctx, s.MemberID)
	if err != nil {
		slog.Warn("remove_session_member_missing", "session_id", sessionID, "member_id", s.MemberID)
	} else {
		if err := m.RefundSessions(s.ClassCount); err != nil {
			slog.Warn("remove_session_refund_clamped", "session_id", sessionID, "member_id", m.ID, "used", m.UsedSessions)
		} else if err := deps.MemberStore.Save(ctx, m); err != nil {
			slog.Error("remove_session_member_update_failed", "member_id", m.ID, "error", err.Error())
		} else {
			result.MemberUpdated = true
		}
	}

	// The synthesized marker shares the session's ID with an -event suffix.
	if err := deps.CalendarStore.Delete(ctx, sessionID+"-event"); err != nil {
		slog.Debug("remove_session_marker_missing", "session_id", sessionID)
	} else {
		result.EventDeleted = true
	}

	slog.Info("session_removed", "session_id", sessionID, "member_id", s.MemberID)
	return result, nil
}
