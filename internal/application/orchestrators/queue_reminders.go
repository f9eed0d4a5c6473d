package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	memberStore "gymdesk/internal/adapters/storage/member"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	"gymdesk/internal/application/projections"
	domainOutbox "gymdesk/internal/domain/outbox"

	"github.com/google/uuid"
)

// ReminderPayload is the JSON stored in the outbox for one reminder email.
type ReminderPayload struct {
	To              string `json:"to"`
	MemberID        string `json:"member_id"`
	MemberName      string `json:"member_name"`
	Remaining       int    `json:"remaining"`
	LastSessionDate string `json:"last_session_date,omitempty"`
}

// QueueRemindersInput carries input for the orchestrator.
type QueueRemindersInput struct {
	// To is the front-desk address that receives the reminder digest entries.
	To        string
	Threshold int       // <= 0 uses the default re-register threshold
	Now       time.Time // zero value uses time.Now
}

// QueueRemindersResult reports how many reminders were queued.
type QueueRemindersResult struct {
	Candidates int
	Queued     int
	Failed     int
}

// QueueRemindersDeps holds dependencies for QueueReminders.
type QueueRemindersDeps struct {
	MemberStore  memberStore.Store
	SaleStore    saleStore.Store
	SessionStore sessionStore.Store
	OutboxStore  outboxStore.Store
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteQueueReminders classifies members and queues one durable outbox email
// per re-register candidate. Queuing is per candidate; one failure does not
// stop the rest.
// PRE: To is a deliverable address
// POST: Queued+Failed == Candidates; entries start in pending status
func ExecuteQueueReminders(ctx context.Context, input QueueRemindersInput, deps QueueRemindersDeps) (QueueRemindersResult, error) {
	if input.To == "" {
		return QueueRemindersResult{}, fmt.Errorf("reminder recipient address is required")
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	generateID := deps.GenerateID
	if generateID == nil {
		generateID = uuid.NewString
	}

	buckets, err := projections.QueryGetForecastBuckets(ctx, projections.GetForecastBucketsQuery{
		Threshold: input.Threshold,
		Now:       input.Now,
	}, projections.GetForecastBucketsDeps{
		MemberStore:  deps.MemberStore,
		SaleStore:    deps.SaleStore,
		SessionStore: deps.SessionStore,
	})
	if err != nil {
		return QueueRemindersResult{}, err
	}

	result := QueueRemindersResult{Candidates: len(buckets.Buckets.Reregister)}
	for _, c := range buckets.Buckets.Reregister {
		payload, err := json.Marshal(ReminderPayload{
			To:              input.To,
			MemberID:        c.MemberID,
			MemberName:      c.Name,
			Remaining:       c.Remaining,
			LastSessionDate: c.LastSessionDate,
		})
		if err != nil {
			result.Failed++
			continue
		}

		entry := domainOutbox.Entry{
			ID:          generateID(),
			ActionType:  domainOutbox.ActionTypeReminderEmail,
			Payload:     string(payload),
			Status:      domainOutbox.StatusPending,
			MaxAttempts: domainOutbox.DefaultMaxAttempts,
			CreatedAt:   now(),
		}
		if err := entry.Validate(); err != nil {
			result.Failed++
			slog.Error("queue_reminder_invalid", "member_id", c.MemberID, "error", err.Error())
			continue
		}
		if err := deps.OutboxStore.Save(ctx, entry); err != nil {
			result.Failed++
			slog.Error("queue_reminder_failed", "member_id", c.MemberID, "error", err.Error())
			continue
		}
		result.Queued++
	}

	slog.Info("reminders_queued", "candidates", result.Candidates, "queued", result.Queued, "failed", result.Failed)
	return result, nil
}
