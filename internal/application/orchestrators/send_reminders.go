package orchestrators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/email"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	domainOutbox "gymdesk/internal/domain/outbox"

	"github.com/yuin/goldmark"
)

// ReminderProcessor drains the reminder outbox with retry and backoff.
type ReminderProcessor struct {
	store     outboxStore.Store
	sender    email.Sender
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// NewReminderProcessor creates a processor with the standard retry policy.
func NewReminderProcessor(store outboxStore.Store, sender email.Sender) *ReminderProcessor {
	return &ReminderProcessor{
		store:     store,
		sender:    sender,
		now:       time.Now,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending sends retryable reminder entries that have cleared their
// backoff window. Per-entry failures are recorded and retried later.
// PRE: Context is valid
// POST: Every processed entry has an updated status and attempt count
func (p *ReminderProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListRetryable(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list retryable outbox entries: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("reminder_process_failed", "entry_id", entry.ID, "error", err.Error())
		}
	}
	return nil
}

// processEntry attempts one entry, honouring its backoff window.
func (p *ReminderProcessor) processEntry(ctx context.Context, entry domainOutbox.Entry) error {
	if !entry.LastAttemptedAt.IsZero() {
		delay := entry.NextRetryDelay(p.baseDelay, p.maxDelay)
		if p.now().Sub(entry.LastAttemptedAt) < delay {
			return nil // backoff window still open
		}
	}

	entry.MarkAttempt(p.now())
	messageID, err := p.send(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("reminder_send_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err.Error())
	} else {
		entry.MarkSuccess(messageID)
		slog.Info("reminder_sent", "entry_id", entry.ID, "message_id", messageID)
	}

	return p.store.Save(ctx, entry)
}

// ProcessSingle forces one attempt on a specific entry (operator retry).
// PRE: entryID is non-empty
// POST: Entry attempted regardless of backoff; status updated
func (p *ReminderProcessor) ProcessSingle(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.Status == domainOutbox.StatusDone || entry.Status == domainOutbox.StatusAbandoned {
		return fmt.Errorf("entry %s already %s", entryID, entry.Status)
	}

	entry.MarkAttempt(p.now())
	messageID, err := p.send(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
	} else {
		entry.MarkSuccess(messageID)
	}
	return p.store.Save(ctx, entry)
}

// Abandon marks an entry as given up by the operator.
// PRE: entryID is non-empty
// POST: Entry status set to abandoned
func (p *ReminderProcessor) Abandon(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	entry.MarkAbandoned()
	return p.store.Save(ctx, entry)
}

// send renders the payload into an HTML email and hands it to the sender.
func (p *ReminderProcessor) send(ctx context.Context, payload string) (string, error) {
	var r ReminderPayload
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return "", fmt.Errorf("unmarshal reminder payload: %w", err)
	}

	html, err := renderReminderHTML(r)
	if err != nil {
		return "", err
	}

	result, err := p.sender.Send(ctx, email.SendRequest{
		To:      []string{r.To},
		Subject: fmt.Sprintf("Re-registration reminder: %s", r.MemberName),
		HTML:    html,
	})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}

// renderReminderHTML builds the markdown body and converts it to HTML.
func renderReminderHTML(r ReminderPayload) (string, error) {
	var md bytes.Buffer
	fmt.Fprintf(&md, "## Re-registration reminder\n\n")
	fmt.Fprintf(&md, "**%s** has %d session(s) remaining on their current package.\n\n", r.MemberName, r.Remaining)
	if r.LastSessionDate != "" {
		fmt.Fprintf(&md, "Last attended session: %s\n\n", r.LastSessionDate)
	} else {
		fmt.Fprintf(&md, "No attended sessions on record yet.\n\n")
	}
	fmt.Fprintf(&md, "Consider reaching out about a new session package.\n")

	var html bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &html); err != nil {
		return "", fmt.Errorf("render reminder markdown: %w", err)
	}
	return html.String(), nil
}

// StartBackgroundWorker runs the reminder processor on a fixed interval until
// stopCh is closed. Errors are logged, never fatal.
func StartBackgroundWorker(processor *ReminderProcessor, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				if err := processor.ProcessPending(ctx); err != nil {
					slog.Error("reminder_background_process_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("reminder_background_worker_stopped")
				return
			}
		}
	}()
}
