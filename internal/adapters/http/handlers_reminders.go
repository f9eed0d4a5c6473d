package web

import (
	"net/http"
	"strings"

	"gymdesk/internal/application/orchestrators"
)

// handleQueueReminders handles POST /api/reminders/queue
// Classifies members and queues one outbox email per re-register candidate.
func handleQueueReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		To        string
		Threshold int
	}
	if r.ContentLength > 0 {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}
	if input.To == "" {
		input.To = reminderRecipient
	}
	if input.To == "" {
		http.Error(w, "no reminder recipient configured", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteQueueReminders(ctx, orchestrators.QueueRemindersInput{
		To:        input.To,
		Threshold: input.Threshold,
		Now:       timeNow(),
	}, orchestrators.QueueRemindersDeps{
		MemberStore:  stores.MemberStore,
		SaleStore:    stores.SaleStore,
		SessionStore: stores.SessionStore,
		OutboxStore:  stores.OutboxStore,
		Now:          timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReminders handles GET /api/reminders (list outbox entries) and
// POST /api/reminders/:id/:action with action retry or abandon.
func handleReminders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		limit := queryInt(r, "limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}
		entries, err := stores.OutboxStore.List(ctx, limit)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(entries))

	case "POST":
		// Extract entry ID from path: /api/reminders/:id/:action
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[0] != "api" || parts[1] != "reminders" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		entryID := parts[2]
		action := parts[3]

		processor := orchestrators.NewReminderProcessor(stores.OutboxStore, emailSender)

		switch action {
		case "retry":
			if err := processor.ProcessSingle(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "retry triggered"})

		case "abandon":
			if err := processor.Abandon(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})

		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}
