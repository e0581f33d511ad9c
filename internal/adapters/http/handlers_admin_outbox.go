package web

import (
	"net/http"
	"strconv"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/outbox"
)

// handleAdminOutbox handles admin endpoints for managing outbox entries.
// Routes: GET /api/admin/outbox (list failed entries),
// POST /api/admin/outbox/{id}/retry, POST /api/admin/outbox/{id}/abandon.
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		// List failed entries (permanently failed or max retries)
		limitStr := r.URL.Query().Get("limit")
		limit := 50
		if limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		status := r.URL.Query().Get("status")
		if status == "" {
			status = outbox.StatusFailed
		}

		var entries []outbox.Entry
		var err error

		if status == "all" {
			entries, err = stores.OutboxStore.ListPending(ctx, limit)
		} else {
			entries, err = stores.OutboxStore.ListFailed(ctx, limit)
		}

		if err != nil {
			internalError(w, err)
			return
		}
		if entries == nil {
			entries = []outbox.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)

	case "POST":
		parts := pathSuffix(r, "/api/admin/outbox/")
		if len(parts) != 2 {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		entryID, action := parts[0], parts[1]

		processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
			outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: emailSender},
		})

		switch action {
		case "retry":
			if err := processor.ProcessSingle(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "retry triggered"})

		case "abandon":
			if err := processor.AbandonEntry(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})

		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
