package web

import (
	"net/http"
	"strconv"

	activityStore "clubhouse/internal/adapters/storage/activity"
	activityDomain "clubhouse/internal/domain/activity"
)

// handleAdminActivity handles GET /api/admin/activity: the append-only
// activity log with optional filters.
// PRE: User must be authenticated as admin
// POST: Returns matching log entries, newest first
func handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	filter := activityStore.Filter{}
	if category := r.URL.Query().Get("category"); category != "" {
		cat := activityDomain.Category(category)
		filter.Category = &cat
	}
	if action := r.URL.Query().Get("action"); action != "" {
		act := activityDomain.Action(action)
		filter.Action = &act
	}
	if actorID := r.URL.Query().Get("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if resourceID := r.URL.Query().Get("resource_id"); resourceID != "" {
		filter.ResourceID = &resourceID
	}
	if fromDate := r.URL.Query().Get("from"); fromDate != "" {
		filter.FromDate = &fromDate
	}
	if toDate := r.URL.Query().Get("to"); toDate != "" {
		filter.ToDate = &toDate
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	entries, err := stores.ActivityStore.List(ctx, sess.AccountID, filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []activityDomain.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
