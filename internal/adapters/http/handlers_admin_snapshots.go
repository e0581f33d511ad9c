package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/orchestrators"
	activityDomain "clubhouse/internal/domain/activity"
	snapshotDomain "clubhouse/internal/domain/snapshot"
)

// snapshotBefore stores the prior state of a row before a destructive write.
// Failure to snapshot never blocks the write; it is logged and forgotten.
func snapshotBefore(r *http.Request, sess middleware.Session, ownerID string, table snapshotDomain.Table, recordID string, record any) {
	_, err := orchestrators.ExecuteTakeSnapshot(r.Context(), orchestrators.TakeSnapshotInput{
		OwnerID:  ownerID,
		Table:    table,
		RecordID: recordID,
		TakenBy:  sess.AccountID,
		Record:   record,
	}, orchestrators.TakeSnapshotDeps{
		SnapshotStore: stores.SnapshotStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		slog.Warn("snapshot_event", "event", "snapshot_skipped", "table", table, "record_id", recordID, "error", err.Error())
	}
}

// restoreStores wires every restorable table's save for the restore dispatch.
func restoreStores() orchestrators.RestoreStores {
	return orchestrators.RestoreStores{
		Members:      stores.MemberStore,
		Events:       stores.EventStore,
		Commissions:  stores.CommissionStore,
		Projects:     stores.ProjectStore,
		Transactions: stores.TransactionStore,
		Goals:        stores.GoalStore,
		Notes:        stores.NoteStore,
		Guests:       stores.VIPGuestStore,
		Meetings:     stores.MeetingStore,
	}
}

// handleAdminSnapshots handles GET /api/admin/snapshots: recent snapshots,
// or the history of one row when table and record_id are given.
func handleAdminSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	table := r.URL.Query().Get("table")
	recordID := r.URL.Query().Get("record_id")
	if table != "" && recordID != "" {
		snaps, err := stores.SnapshotStore.ListByRecord(ctx, sess.AccountID, snapshotDomain.Table(table), recordID)
		if err != nil {
			internalError(w, err)
			return
		}
		if snaps == nil {
			snaps = []snapshotDomain.Snapshot{}
		}
		writeJSON(w, http.StatusOK, snaps)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}
	snaps, err := stores.SnapshotStore.ListByOwnerID(ctx, sess.AccountID, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if snaps == nil {
		snaps = []snapshotDomain.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// handleAdminSnapshotActions handles GET /api/admin/snapshots/{id} and
// POST /api/admin/snapshots/{id}/restore.
func handleAdminSnapshotActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/admin/snapshots/")
	ctx := r.Context()

	switch {
	case r.Method == "GET" && len(parts) == 1:
		snap, err := stores.SnapshotStore.GetByID(ctx, parts[0])
		if err != nil || snap.OwnerID != sess.AccountID {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case r.Method == "POST" && len(parts) == 2 && parts[1] == "restore":
		err := orchestrators.ExecuteRestoreSnapshot(ctx, orchestrators.RestoreSnapshotInput{
			OwnerID:    sess.AccountID,
			SnapshotID: parts[0],
		}, orchestrators.RestoreSnapshotDeps{
			SnapshotStore: stores.SnapshotStore,
			Stores:        restoreStores(),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logActivity(r, sess, sess.AccountID, activityDomain.CategoryAdmin, activityDomain.ActionRestore, "snapshot", parts[0], "")
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "invalid path", http.StatusBadRequest)
	}
}

// handleAdminFlags handles GET (list) and POST (update) for /api/admin/flags.
func handleAdminFlags(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		flags, err := stores.FeatureFlagStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, flags)

	case "POST":
		var req struct {
			Key           string `json:"key"`
			EnabledAdmin  bool   `json:"enabled_admin"`
			EnabledMember bool   `json:"enabled_member"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		flag, err := stores.FeatureFlagStore.GetByKey(ctx, req.Key)
		if err != nil {
			http.Error(w, "unknown feature flag", http.StatusNotFound)
			return
		}
		flag.EnabledAdmin = req.EnabledAdmin
		flag.EnabledMember = req.EnabledMember
		if err := stores.FeatureFlagStore.Save(ctx, flag); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, flag)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
