package web

import (
	"errors"
	"log/slog"
	"net/http"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	activityDomain "clubhouse/internal/domain/activity"
	permissionDomain "clubhouse/internal/domain/permission"
	requestDomain "clubhouse/internal/domain/request"
)

// handleSectionRequests handles the per-section request board:
// GET /api/sections/{section}/requests?status= (threads)
// POST /api/sections/{section}/requests (submit a top-level request)
// GET /api/sections/{section}/responsible (the contact shown on the board)
func handleSectionRequests(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "requests") {
		return
	}
	parts := pathSuffix(r, "/api/sections/")
	if len(parts) != 2 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	section := permissionDomain.Section(parts[0])
	if !permissionDomain.ValidSection(section) {
		http.Error(w, "unknown section", http.StatusNotFound)
		return
	}
	ownerID, ok := requireSection(w, r, sess, section)
	if !ok {
		return
	}
	ctx := r.Context()

	switch {
	case r.Method == "GET" && parts[1] == "responsible":
		resp, found := resolver.ResponsibleFor(ctx, authzSession(sess), section)
		if !found {
			writeJSON(w, http.StatusOK, map[string]any{"assigned": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assigned": true, "name": resp.Name, "email": resp.Email})

	case r.Method == "GET" && parts[1] == "requests":
		status := r.URL.Query().Get("status")
		if status == "" {
			status = requestDomain.StatusActive
		}
		threads, err := projections.QueryGetRequestThreads(ctx, projections.GetRequestThreadsQuery{
			OwnerID: ownerID,
			Section: section,
			Status:  status,
		}, projections.GetRequestThreadsDeps{
			RequestStore: stores.RequestStore,
			AccountStore: stores.AccountStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		if threads == nil {
			threads = []projections.RequestThread{}
		}
		writeJSON(w, http.StatusOK, threads)

	case r.Method == "POST" && parts[1] == "requests":
		var req struct {
			Content string `json:"content"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		created, err := orchestrators.ExecuteSubmitRequest(ctx, orchestrators.SubmitRequestInput{
			Session: authzSession(sess),
			Section: section,
			Content: req.Content,
		}, orchestrators.SubmitRequestDeps{
			RequestStore: stores.RequestStore,
			Resolver:     resolver,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		notifyResponsible(r, sess, section, req.Content)
		logActivity(r, sess, ownerID, activityDomain.CategoryRequests, activityDomain.ActionCreate, "request", created.ID, string(section))
		writeJSON(w, http.StatusCreated, created)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// notifyResponsible queues a board notification email to the section
// responsible, when one is assigned with an email address. Never fails the
// submit.
func notifyResponsible(r *http.Request, sess middleware.Session, section permissionDomain.Section, content string) {
	resp, found := resolver.ResponsibleFor(r.Context(), authzSession(sess), section)
	if !found || resp.Email == "" || resp.Email == sess.Email {
		return
	}
	author := sess.Name
	if author == "" {
		author = sess.Email
	}
	_, err := orchestrators.ExecuteEnqueueEmail(r.Context(), orchestrators.EnqueueEmailInput{
		To:      []string{resp.Email},
		Subject: email.RequestNotificationSubject(string(section)),
		HTML:    email.RequestNotificationHTML(string(section), author, content),
	}, orchestrators.EnqueueEmailDeps{
		OutboxStore: stores.OutboxStore,
		GenerateID:  generateID,
		Now:         timeNow,
	})
	if err != nil {
		slog.Warn("request_event", "event", "notify_skipped", "section", section, "error", err.Error())
	}
}

// handleRequestActions handles POST /api/requests/{id}/reply and
// POST /api/requests/{id}/archive.
func handleRequestActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "requests") {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	parts := pathSuffix(r, "/api/requests/")
	if len(parts) != 2 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	isAdmin := sess.Role == "admin"

	switch parts[1] {
	case "reply":
		var req struct {
			Content string `json:"content"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		reply, err := orchestrators.ExecuteReplyRequest(ctx, orchestrators.ReplyRequestInput{
			Session:  authzSession(sess),
			ParentID: parts[0],
			Content:  req.Content,
			IsAdmin:  isAdmin,
		}, orchestrators.ReplyRequestDeps{
			RequestStore: stores.RequestStore,
			Resolver:     resolver,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrNotResponsible):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, requestDomain.ErrReplyToReply), errors.Is(err, orchestrators.ErrRequestArchived):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		writeJSON(w, http.StatusCreated, reply)

	case "archive":
		err := orchestrators.ExecuteArchiveRequest(ctx, orchestrators.ArchiveRequestInput{
			Session:   authzSession(sess),
			RequestID: parts[0],
			IsAdmin:   isAdmin,
		}, orchestrators.ArchiveRequestDeps{
			RequestStore: stores.RequestStore,
			Resolver:     resolver,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrNotResponsible) {
				http.Error(w, err.Error(), http.StatusForbidden)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// handlePermissions handles GET (list grants) and POST (grant) for
// /api/permissions. Admin only.
func handlePermissions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		perms, err := stores.PermissionStore.ListByOwnerID(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if perms == nil {
			perms = []permissionDomain.SectionPermission{}
		}
		writeJSON(w, http.StatusOK, perms)

	case "POST":
		var req struct {
			UserID  string `json:"user_id"`
			Section string `json:"section"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		p, err := orchestrators.ExecuteGrantPermission(ctx, orchestrators.GrantPermissionInput{
			OwnerID: sess.AccountID,
			UserID:  req.UserID,
			Section: permissionDomain.Section(req.Section),
		}, orchestrators.GrantPermissionDeps{
			PermissionStore: stores.PermissionStore,
			GenerateID:      generateID,
			Now:             timeNow,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logActivity(r, sess, sess.AccountID, activityDomain.CategoryAdmin, activityDomain.ActionGrant, "permission", p.ID, req.Section)
		writeJSON(w, http.StatusCreated, p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePermissionActions handles DELETE /api/permissions/{id} (revoke) and
// POST /api/permissions/{id}/responsible (make responsible). Admin only.
func handlePermissionActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/permissions/")
	ctx := r.Context()

	switch {
	case r.Method == "DELETE" && len(parts) == 1:
		err := orchestrators.ExecuteRevokePermission(ctx, orchestrators.RevokePermissionInput{
			OwnerID:      sess.AccountID,
			PermissionID: parts[0],
		}, orchestrators.RevokePermissionDeps{PermissionStore: stores.PermissionStore})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logActivity(r, sess, sess.AccountID, activityDomain.CategoryAdmin, activityDomain.ActionRevoke, "permission", parts[0], "")
		w.WriteHeader(http.StatusNoContent)

	case r.Method == "POST" && len(parts) == 2 && parts[1] == "responsible":
		err := orchestrators.ExecuteSetResponsible(ctx, orchestrators.SetResponsibleInput{
			OwnerID:      sess.AccountID,
			PermissionID: parts[0],
		}, orchestrators.SetResponsibleDeps{PermissionStore: stores.PermissionStore})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "invalid path", http.StatusBadRequest)
	}
}
