package web

import (
	"net/http"
	"time"

	"clubhouse/internal/application/listutil"
	activityDomain "clubhouse/internal/domain/activity"
	memberDomain "clubhouse/internal/domain/member"
	permissionDomain "clubhouse/internal/domain/permission"
	snapshotDomain "clubhouse/internal/domain/snapshot"
)

// handleMembers handles GET (list) and POST (create) for /api/members.
func handleMembers(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionMembership)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		var (
			members []memberDomain.Member
			err     error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			members, err = stores.MemberStore.ListByOwnerIDAndStatus(ctx, ownerID, status)
		} else {
			members, err = stores.MemberStore.ListByOwnerID(ctx, ownerID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if members == nil {
			members = []memberDomain.Member{}
		}
		if r.URL.Query().Get("page") != "" {
			p := listutil.ParsePageParams(r.URL.Query())
			info := listutil.NewPageInfo(p.Page, p.PerPage, len(members))
			writeJSON(w, http.StatusOK, map[string]any{
				"members": listutil.Page(members, info),
				"page":    info,
			})
			return
		}
		writeJSON(w, http.StatusOK, members)

	case "POST":
		var req struct {
			Name     string    `json:"name"`
			Email    string    `json:"email"`
			Phone    string    `json:"phone"`
			Office   string    `json:"office"`
			Status   string    `json:"status"`
			JoinedAt time.Time `json:"joined_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Status == "" {
			req.Status = memberDomain.StatusActive
		}

		m := memberDomain.Member{
			ID:        generateID(),
			OwnerID:   ownerID,
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Office:    req.Office,
			Status:    req.Status,
			JoinedAt:  req.JoinedAt,
			CreatedAt: timeNow(),
		}
		if err := m.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.MemberStore.Save(ctx, m); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryMembers, activityDomain.ActionCreate, "member", m.ID, m.Name)
		writeJSON(w, http.StatusCreated, m)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMemberByID handles GET, PUT (partial update) and DELETE for
// /api/members/{id}. Updates and deletes snapshot the prior row first.
func handleMemberByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionMembership)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/members/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	m, err := stores.MemberStore.GetByID(ctx, parts[0])
	if err != nil || m.OwnerID != ownerID {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, m)

	case "PUT":
		var req struct {
			Name     *string    `json:"name"`
			Email    *string    `json:"email"`
			Phone    *string    `json:"phone"`
			Office   *string    `json:"office"`
			Status   *string    `json:"status"`
			JoinedAt *time.Time `json:"joined_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableMembers, m.ID, m)

		if req.Name != nil {
			m.Name = *req.Name
		}
		if req.Email != nil {
			m.Email = *req.Email
		}
		if req.Phone != nil {
			m.Phone = *req.Phone
		}
		if req.Office != nil {
			m.Office = *req.Office
		}
		if req.Status != nil {
			m.Status = *req.Status
		}
		if req.JoinedAt != nil {
			m.JoinedAt = *req.JoinedAt
		}
		if err := m.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.MemberStore.Save(ctx, m); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryMembers, activityDomain.ActionUpdate, "member", m.ID, m.Name)
		writeJSON(w, http.StatusOK, m)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableMembers, m.ID, m)
		if err := stores.MemberStore.Delete(ctx, m.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryMembers, activityDomain.ActionDelete, "member", m.ID, m.Name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
