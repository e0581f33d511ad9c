package web

import (
	"net/http"
	"time"

	activityDomain "clubhouse/internal/domain/activity"
	commissionDomain "clubhouse/internal/domain/commission"
	permissionDomain "clubhouse/internal/domain/permission"
	projectDomain "clubhouse/internal/domain/project"
	snapshotDomain "clubhouse/internal/domain/snapshot"
)

// handleCommissions handles GET (list) and POST (create) for
// /api/commissions. Secretariat section.
func handleCommissions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		commissions, err := stores.CommissionStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if commissions == nil {
			commissions = []commissionDomain.Commission{}
		}
		writeJSON(w, http.StatusOK, commissions)

	case "POST":
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			ChairName   string `json:"chair_name"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		c := commissionDomain.Commission{
			ID:          generateID(),
			OwnerID:     ownerID,
			Name:        req.Name,
			Description: req.Description,
			ChairName:   req.ChairName,
			Status:      commissionDomain.StatusActive,
			CreatedAt:   timeNow(),
			UpdatedAt:   timeNow(),
		}
		if err := c.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.CommissionStore.Save(ctx, c); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionCreate, "commission", c.ID, c.Name)
		writeJSON(w, http.StatusCreated, c)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCommissionByID handles GET, PUT, DELETE for /api/commissions/{id}
// and GET /api/commissions/{id}/projects.
func handleCommissionByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionSecretariat)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/commissions/")
	ctx := r.Context()
	if len(parts) == 0 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	c, err := stores.CommissionStore.GetByID(ctx, parts[0])
	if err != nil || c.OwnerID != ownerID {
		http.Error(w, "commission not found", http.StatusNotFound)
		return
	}

	if r.Method == "GET" && len(parts) == 2 && parts[1] == "projects" {
		projects, err := stores.ProjectStore.ListByCommissionID(ctx, c.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		if projects == nil {
			projects = []projectDomain.Project{}
		}
		writeJSON(w, http.StatusOK, projects)
		return
	}
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, c)

	case "PUT":
		var req struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			ChairName   *string `json:"chair_name"`
			Status      *string `json:"status"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableCommissions, c.ID, c)

		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.ChairName != nil {
			c.ChairName = *req.ChairName
		}
		if req.Status != nil {
			c.Status = *req.Status
		}
		c.UpdatedAt = timeNow()
		if err := c.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.CommissionStore.Save(ctx, c); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionUpdate, "commission", c.ID, c.Name)
		writeJSON(w, http.StatusOK, c)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableCommissions, c.ID, c)
		if err := stores.CommissionStore.Delete(ctx, c.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionDelete, "commission", c.ID, c.Name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProjects handles GET (list) and POST (create) for /api/projects.
// Service projects belong to the presidency section.
func handleProjects(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPresidency)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		projects, err := stores.ProjectStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if projects == nil {
			projects = []projectDomain.Project{}
		}
		writeJSON(w, http.StatusOK, projects)

	case "POST":
		var req struct {
			CommissionID string    `json:"commission_id"`
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			Status       string    `json:"status"`
			BudgetCents  int64     `json:"budget_cents"`
			StartsAt     time.Time `json:"starts_at"`
			EndsAt       time.Time `json:"ends_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Status == "" {
			req.Status = projectDomain.StatusProposed
		}

		p := projectDomain.Project{
			ID:           generateID(),
			OwnerID:      ownerID,
			CommissionID: req.CommissionID,
			Title:        req.Title,
			Description:  req.Description,
			Status:       req.Status,
			BudgetCents:  req.BudgetCents,
			StartsAt:     req.StartsAt,
			EndsAt:       req.EndsAt,
			CreatedAt:    timeNow(),
			UpdatedAt:    timeNow(),
		}
		if err := p.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.ProjectStore.Save(ctx, p); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionCreate, "project", p.ID, p.Title)
		writeJSON(w, http.StatusCreated, p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProjectByID handles GET, PUT, DELETE for /api/projects/{id}.
func handleProjectByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPresidency)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/projects/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	p, err := stores.ProjectStore.GetByID(ctx, parts[0])
	if err != nil || p.OwnerID != ownerID {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, p)

	case "PUT":
		var req struct {
			CommissionID *string    `json:"commission_id"`
			Title        *string    `json:"title"`
			Description  *string    `json:"description"`
			Status       *string    `json:"status"`
			BudgetCents  *int64     `json:"budget_cents"`
			StartsAt     *time.Time `json:"starts_at"`
			EndsAt       *time.Time `json:"ends_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableProjects, p.ID, p)

		if req.CommissionID != nil {
			p.CommissionID = *req.CommissionID
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		if req.BudgetCents != nil {
			p.BudgetCents = *req.BudgetCents
		}
		if req.StartsAt != nil {
			p.StartsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			p.EndsAt = *req.EndsAt
		}
		p.UpdatedAt = timeNow()
		if err := p.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.ProjectStore.Save(ctx, p); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionUpdate, "project", p.ID, p.Title)
		writeJSON(w, http.StatusOK, p)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableProjects, p.ID, p)
		if err := stores.ProjectStore.Delete(ctx, p.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionDelete, "project", p.ID, p.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
