package web

import (
	"net/http"
	"time"

	activityDomain "clubhouse/internal/domain/activity"
	goalDomain "clubhouse/internal/domain/goal"
	meetingDomain "clubhouse/internal/domain/meeting"
	noteDomain "clubhouse/internal/domain/note"
	permissionDomain "clubhouse/internal/domain/permission"
	snapshotDomain "clubhouse/internal/domain/snapshot"
)

// handleGoals handles GET (list) and POST (create) for /api/goals.
// Presidency section.
func handleGoals(w http.ResponseWriter, r *http.Request) {
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
		var (
			goals []goalDomain.Goal
			err   error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			goals, err = stores.GoalStore.ListByOwnerIDAndStatus(ctx, ownerID, status)
		} else {
			goals, err = stores.GoalStore.ListByOwnerID(ctx, ownerID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if goals == nil {
			goals = []goalDomain.Goal{}
		}
		writeJSON(w, http.StatusOK, goals)

	case "POST":
		var req struct {
			Title  string    `json:"title"`
			Notes  string    `json:"notes"`
			Target int       `json:"target"`
			DueAt  time.Time `json:"due_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		g := goalDomain.Goal{
			ID:        generateID(),
			OwnerID:   ownerID,
			Title:     req.Title,
			Notes:     req.Notes,
			Target:    req.Target,
			Status:    goalDomain.StatusOpen,
			DueAt:     req.DueAt,
			CreatedAt: timeNow(),
			UpdatedAt: timeNow(),
		}
		if err := g.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.GoalStore.Save(ctx, g); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionCreate, "goal", g.ID, g.Title)
		writeJSON(w, http.StatusCreated, g)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGoalByID handles GET, PUT, DELETE for /api/goals/{id}.
func handleGoalByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPresidency)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/goals/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	g, err := stores.GoalStore.GetByID(ctx, parts[0])
	if err != nil || g.OwnerID != ownerID {
		http.Error(w, "goal not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, g)

	case "PUT":
		var req struct {
			Title    *string    `json:"title"`
			Notes    *string    `json:"notes"`
			Target   *int       `json:"target"`
			Progress *int       `json:"progress"`
			Status   *string    `json:"status"`
			DueAt    *time.Time `json:"due_at"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableGoals, g.ID, g)

		if req.Title != nil {
			g.Title = *req.Title
		}
		if req.Notes != nil {
			g.Notes = *req.Notes
		}
		if req.Target != nil {
			g.Target = *req.Target
		}
		if req.Progress != nil {
			g.Progress = *req.Progress
		}
		if req.Status != nil {
			g.Status = *req.Status
		}
		if req.DueAt != nil {
			g.DueAt = *req.DueAt
		}
		g.UpdatedAt = timeNow()
		if err := g.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.GoalStore.Save(ctx, g); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionUpdate, "goal", g.ID, g.Title)
		writeJSON(w, http.StatusOK, g)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableGoals, g.ID, g)
		if err := stores.GoalStore.Delete(ctx, g.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionDelete, "goal", g.ID, g.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleNotes handles GET (list, pinned first) and POST (create) for
// /api/notes.
func handleNotes(w http.ResponseWriter, r *http.Request) {
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
		notes, err := stores.NoteStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if notes == nil {
			notes = []noteDomain.Note{}
		}
		writeJSON(w, http.StatusOK, notes)

	case "POST":
		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Pinned  bool   `json:"pinned"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		n := noteDomain.Note{
			ID:        generateID(),
			OwnerID:   ownerID,
			AuthorID:  sess.AccountID,
			Title:     req.Title,
			Content:   req.Content,
			Pinned:    req.Pinned,
			CreatedAt: timeNow(),
			UpdatedAt: timeNow(),
		}
		if err := n.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.NoteStore.Save(ctx, n); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionCreate, "note", n.ID, n.Title)
		writeJSON(w, http.StatusCreated, n)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleNoteByID handles GET, PUT, DELETE for /api/notes/{id}.
func handleNoteByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPresidency)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/notes/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	n, err := stores.NoteStore.GetByID(ctx, parts[0])
	if err != nil || n.OwnerID != ownerID {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, n)

	case "PUT":
		var req struct {
			Title   *string `json:"title"`
			Content *string `json:"content"`
			Pinned  *bool   `json:"pinned"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableNotes, n.ID, n)

		if req.Title != nil {
			n.Title = *req.Title
		}
		if req.Content != nil {
			n.Content = *req.Content
		}
		if req.Pinned != nil {
			n.Pinned = *req.Pinned
		}
		n.UpdatedAt = timeNow()
		if err := n.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.NoteStore.Save(ctx, n); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionUpdate, "note", n.ID, n.Title)
		writeJSON(w, http.StatusOK, n)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableNotes, n.ID, n)
		if err := stores.NoteStore.Delete(ctx, n.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionDelete, "note", n.ID, n.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMeetings handles GET (list) and POST (create) for /api/meetings.
// Board meetings with agenda and minutes.
func handleMeetings(w http.ResponseWriter, r *http.Request) {
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
		meetings, err := stores.MeetingStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if meetings == nil {
			meetings = []meetingDomain.Meeting{}
		}
		writeJSON(w, http.StatusOK, meetings)

	case "POST":
		var req struct {
			Title    string    `json:"title"`
			HeldAt   time.Time `json:"held_at"`
			Location string    `json:"location"`
			Agenda   string    `json:"agenda"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		m := meetingDomain.Meeting{
			ID:        generateID(),
			OwnerID:   ownerID,
			Title:     req.Title,
			HeldAt:    req.HeldAt,
			Location:  req.Location,
			Agenda:    req.Agenda,
			Status:    meetingDomain.StatusScheduled,
			CreatedAt: timeNow(),
			UpdatedAt: timeNow(),
		}
		if err := m.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.MeetingStore.Save(ctx, m); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionCreate, "meeting", m.ID, m.Title)
		writeJSON(w, http.StatusCreated, m)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMeetingByID handles GET, PUT, DELETE for /api/meetings/{id}.
func handleMeetingByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPresidency)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/meetings/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	m, err := stores.MeetingStore.GetByID(ctx, parts[0])
	if err != nil || m.OwnerID != ownerID {
		http.Error(w, "meeting not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, m)

	case "PUT":
		var req struct {
			Title    *string    `json:"title"`
			HeldAt   *time.Time `json:"held_at"`
			Location *string    `json:"location"`
			Agenda   *string    `json:"agenda"`
			Minutes  *string    `json:"minutes"`
			Status   *string    `json:"status"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableMeetings, m.ID, m)

		if req.Title != nil {
			m.Title = *req.Title
		}
		if req.HeldAt != nil {
			m.HeldAt = *req.HeldAt
		}
		if req.Location != nil {
			m.Location = *req.Location
		}
		if req.Agenda != nil {
			m.Agenda = *req.Agenda
		}
		if req.Minutes != nil {
			m.Minutes = *req.Minutes
		}
		if req.Status != nil {
			m.Status = *req.Status
		}
		m.UpdatedAt = timeNow()
		if err := m.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.MeetingStore.Save(ctx, m); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionUpdate, "meeting", m.ID, m.Title)
		writeJSON(w, http.StatusOK, m)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableMeetings, m.ID, m)
		if err := stores.MeetingStore.Delete(ctx, m.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPresidency, activityDomain.ActionDelete, "meeting", m.ID, m.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
