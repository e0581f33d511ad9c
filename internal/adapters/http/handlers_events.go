package web

import (
	"net/http"
	"time"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	activityDomain "clubhouse/internal/domain/activity"
	eventDomain "clubhouse/internal/domain/event"
	permissionDomain "clubhouse/internal/domain/permission"
	snapshotDomain "clubhouse/internal/domain/snapshot"
	vipguestDomain "clubhouse/internal/domain/vipguest"
)

// handleEvents handles GET (list) and POST (create) for /api/events.
// Events and ceremonies belong to the prefecture section.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		var (
			events []eventDomain.Event
			err    error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			events, err = stores.EventStore.ListByOwnerIDAndStatus(ctx, ownerID, status)
		} else {
			events, err = stores.EventStore.ListByOwnerID(ctx, ownerID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if events == nil {
			events = []eventDomain.Event{}
		}
		writeJSON(w, http.StatusOK, events)

	case "POST":
		var req struct {
			Title           string    `json:"title"`
			Type            string    `json:"type"`
			CeremonySubtype string    `json:"ceremony_subtype"`
			StartsAt        time.Time `json:"starts_at"`
			Location        string    `json:"location"`
			Participants    int       `json:"participants"`
			Status          string    `json:"status"`
			Public          bool      `json:"public"`
			Notes           string    `json:"notes"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Status == "" {
			req.Status = eventDomain.StatusPlanned
		}

		e := eventDomain.Event{
			ID:              generateID(),
			OwnerID:         ownerID,
			Title:           req.Title,
			Type:            req.Type,
			CeremonySubtype: req.CeremonySubtype,
			StartsAt:        req.StartsAt,
			Location:        req.Location,
			Participants:    req.Participants,
			Status:          req.Status,
			Public:          req.Public,
			Notes:           req.Notes,
			CreatedAt:       timeNow(),
			UpdatedAt:       timeNow(),
		}
		if err := e.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.EventStore.Save(ctx, e); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionCreate, "event", e.ID, e.Title)
		writeJSON(w, http.StatusCreated, e)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEventBoard handles GET /api/events/board: events grouped into
// planned / in_progress / completed columns.
func handleEventBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}

	columns, err := projections.QueryGetEventBoard(r.Context(), projections.GetEventBoardQuery{
		OwnerID: ownerID,
	}, projections.GetEventBoardDeps{EventStore: stores.EventStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

// handleEventByID handles GET, PUT, DELETE for /api/events/{id} and
// POST /api/events/{id}/move (board column change).
func handleEventByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/events/")
	ctx := r.Context()

	if r.Method == "POST" && len(parts) == 2 && parts[1] == "move" {
		var req struct {
			ToStatus string `json:"to_status"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		moved, err := orchestrators.ExecuteMoveEvent(ctx, orchestrators.MoveEventInput{
			OwnerID:  ownerID,
			EventID:  parts[0],
			ToStatus: req.ToStatus,
		}, orchestrators.MoveEventDeps{EventStore: stores.EventStore, Now: timeNow})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, moved)
		return
	}

	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	e, err := stores.EventStore.GetByID(ctx, parts[0])
	if err != nil || e.OwnerID != ownerID {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		guests, err := stores.VIPGuestStore.ListByEventID(ctx, e.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		if guests == nil {
			guests = []vipguestDomain.Guest{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"event": e, "vip_guests": guests})

	case "PUT":
		var req struct {
			Title           *string    `json:"title"`
			Type            *string    `json:"type"`
			CeremonySubtype *string    `json:"ceremony_subtype"`
			StartsAt        *time.Time `json:"starts_at"`
			Location        *string    `json:"location"`
			Participants    *int       `json:"participants"`
			Status          *string    `json:"status"`
			Public          *bool      `json:"public"`
			Notes           *string    `json:"notes"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableEvents, e.ID, e)

		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Type != nil {
			e.Type = *req.Type
		}
		if req.CeremonySubtype != nil {
			e.CeremonySubtype = *req.CeremonySubtype
		}
		if req.StartsAt != nil {
			e.StartsAt = *req.StartsAt
		}
		if req.Location != nil {
			e.Location = *req.Location
		}
		if req.Participants != nil {
			e.Participants = *req.Participants
		}
		if req.Status != nil {
			e.Status = *req.Status
		}
		if req.Public != nil {
			e.Public = *req.Public
		}
		if req.Notes != nil {
			e.Notes = *req.Notes
		}
		e.UpdatedAt = timeNow()
		if err := e.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.EventStore.Save(ctx, e); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionUpdate, "event", e.ID, e.Title)
		writeJSON(w, http.StatusOK, e)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableEvents, e.ID, e)
		if err := stores.EventStore.Delete(ctx, e.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionDelete, "event", e.ID, e.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDistrictEvents handles GET and POST for /api/district-events.
// District events are informational entries, not board cards.
func handleDistrictEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		events, err := stores.DistrictEventStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if events == nil {
			events = []eventDomain.DistrictEvent{}
		}
		writeJSON(w, http.StatusOK, events)

	case "POST":
		var req struct {
			Title       string    `json:"title"`
			Location    string    `json:"location"`
			StartsAt    time.Time `json:"starts_at"`
			EndsAt      time.Time `json:"ends_at"`
			Description string    `json:"description"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		d := eventDomain.DistrictEvent{
			ID:          generateID(),
			OwnerID:     ownerID,
			Title:       req.Title,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			Description: req.Description,
			CreatedAt:   timeNow(),
		}
		if err := d.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.DistrictEventStore.Save(ctx, d); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionCreate, "district_event", d.ID, d.Title)
		writeJSON(w, http.StatusCreated, d)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleDistrictEventByID handles GET, PUT, DELETE for /api/district-events/{id}.
func handleDistrictEventByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/district-events/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	d, err := stores.DistrictEventStore.GetByID(ctx, parts[0])
	if err != nil || d.OwnerID != ownerID {
		http.Error(w, "district event not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, d)

	case "PUT":
		var req struct {
			Title       *string    `json:"title"`
			Location    *string    `json:"location"`
			StartsAt    *time.Time `json:"starts_at"`
			EndsAt      *time.Time `json:"ends_at"`
			Description *string    `json:"description"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Title != nil {
			d.Title = *req.Title
		}
		if req.Location != nil {
			d.Location = *req.Location
		}
		if req.StartsAt != nil {
			d.StartsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			d.EndsAt = *req.EndsAt
		}
		if req.Description != nil {
			d.Description = *req.Description
		}
		if err := d.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.DistrictEventStore.Save(ctx, d); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionUpdate, "district_event", d.ID, d.Title)
		writeJSON(w, http.StatusOK, d)

	case "DELETE":
		if err := stores.DistrictEventStore.Delete(ctx, d.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionDelete, "district_event", d.ID, d.Title)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVIPGuests handles GET and POST for /api/vip-guests.
func handleVIPGuests(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		var (
			guests []vipguestDomain.Guest
			err    error
		)
		if eventID := r.URL.Query().Get("event_id"); eventID != "" {
			guests, err = stores.VIPGuestStore.ListByEventID(ctx, eventID)
		} else {
			guests, err = stores.VIPGuestStore.ListByOwnerID(ctx, ownerID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if guests == nil {
			guests = []vipguestDomain.Guest{}
		}
		writeJSON(w, http.StatusOK, guests)

	case "POST":
		var req struct {
			Name    string `json:"name"`
			Title   string `json:"title"`
			Email   string `json:"email"`
			Phone   string `json:"phone"`
			Notes   string `json:"notes"`
			EventID string `json:"event_id"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		g := vipguestDomain.Guest{
			ID:        generateID(),
			OwnerID:   ownerID,
			Name:      req.Name,
			Title:     req.Title,
			Email:     req.Email,
			Phone:     req.Phone,
			Notes:     req.Notes,
			EventID:   req.EventID,
			CreatedAt: timeNow(),
			UpdatedAt: timeNow(),
		}
		if err := g.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.VIPGuestStore.Save(ctx, g); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionCreate, "vip_guest", g.ID, g.Name)
		writeJSON(w, http.StatusCreated, g)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVIPGuestByID handles GET, PUT, DELETE for /api/vip-guests/{id}.
func handleVIPGuestByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionPrefecture)
	if !ok {
		return
	}
	parts := pathSuffix(r, "/api/vip-guests/")
	if len(parts) != 1 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	g, err := stores.VIPGuestStore.GetByID(ctx, parts[0])
	if err != nil || g.OwnerID != ownerID {
		http.Error(w, "guest not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, g)

	case "PUT":
		var req struct {
			Name    *string `json:"name"`
			Title   *string `json:"title"`
			Email   *string `json:"email"`
			Phone   *string `json:"phone"`
			Notes   *string `json:"notes"`
			EventID *string `json:"event_id"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		snapshotBefore(r, sess, ownerID, snapshotDomain.TableVIPGuests, g.ID, g)

		if req.Name != nil {
			g.Name = *req.Name
		}
		if req.Title != nil {
			g.Title = *req.Title
		}
		if req.Email != nil {
			g.Email = *req.Email
		}
		if req.Phone != nil {
			g.Phone = *req.Phone
		}
		if req.Notes != nil {
			g.Notes = *req.Notes
		}
		if req.EventID != nil {
			g.EventID = *req.EventID
		}
		g.UpdatedAt = timeNow()
		if err := g.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.VIPGuestStore.Save(ctx, g); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionUpdate, "vip_guest", g.ID, g.Name)
		writeJSON(w, http.StatusOK, g)

	case "DELETE":
		snapshotBefore(r, sess, ownerID, snapshotDomain.TableVIPGuests, g.ID, g)
		if err := stores.VIPGuestStore.Delete(ctx, g.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryPrefecture, activityDomain.ActionDelete, "vip_guest", g.ID, g.Name)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
