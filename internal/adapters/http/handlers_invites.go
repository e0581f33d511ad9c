package web

import (
	"errors"
	"log/slog"
	"net/http"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/account"
	activityDomain "clubhouse/internal/domain/activity"
	inviteDomain "clubhouse/internal/domain/invite"
)

// handleInvites handles GET (list) and POST (create) for /api/invites.
// Invites are club administration, so both operations are admin only.
func handleInvites(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "invites") {
		return
	}
	ownerID := sess.AccountID
	ctx := r.Context()

	switch r.Method {
	case "GET":
		invites, err := stores.InviteStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			internalError(w, err)
			return
		}
		if invites == nil {
			invites = []inviteDomain.Invite{}
		}
		writeJSON(w, http.StatusOK, invites)

	case "POST":
		var req struct {
			Email string `json:"email"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		i, err := orchestrators.ExecuteCreateInvite(ctx, orchestrators.CreateInviteInput{
			OwnerID:  ownerID,
			Email:    req.Email,
			ClubName: ownProfile(r, ownerID),
			BaseURL:  appBaseURL,
		}, orchestrators.CreateInviteDeps{
			InviteStore: stores.InviteStore,
			OutboxStore: stores.OutboxStore,
			GenerateID:  generateID,
			Now:         timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrInvitePending) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			if errors.Is(err, inviteDomain.ErrInvalidEmail) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}

		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionInvite, "invite", i.ID, i.Email)
		writeJSON(w, http.StatusCreated, i)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAcceptInvite handles POST /api/invites/accept. Reached from the
// emailed link, so there is no session yet.
func handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Token    string `json:"token"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	m, err := orchestrators.ExecuteAcceptInvite(ctx, orchestrators.AcceptInviteInput{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	}, orchestrators.AcceptInviteDeps{
		InviteStore:  stores.InviteStore,
		AccountStore: stores.AccountStore,
		MemberStore:  stores.MemberStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrTokenInvalid):
			http.Error(w, "invite not found", http.StatusNotFound)
		case errors.Is(err, account.ErrTokenExpired):
			http.Error(w, "invite expired", http.StatusGone)
		case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	clubName := ownProfile(r, m.OwnerID)
	if _, err := orchestrators.ExecuteEnqueueEmail(ctx, orchestrators.EnqueueEmailInput{
		To:      []string{m.Email},
		Subject: email.ConfirmationSubject(clubName),
		HTML:    email.ConfirmationHTML(clubName, m.Name),
	}, orchestrators.EnqueueEmailDeps{
		OutboxStore: stores.OutboxStore,
		GenerateID:  generateID,
		Now:         timeNow,
	}); err != nil {
		slog.Warn("invite_event", "event", "welcome_email_enqueue_failed", "member_id", m.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"member_id":  m.ID,
		"account_id": m.AccountID,
		"name":       m.Name,
		"email":      m.Email,
	})
}

// handleInviteActions handles POST /api/invites/{id}/revoke.
func handleInviteActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "invites") {
		return
	}
	parts := pathSuffix(r, "/api/invites/")
	if r.Method != "POST" || len(parts) != 2 || parts[1] != "revoke" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	ownerID := sess.AccountID

	err := orchestrators.ExecuteRevokeInvite(r.Context(), orchestrators.RevokeInviteInput{
		OwnerID:  ownerID,
		InviteID: parts[0],
	}, orchestrators.RevokeInviteDeps{InviteStore: stores.InviteStore})
	if err != nil {
		if errors.Is(err, inviteDomain.ErrNotPending) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "invite not found", http.StatusNotFound)
		return
	}

	logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionRevoke, "invite", parts[0], "")
	w.WriteHeader(http.StatusNoContent)
}

// handleWaitingList handles GET /api/waiting-list.
func handleWaitingList(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "invites") {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := stores.WaitingStore.ListByOwnerID(r.Context(), sess.AccountID)
	if err != nil {
		internalError(w, err)
		return
	}
	if entries == nil {
		entries = []inviteDomain.WaitingEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleWaitingListActions handles POST /api/waiting-list/{id}/convert and
// DELETE /api/waiting-list/{id}.
func handleWaitingListActions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if !requireFeatureAPI(w, r, sess, "invites") {
		return
	}
	parts := pathSuffix(r, "/api/waiting-list/")
	ownerID := sess.AccountID
	ctx := r.Context()

	switch {
	case r.Method == "POST" && len(parts) == 2 && parts[1] == "convert":
		i, err := orchestrators.ExecuteConvertWaitingEntry(ctx, orchestrators.ConvertWaitingEntryInput{
			OwnerID:  ownerID,
			EntryID:  parts[0],
			ClubName: ownProfile(r, ownerID),
			BaseURL:  appBaseURL,
		}, orchestrators.ConvertWaitingEntryDeps{
			WaitingStore: stores.WaitingStore,
			InviteStore:  stores.InviteStore,
			OutboxStore:  stores.OutboxStore,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			if errors.Is(err, orchestrators.ErrInvitePending) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, "waiting entry not found", http.StatusNotFound)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionInvite, "invite", i.ID, i.Email)
		writeJSON(w, http.StatusCreated, i)

	case r.Method == "DELETE" && len(parts) == 1:
		entry, err := stores.WaitingStore.GetByID(ctx, parts[0])
		if err != nil || entry.OwnerID != ownerID {
			http.Error(w, "waiting entry not found", http.StatusNotFound)
			return
		}
		if err := stores.WaitingStore.Delete(ctx, entry.ID); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAdmin, activityDomain.ActionDelete, "waiting_entry", entry.ID, entry.Email)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "invalid path", http.StatusBadRequest)
	}
}
