package web

import (
	"net/http"

	activityDomain "clubhouse/internal/domain/activity"
	permissionDomain "clubhouse/internal/domain/permission"
)

// handleClubProfile handles GET and PUT for /api/profile. The profile feeds
// the public page, so editing sits with the communication section.
func handleClubProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ownerID, ok := requireSection(w, r, sess, permissionDomain.SectionCommunication)
	if !ok {
		return
	}
	ctx := r.Context()

	p, err := stores.ProfileStore.GetByAccountID(ctx, ownerID)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, p)

	case "PUT":
		var req struct {
			ClubName    *string `json:"club_name"`
			District    *string `json:"district"`
			City        *string `json:"city"`
			LogoURL     *string `json:"logo_url"`
			Slug        *string `json:"slug"`
			Description *string `json:"description"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.ClubName != nil {
			p.ClubName = *req.ClubName
		}
		if req.District != nil {
			p.District = *req.District
		}
		if req.City != nil {
			p.City = *req.City
		}
		if req.LogoURL != nil {
			p.LogoURL = *req.LogoURL
		}
		if req.Slug != nil {
			p.Slug = *req.Slug
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		p.UpdatedAt = timeNow()
		if err := p.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.ProfileStore.Save(ctx, p); err != nil {
			internalError(w, err)
			return
		}
		logActivity(r, sess, ownerID, activityDomain.CategoryAccount, activityDomain.ActionUpdate, "profile", p.AccountID, p.ClubName)
		writeJSON(w, http.StatusOK, p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
