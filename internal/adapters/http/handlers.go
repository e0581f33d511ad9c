package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/authz"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	accountDomain "clubhouse/internal/domain/account"
	activityDomain "clubhouse/internal/domain/activity"
	permissionDomain "clubhouse/internal/domain/permission"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// authzSession converts the cookie session into the shape the permission
// resolver works with.
func authzSession(sess middleware.Session) authz.Session {
	return authz.Session{AccountID: sess.AccountID, Role: sess.Role}
}

// requireSession returns the current session or writes a 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return sess, true
}

// requireAdmin returns the current session if it belongs to an admin,
// otherwise writes 401/403.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := requireSession(w, r)
	if !ok {
		return middleware.Session{}, false
	}
	if sess.Role != accountDomain.RoleAdmin {
		http.Error(w, "admin required", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return sess, true
}

// requireSection resolves the session's club and checks section access.
// Writes 403 when the member holds no grant for the section.
func requireSection(w http.ResponseWriter, r *http.Request, sess middleware.Session, section permissionDomain.Section) (string, bool) {
	ownerID, err := resolver.ResolveTenant(r.Context(), authzSession(sess))
	if err != nil {
		http.Error(w, "no club membership", http.StatusForbidden)
		return "", false
	}
	if !resolver.HasPermission(r.Context(), authzSession(sess), section) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return "", false
	}
	return ownerID, true
}

// resolveTenant resolves the session's club or writes a 403.
func resolveTenant(w http.ResponseWriter, r *http.Request, sess middleware.Session) (string, bool) {
	ownerID, err := resolver.ResolveTenant(r.Context(), authzSession(sess))
	if err != nil {
		http.Error(w, "no club membership", http.StatusForbidden)
		return "", false
	}
	return ownerID, true
}

// requireFeatureAPI checks the server-side feature flag for the session's
// role. Unknown flags are treated as enabled so a missing seed never bricks
// a route. Returns false after writing the response when disabled.
func requireFeatureAPI(w http.ResponseWriter, r *http.Request, sess middleware.Session, key string) bool {
	flag, err := stores.FeatureFlagStore.GetByKey(r.Context(), key)
	if err != nil {
		return true
	}
	if !flag.EnabledForRole(sess.Role) {
		http.Error(w, "feature disabled", http.StatusNotFound)
		return false
	}
	return true
}

// pathSuffix splits the request path after prefix into its segments.
// "/api/members/abc/archive" with prefix "/api/members/" yields [abc archive].
func pathSuffix(r *http.Request, prefix string) []string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

// clientIP extracts the caller address for the activity log.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// logActivity appends to the admin activity log. Never fails the caller.
func logActivity(r *http.Request, sess middleware.Session, ownerID string, category activityDomain.Category, action activityDomain.Action, resourceType, resourceID, description string) {
	orchestrators.RecordActivity(r.Context(), orchestrators.RecordActivityInput{
		OwnerID:      ownerID,
		ActorID:      sess.AccountID,
		ActorEmail:   sess.Email,
		Category:     category,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		IPAddress:    clientIP(r),
	}, orchestrators.RecordActivityDeps{
		ActivityStore: stores.ActivityStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
}

// ownProfile loads the club name for the session's tenant. Missing profiles
// return an empty string: a seeded admin has an account before a profile.
func ownProfile(r *http.Request, ownerID string) string {
	p, err := stores.ProfileStore.GetByAccountID(r.Context(), ownerID)
	if err != nil {
		return ""
	}
	return p.ClubName
}

// handleLogin handles POST /api/login.
// PRE: Body carries email and password
// POST: Session cookie set on success; failed attempts are counted
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrPendingActivation):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			internalError(w, err)
		}
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Name, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	sess := middleware.Session{AccountID: result.AccountID, Email: result.Email, Role: result.Role}
	if ownerID, err := resolver.ResolveTenant(r.Context(), authzSession(sess)); err == nil {
		logActivity(r, sess, ownerID, activityDomain.CategorySecurity, activityDomain.ActionLogin, "account", result.AccountID, "")
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"account_id": result.AccountID,
		"email":      result.Email,
		"name":       result.Name,
		"role":       result.Role,
	})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie("clubhouse_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session: the logged-in identity plus the
// sections it can open. The frontend builds its navigation from this.
func handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	sections := resolver.AccessibleSections(r.Context(), authzSession(sess))
	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": sess.AccountID,
		"email":      sess.Email,
		"name":       sess.Name,
		"role":       sess.Role,
		"sections":   sections,
	})
}

// handleRegisterClub handles POST /api/register: club signup.
// POST: Admin account and club profile created, session opened
func handleRegisterClub(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ClubName string `json:"club_name"`
		District string `json:"district"`
		City     string `json:"city"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	accountID, err := orchestrators.ExecuteRegisterClub(r.Context(), orchestrators.RegisterClubInput{
		ClubName: req.ClubName,
		District: req.District,
		City:     req.City,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}, orchestrators.RegisterClubDeps{
		AccountStore: stores.AccountStore,
		ProfileStore: stores.ProfileStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := sessions.Create(accountID, req.Email, req.Name, accountDomain.RoleAdmin)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]string{"account_id": accountID})
}

// handleChangePassword handles POST /api/change-password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard handles GET /api/dashboard: the landing page numbers,
// filtered to the sections the session can see.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := projections.QueryGetClubDashboard(r.Context(), projections.GetClubDashboardQuery{
		Session: authzSession(sess),
		Now:     timeNow(),
	}, projections.GetClubDashboardDeps{
		Resolver:         resolver,
		MemberStore:      stores.MemberStore,
		EventStore:       stores.EventStore,
		TransactionStore: stores.TransactionStore,
		GoalStore:        stores.GoalStore,
	})
	if err != nil {
		if errors.Is(err, authz.ErrNoTenant) {
			http.Error(w, "no club membership", http.StatusForbidden)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
