package web

import (
	"net/http"
	"time"

	accountStore "clubhouse/internal/adapters/storage/account"
	"clubhouse/internal/application/listutil"
)

// accountRow is the projection of an account shown in the admin console.
// Password hashes never leave the store layer.
type accountRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Locked    bool      `json:"locked"`
}

// handleAdminAccounts handles GET /api/admin/accounts with paging and an
// optional ?role= filter.
func handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	total, err := stores.AccountStore.Count(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	p := listutil.ParsePageParams(r.URL.Query())
	info := listutil.NewPageInfo(p.Page, p.PerPage, total)

	accounts, err := stores.AccountStore.List(ctx, accountStore.ListFilter{
		Limit:  info.PerPage,
		Offset: info.Offset(),
		Role:   r.URL.Query().Get("role"),
	})
	if err != nil {
		internalError(w, err)
		return
	}

	now := timeNow()
	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountRow{
			ID:        a.ID,
			Email:     a.Email,
			Name:      a.Name,
			Role:      a.Role,
			Status:    a.Status,
			CreatedAt: a.CreatedAt,
			Locked:    now.Before(a.LockedUntil),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": rows,
		"page":     info,
	})
}
