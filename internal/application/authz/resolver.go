// Package authz resolves what a logged-in user may see and do within their
// club. Admins own the club record and see everything; members see only the
// sections an admin granted them.
package authz

import (
	"context"
	"errors"
	"log/slog"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/permission"
)

// Session identifies the acting user. The HTTP layer builds one from the
// session cookie before calling into the resolver.
type Session struct {
	AccountID string
	Role      string
}

// Responsible is the contact shown on a section board.
type Responsible struct {
	Name  string
	Email string
}

// AccountStore defines the account reads needed by the resolver.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// MemberStore defines the membership reads needed by the resolver.
type MemberStore interface {
	GetByAccountID(ctx context.Context, accountID string) (member.Member, error)
}

// PermissionStore defines the permission reads needed by the resolver.
type PermissionStore interface {
	ListByUserID(ctx context.Context, userID string) ([]permission.SectionPermission, error)
	ListResponsible(ctx context.Context, ownerID string, section permission.Section) ([]permission.SectionPermission, error)
}

// ErrNoTenant is returned when the acting user has no club: a member account
// with no membership row.
var ErrNoTenant = errors.New("account is not attached to a club")

// Resolver answers permission questions for one request. It holds no cache:
// a grant or revoke by another actor is observed on the next call.
type Resolver struct {
	Accounts    AccountStore
	Members     MemberStore
	Permissions PermissionStore
}

// ResolveTenant returns the club (admin account) id the session acts within.
// PRE: session has a non-empty AccountID
// POST: Returns the admin's own id, or the owner of the member's membership row
func (r *Resolver) ResolveTenant(ctx context.Context, session Session) (string, error) {
	if session.Role == account.RoleAdmin {
		return session.AccountID, nil
	}
	m, err := r.Members.GetByAccountID(ctx, session.AccountID)
	if err != nil {
		return "", ErrNoTenant
	}
	return m.OwnerID, nil
}

// HasPermission reports whether the session may access a section.
// PRE: section is a valid Section
// POST: true for admins unconditionally; for members, true iff a permission
// row exists for (user, section)
func (r *Resolver) HasPermission(ctx context.Context, session Session, section permission.Section) bool {
	if session.Role == account.RoleAdmin {
		return true
	}
	perms, err := r.Permissions.ListByUserID(ctx, session.AccountID)
	if err != nil {
		slog.Warn("authz_event", "event", "permission_lookup_failed", "account_id", session.AccountID, "error", err)
		return false
	}
	for _, p := range perms {
		if p.Section == section {
			return true
		}
	}
	return false
}

// AccessibleSections returns the sections the session may open, in the fixed
// portal order.
// POST: admins get every section without a table read; members get the
// sections their permission rows name
func (r *Resolver) AccessibleSections(ctx context.Context, session Session) []permission.Section {
	if session.Role == account.RoleAdmin {
		return permission.AllSections
	}
	perms, err := r.Permissions.ListByUserID(ctx, session.AccountID)
	if err != nil {
		slog.Warn("authz_event", "event", "permission_lookup_failed", "account_id", session.AccountID, "error", err)
		return nil
	}
	granted := make(map[permission.Section]bool, len(perms))
	for _, p := range perms {
		granted[p.Section] = true
	}
	var sections []permission.Section
	for _, s := range permission.AllSections {
		if granted[s] {
			sections = append(sections, s)
		}
	}
	return sections
}

// IsResponsible reports whether the session's user is the responsible for a
// section within their club.
// POST: false on any lookup failure
func (r *Resolver) IsResponsible(ctx context.Context, session Session, section permission.Section) bool {
	ownerID, err := r.ResolveTenant(ctx, session)
	if err != nil {
		return false
	}
	rows, err := r.Permissions.ListResponsible(ctx, ownerID, section)
	if err != nil {
		return false
	}
	for _, p := range rows {
		if p.UserID == session.AccountID {
			return true
		}
	}
	return false
}

// ResponsibleFor returns the contact of the user responsible for a section in
// the session's club. Every failure path means "no responsible assigned" and
// returns ok=false, never an error.
// POST: if more than one row is marked responsible, the oldest wins
func (r *Resolver) ResponsibleFor(ctx context.Context, session Session, section permission.Section) (Responsible, bool) {
	ownerID, err := r.ResolveTenant(ctx, session)
	if err != nil {
		return Responsible{}, false
	}
	rows, err := r.Permissions.ListResponsible(ctx, ownerID, section)
	if err != nil || len(rows) == 0 {
		return Responsible{}, false
	}

	userID := rows[0].UserID
	if m, err := r.Members.GetByAccountID(ctx, userID); err == nil && m.Email != "" {
		return Responsible{Name: m.Name, Email: m.Email}, true
	}
	acct, err := r.Accounts.GetByID(ctx, userID)
	if err != nil || acct.Email == "" {
		return Responsible{}, false
	}
	return Responsible{Name: acct.Name, Email: acct.Email}, true
}
