package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/domain/permission"
)

// PermissionStoreForOrchestrator defines the store interface needed by permission orchestrators.
type PermissionStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (permission.SectionPermission, error)
	ListByUserID(ctx context.Context, userID string) ([]permission.SectionPermission, error)
	Save(ctx context.Context, p permission.SectionPermission) error
	Delete(ctx context.Context, id string) error
	SetResponsible(ctx context.Context, ownerID string, section permission.Section, permissionID string) error
}

// --- Grant Permission ---

// GrantPermissionInput carries input for the grant orchestrator.
type GrantPermissionInput struct {
	OwnerID string // the admin's club
	UserID  string // the member account receiving access
	Section permission.Section
}

// GrantPermissionDeps holds dependencies for GrantPermission.
type GrantPermissionDeps struct {
	PermissionStore PermissionStoreForOrchestrator
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteGrantPermission gives a member access to a section. Granting an
// already-held section is a no-op thanks to the store's upsert key.
// PRE: OwnerID and UserID are non-empty, Section is valid
// POST: A permission row exists for (owner, user, section)
func ExecuteGrantPermission(ctx context.Context, input GrantPermissionInput, deps GrantPermissionDeps) (permission.SectionPermission, error) {
	p := permission.SectionPermission{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		UserID:    input.UserID,
		Section:   input.Section,
		CreatedAt: deps.Now(),
	}

	if err := p.Validate(); err != nil {
		return permission.SectionPermission{}, err
	}

	if err := deps.PermissionStore.Save(ctx, p); err != nil {
		return permission.SectionPermission{}, err
	}

	slog.Info("permission_event", "event", "permission_granted", "owner_id", input.OwnerID, "user_id", input.UserID, "section", input.Section)
	return p, nil
}

// --- Revoke Permission ---

// RevokePermissionInput carries input for the revoke orchestrator.
type RevokePermissionInput struct {
	OwnerID      string
	PermissionID string
}

// RevokePermissionDeps holds dependencies for RevokePermission.
type RevokePermissionDeps struct {
	PermissionStore PermissionStoreForOrchestrator
}

// ExecuteRevokePermission removes a member's access to a section. If the row
// carried the responsible flag, the section simply has no responsible until
// an admin assigns a new one.
// PRE: PermissionID names a row in the admin's club
// POST: The row is deleted
func ExecuteRevokePermission(ctx context.Context, input RevokePermissionInput, deps RevokePermissionDeps) error {
	p, err := deps.PermissionStore.GetByID(ctx, input.PermissionID)
	if err != nil {
		return err
	}
	if p.OwnerID != input.OwnerID {
		return errors.New("permission belongs to another club")
	}

	if err := deps.PermissionStore.Delete(ctx, p.ID); err != nil {
		return err
	}

	slog.Info("permission_event", "event", "permission_revoked", "owner_id", p.OwnerID, "user_id", p.UserID, "section", p.Section)
	return nil
}

// --- Set Responsible ---

// SetResponsibleInput carries input for the set-responsible orchestrator.
type SetResponsibleInput struct {
	OwnerID      string
	PermissionID string
}

// SetResponsibleDeps holds dependencies for SetResponsible.
type SetResponsibleDeps struct {
	PermissionStore PermissionStoreForOrchestrator
}

// ExecuteSetResponsible makes one grant the section responsible. The store
// clears the flag from every other grant for the section in the same
// transaction, so at most one responsible survives concurrent assignments.
// PRE: PermissionID names a row in the admin's club
// POST: Exactly that row carries is_responsible for its section
func ExecuteSetResponsible(ctx context.Context, input SetResponsibleInput, deps SetResponsibleDeps) error {
	p, err := deps.PermissionStore.GetByID(ctx, input.PermissionID)
	if err != nil {
		return err
	}
	if p.OwnerID != input.OwnerID {
		return errors.New("permission belongs to another club")
	}

	if err := deps.PermissionStore.SetResponsible(ctx, p.OwnerID, p.Section, p.ID); err != nil {
		return err
	}

	slog.Info("permission_event", "event", "responsible_set", "owner_id", p.OwnerID, "user_id", p.UserID, "section", p.Section)
	return nil
}
