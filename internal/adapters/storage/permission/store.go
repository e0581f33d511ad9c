package permission

import (
	"context"

	domain "clubhouse/internal/domain/permission"
)

// Store persists SectionPermission state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.SectionPermission, error)

	// ListByUserID returns every grant held by a user, across sections.
	ListByUserID(ctx context.Context, userID string) ([]domain.SectionPermission, error)

	// ListByOwnerID returns every grant inside a club.
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.SectionPermission, error)

	// ListResponsible returns the grants flagged responsible for a section,
	// oldest first. More than one row can exist if older data raced; callers
	// take the first.
	ListResponsible(ctx context.Context, ownerID string, section domain.Section) ([]domain.SectionPermission, error)

	Save(ctx context.Context, value domain.SectionPermission) error
	Delete(ctx context.Context, id string) error

	// SetResponsible flags one grant as responsible and clears the flag from
	// every other grant for the same (owner, section) in a single transaction.
	SetResponsible(ctx context.Context, ownerID string, section domain.Section, permissionID string) error
}
