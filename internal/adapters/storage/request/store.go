package request

import (
	"context"

	permissionDomain "clubhouse/internal/domain/permission"
	domain "clubhouse/internal/domain/request"
)

// Store persists SectionRequest state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.SectionRequest, error)
	Save(ctx context.Context, value domain.SectionRequest) error
	Delete(ctx context.Context, id string) error

	// ListTopLevel returns top-level requests (parent_id IS NULL) for one
	// section of one club, filtered by status, newest first.
	ListTopLevel(ctx context.Context, ownerID string, section permissionDomain.Section, status string) ([]domain.SectionRequest, error)

	// ListRepliesByParentIDs returns every reply whose parent is in parentIDs,
	// oldest first. One batched query replaces a per-thread fan-out.
	ListRepliesByParentIDs(ctx context.Context, parentIDs []string) ([]domain.SectionRequest, error)
}
