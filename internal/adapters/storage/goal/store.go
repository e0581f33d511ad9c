package goal

import (
	"context"

	domain "clubhouse/internal/domain/goal"
)

// Store persists Goal state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Goal, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Goal, error)
	ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Goal, error)
	Save(ctx context.Context, value domain.Goal) error
	Delete(ctx context.Context, id string) error
}
