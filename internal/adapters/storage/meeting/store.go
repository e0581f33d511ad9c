package meeting

import (
	"context"

	domain "clubhouse/internal/domain/meeting"
)

// Store persists Meeting state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Meeting, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Meeting, error)
	Save(ctx context.Context, value domain.Meeting) error
	Delete(ctx context.Context, id string) error
}
