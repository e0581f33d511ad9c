package commission

import (
	"context"

	domain "clubhouse/internal/domain/commission"
)

// Store persists Commission state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Commission, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Commission, error)
	Save(ctx context.Context, value domain.Commission) error
	Delete(ctx context.Context, id string) error
}
