package profile

import (
	"context"

	domain "clubhouse/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error)
	GetBySlug(ctx context.Context, slug string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}
