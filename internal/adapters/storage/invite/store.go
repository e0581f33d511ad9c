package invite

import (
	"context"

	domain "clubhouse/internal/domain/invite"
)

// Store persists Invite state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Invite, error)
	GetByToken(ctx context.Context, token string) (domain.Invite, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Invite, error)
	// GetPendingByEmail finds an open invite for an address, if any.
	GetPendingByEmail(ctx context.Context, ownerID, email string) (domain.Invite, error)
	Save(ctx context.Context, value domain.Invite) error
	Delete(ctx context.Context, id string) error
}

// WaitingStore persists public-page membership requests.
type WaitingStore interface {
	GetByID(ctx context.Context, id string) (domain.WaitingEntry, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.WaitingEntry, error)
	Save(ctx context.Context, value domain.WaitingEntry) error
	Delete(ctx context.Context, id string) error
}
