package event

import (
	"context"
	"time"

	domain "clubhouse/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Event, error)
	ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Event, error)

	// ListPublicUpcoming returns public events starting at or after `from`,
	// soonest first, for the public club page.
	ListPublicUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]domain.Event, error)

	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id string) error
}

// DistrictStore persists DistrictEvent state.
type DistrictStore interface {
	GetByID(ctx context.Context, id string) (domain.DistrictEvent, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.DistrictEvent, error)
	Save(ctx context.Context, value domain.DistrictEvent) error
	Delete(ctx context.Context, id string) error
}
