package vipguest

import (
	"context"

	domain "clubhouse/internal/domain/vipguest"
)

// Store persists Guest state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Guest, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]domain.Guest, error)
	Save(ctx context.Context, value domain.Guest) error
	Delete(ctx context.Context, id string) error
}
