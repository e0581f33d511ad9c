package snapshot

import (
	"context"

	domain "clubhouse/internal/domain/snapshot"
)

// Store persists Snapshot state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Snapshot, error)
	// ListByRecord returns the snapshot history of one row, newest first.
	ListByRecord(ctx context.Context, ownerID string, table domain.Table, recordID string) ([]domain.Snapshot, error)
	// ListByOwnerID returns a club's recent snapshots across all tables.
	ListByOwnerID(ctx context.Context, ownerID string, limit int) ([]domain.Snapshot, error)
	Save(ctx context.Context, value domain.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
