package activity

import (
	"context"

	domain "clubhouse/internal/domain/activity"
)

// Store defines the interface for activity log persistence. The log is
// append-only; there is no update or delete.
type Store interface {
	// Save persists a log entry.
	// PRE: entry is valid
	// POST: Entry is persisted
	Save(ctx context.Context, entry domain.Entry) error

	// List returns a club's log entries with optional filtering.
	// PRE: ownerID is non-empty, limit > 0
	// POST: Returns entries ordered by timestamp desc
	List(ctx context.Context, ownerID string, filter Filter, limit int) ([]domain.Entry, error)

	// GetByID retrieves a specific entry.
	// PRE: id is non-empty
	// POST: Returns the entry or error if not found
	GetByID(ctx context.Context, id string) (domain.Entry, error)
}

// Filter defines query parameters for listing log entries.
type Filter struct {
	Category   *domain.Category
	Action     *domain.Action
	ActorID    *string
	ResourceID *string
	FromDate   *string
	ToDate     *string
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
