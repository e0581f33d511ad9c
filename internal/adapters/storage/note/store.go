package note

import (
	"context"

	domain "clubhouse/internal/domain/note"
)

// Store persists Note state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Note, error)
	// ListByOwnerID returns pinned notes first, each group newest first.
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Note, error)
	Save(ctx context.Context, value domain.Note) error
	Delete(ctx context.Context, id string) error
}
