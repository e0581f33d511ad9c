package document

import (
	"context"

	domain "clubhouse/internal/domain/document"
)

// Store persists Document state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Document, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Document, error)
	ListByOwnerIDAndKind(ctx context.Context, ownerID, kind string) ([]domain.Document, error)
	Save(ctx context.Context, value domain.Document) error
	Delete(ctx context.Context, id string) error
}
