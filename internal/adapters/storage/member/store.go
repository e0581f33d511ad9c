package member

import (
	"context"

	domain "clubhouse/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Member, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Member, error)
	ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)
}
