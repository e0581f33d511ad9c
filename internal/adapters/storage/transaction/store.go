package transaction

import (
	"context"

	domain "clubhouse/internal/domain/transaction"
)

// Store persists Transaction state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Transaction, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Transaction, error)

	// BalanceCents returns the club balance: income minus expenses, in cents.
	BalanceCents(ctx context.Context, ownerID string) (int64, error)

	Save(ctx context.Context, value domain.Transaction) error
	Delete(ctx context.Context, id string) error
}
