package project

import (
	"context"

	domain "clubhouse/internal/domain/project"
)

// Store persists Project state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Project, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListByCommissionID(ctx context.Context, commissionID string) ([]domain.Project, error)
	Save(ctx context.Context, value domain.Project) error
	Delete(ctx context.Context, id string) error
}
