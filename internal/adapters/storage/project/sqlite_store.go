package project

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/project"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const projectColumns = `id, owner_id, commission_id, title, description, status, budget_cents, starts_at, ends_at, created_at, updated_at`

// GetByID retrieves a Project by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM presidency_projects WHERE id = ?`, id)
	return scanProject(row.Scan)
}

// ListByOwnerID retrieves a club's Projects, newest first.
// PRE: ownerID is non-empty
// POST: Returns projects ordered by creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM presidency_projects WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// ListByCommissionID retrieves the Projects assigned to a commission.
// PRE: commissionID is non-empty
// POST: Returns matching projects ordered by creation time descending
func (s *SQLiteStore) ListByCommissionID(ctx context.Context, commissionID string) ([]domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM presidency_projects WHERE commission_id = ? ORDER BY created_at DESC`, commissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// Save persists a Project to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presidency_projects (id, owner_id, commission_id, title, description, status, budget_cents, starts_at, ends_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   commission_id=excluded.commission_id, title=excluded.title,
		   description=excluded.description, status=excluded.status,
		   budget_cents=excluded.budget_cents, starts_at=excluded.starts_at,
		   ends_at=excluded.ends_at, updated_at=excluded.updated_at`,
		p.ID, p.OwnerID, nullStr(p.CommissionID), p.Title, p.Description,
		p.Status, p.BudgetCents, nullTime(p.StartsAt), nullTime(p.EndsAt),
		p.CreatedAt.Format(timeLayout), nullTime(p.UpdatedAt))
	return err
}

// Delete removes a Project from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM presidency_projects WHERE id = ?`, id)
	return err
}

func scanProject(scan func(...any) error) (domain.Project, error) {
	var p domain.Project
	var commissionID, startsAt, endsAt, updatedAt sql.NullString
	var createdAt string
	err := scan(&p.ID, &p.OwnerID, &commissionID, &p.Title, &p.Description,
		&p.Status, &p.BudgetCents, &startsAt, &endsAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Project{}, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if commissionID.Valid {
		p.CommissionID = commissionID.String
	}
	if startsAt.Valid {
		p.StartsAt, _ = time.Parse(timeLayout, startsAt.String)
	}
	if endsAt.Valid {
		p.EndsAt, _ = time.Parse(timeLayout, endsAt.String)
	}
	if updatedAt.Valid {
		p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return p, nil
}

func scanProjects(rows *sql.Rows) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
