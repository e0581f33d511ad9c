package goal

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/goal"
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

const goalColumns = `id, owner_id, title, notes, target, progress, status, due_at, created_at, updated_at`

// GetByID retrieves a Goal by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	return scanGoal(row.Scan)
}

// ListByOwnerID retrieves a club's Goals, newest first.
// PRE: ownerID is non-empty
// POST: Returns goals ordered by creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGoals(rows)
}

// ListByOwnerIDAndStatus retrieves a club's Goals filtered by status.
// PRE: ownerID and status are non-empty
// POST: Returns matching goals ordered by creation time descending
func (s *SQLiteStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? AND status = ? ORDER BY created_at DESC`,
		ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGoals(rows)
}

// Save persists a Goal to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, g domain.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, owner_id, title, notes, target, progress, status, due_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, notes=excluded.notes, target=excluded.target,
		   progress=excluded.progress, status=excluded.status, due_at=excluded.due_at,
		   updated_at=excluded.updated_at`,
		g.ID, g.OwnerID, g.Title, g.Notes, g.Target, g.Progress, g.Status,
		nullTime(g.DueAt), g.CreatedAt.Format(timeLayout), nullTime(g.UpdatedAt))
	return err
}

// Delete removes a Goal from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	return err
}

func collectGoals(rows *sql.Rows) ([]domain.Goal, error) {
	var goals []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func scanGoal(scan func(...any) error) (domain.Goal, error) {
	var g domain.Goal
	var createdAt string
	var dueAt, updatedAt sql.NullString
	err := scan(&g.ID, &g.OwnerID, &g.Title, &g.Notes, &g.Target, &g.Progress,
		&g.Status, &dueAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Goal{}, err
	}
	g.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if dueAt.Valid {
		g.DueAt, _ = time.Parse(timeLayout, dueAt.String)
	}
	if updatedAt.Valid {
		g.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return g, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
