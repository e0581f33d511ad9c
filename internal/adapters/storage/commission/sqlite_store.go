package commission

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/commission"
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

const commissionColumns = `id, owner_id, name, description, chair_name, status, created_at, updated_at`

// GetByID retrieves a Commission by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Commission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE id = ?`, id)
	return scanCommission(row.Scan)
}

// ListByOwnerID retrieves a club's Commissions.
// PRE: ownerID is non-empty
// POST: Returns commissions ordered by name
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Commission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commissionColumns+` FROM commissions WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commissions []domain.Commission
	for rows.Next() {
		c, err := scanCommission(rows.Scan)
		if err != nil {
			return nil, err
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

// Save persists a Commission to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Commission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commissions (id, owner_id, name, description, chair_name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, description=excluded.description,
		   chair_name=excluded.chair_name, status=excluded.status,
		   updated_at=excluded.updated_at`,
		c.ID, c.OwnerID, c.Name, c.Description, c.ChairName, c.Status,
		c.CreatedAt.Format(timeLayout), nullTime(c.UpdatedAt))
	return err
}

// Delete removes a Commission from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM commissions WHERE id = ?`, id)
	return err
}

func scanCommission(scan func(...any) error) (domain.Commission, error) {
	var c domain.Commission
	var createdAt string
	var updatedAt sql.NullString
	err := scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.ChairName,
		&c.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.Commission{}, err
	}
	c.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		c.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return c, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
