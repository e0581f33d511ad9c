package invite

import (
	"context"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/invite"
)

// SQLiteWaitingStore implements WaitingStore using SQLite.
type SQLiteWaitingStore struct {
	db storage.SQLDB
}

// NewSQLiteWaitingStore creates a new SQLiteWaitingStore.
func NewSQLiteWaitingStore(db storage.SQLDB) *SQLiteWaitingStore {
	return &SQLiteWaitingStore{db: db}
}

const waitingColumns = `id, owner_id, name, email, message, created_at`

// GetByID retrieves a WaitingEntry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteWaitingStore) GetByID(ctx context.Context, id string) (domain.WaitingEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+waitingColumns+` FROM waiting_list WHERE id = ?`, id)
	return scanWaitingEntry(row.Scan)
}

// ListByOwnerID retrieves a club's waiting list, oldest first.
// PRE: ownerID is non-empty
// POST: Returns entries ordered by creation time ascending
func (s *SQLiteWaitingStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.WaitingEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+waitingColumns+` FROM waiting_list WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WaitingEntry
	for rows.Next() {
		w, err := scanWaitingEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, w)
	}
	return entries, rows.Err()
}

// Save persists a WaitingEntry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteWaitingStore) Save(ctx context.Context, w domain.WaitingEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO waiting_list (id, owner_id, name, email, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, email=excluded.email, message=excluded.message`,
		w.ID, w.OwnerID, w.Name, w.Email, w.Message, w.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a WaitingEntry from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteWaitingStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM waiting_list WHERE id = ?`, id)
	return err
}

func scanWaitingEntry(scan func(...any) error) (domain.WaitingEntry, error) {
	var w domain.WaitingEntry
	var createdAt string
	err := scan(&w.ID, &w.OwnerID, &w.Name, &w.Email, &w.Message, &createdAt)
	if err != nil {
		return domain.WaitingEntry{}, err
	}
	w.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return w, nil
}
