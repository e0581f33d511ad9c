package note

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/note"
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

const noteColumns = `id, owner_id, author_id, title, content, pinned, created_at, updated_at`

// GetByID retrieves a Note by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM presidency_notes WHERE id = ?`, id)
	return scanNote(row.Scan)
}

// ListByOwnerID retrieves a club's Notes, pinned first then newest first.
// PRE: ownerID is non-empty
// POST: Returns notes ordered by pinned flag then creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM presidency_notes
		 WHERE owner_id = ? ORDER BY pinned DESC, created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Save persists a Note to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, n domain.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presidency_notes (id, owner_id, author_id, title, content, pinned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, content=excluded.content, pinned=excluded.pinned,
		   updated_at=excluded.updated_at`,
		n.ID, n.OwnerID, n.AuthorID, n.Title, n.Content, boolToInt(n.Pinned),
		n.CreatedAt.Format(timeLayout), nullTime(n.UpdatedAt))
	return err
}

// Delete removes a Note from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM presidency_notes WHERE id = ?`, id)
	return err
}

func scanNote(scan func(...any) error) (domain.Note, error) {
	var n domain.Note
	var pinned int
	var createdAt string
	var updatedAt sql.NullString
	err := scan(&n.ID, &n.OwnerID, &n.AuthorID, &n.Title, &n.Content, &pinned,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Note{}, err
	}
	n.Pinned = pinned != 0
	n.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		n.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
