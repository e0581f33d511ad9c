package document

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/document"
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

const documentColumns = `id, owner_id, kind, title, prompt, body, image_url, created_by, created_at, updated_at`

// GetByID retrieves a Document by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row.Scan)
}

// ListByOwnerID retrieves a club's Documents, newest first.
// PRE: ownerID is non-empty
// POST: Returns documents ordered by creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListByOwnerIDAndKind retrieves a club's Documents of one kind.
// PRE: ownerID and kind are non-empty
// POST: Returns documents ordered by creation time descending
func (s *SQLiteStore) ListByOwnerIDAndKind(ctx context.Context, ownerID, kind string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE owner_id = ? AND kind = ? ORDER BY created_at DESC`, ownerID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Save persists a Document to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, d domain.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, owner_id, kind, title, prompt, body, image_url, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, body=excluded.body, image_url=excluded.image_url,
		   updated_at=excluded.updated_at`,
		d.ID, d.OwnerID, d.Kind, d.Title, d.Prompt, d.Body, d.ImageURL,
		d.CreatedBy, d.CreatedAt.Format(timeLayout), nullTime(d.UpdatedAt))
	return err
}

// Delete removes a Document from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var documents []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func scanDocument(scan func(...any) error) (domain.Document, error) {
	var d domain.Document
	var createdAt string
	var updatedAt sql.NullString
	err := scan(&d.ID, &d.OwnerID, &d.Kind, &d.Title, &d.Prompt, &d.Body,
		&d.ImageURL, &d.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Document{}, err
	}
	d.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		d.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return d, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
