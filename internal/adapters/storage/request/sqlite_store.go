package request

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"clubhouse/internal/adapters/storage"
	permissionDomain "clubhouse/internal/domain/permission"
	domain "clubhouse/internal/domain/request"
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

const requestColumns = `id, owner_id, section, author_id, parent_id, content, status, created_at`

// GetByID retrieves a SectionRequest by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.SectionRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM section_requests WHERE id = ?`, id)
	return scanRequest(row.Scan)
}

// Save persists a SectionRequest to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, r domain.SectionRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO section_requests (id, owner_id, section, author_id, parent_id, content, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content=excluded.content, status=excluded.status`,
		r.ID, r.OwnerID, string(r.Section), r.AuthorID, nullStr(r.ParentID),
		r.Content, r.Status, r.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a SectionRequest from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM section_requests WHERE id = ?`, id)
	return err
}

// ListTopLevel retrieves top-level requests for a section, newest first.
// PRE: ownerID is non-empty, section is valid, status is active or archived
// POST: Returned rows never include replies
func (s *SQLiteStore) ListTopLevel(ctx context.Context, ownerID string, section permissionDomain.Section, status string) ([]domain.SectionRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM section_requests
		 WHERE owner_id = ? AND section = ? AND status = ? AND parent_id IS NULL
		 ORDER BY created_at DESC`,
		ownerID, string(section), status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ListRepliesByParentIDs retrieves replies for a batch of threads, oldest first.
// PRE: parentIDs may be empty
// POST: Returns replies in chronological conversation order
func (s *SQLiteStore) ListRepliesByParentIDs(ctx context.Context, parentIDs []string) ([]domain.SectionRequest, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(parentIDs)), ",")
	args := make([]any, len(parentIDs))
	for i, id := range parentIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM section_requests
		 WHERE parent_id IN (`+placeholders+`)
		 ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequest(scan func(...any) error) (domain.SectionRequest, error) {
	var r domain.SectionRequest
	var section, createdAt string
	var parentID sql.NullString
	err := scan(&r.ID, &r.OwnerID, &section, &r.AuthorID, &parentID, &r.Content,
		&r.Status, &createdAt)
	if err != nil {
		return domain.SectionRequest{}, err
	}
	r.Section = permissionDomain.Section(section)
	if parentID.Valid {
		r.ParentID = parentID.String
	}
	r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return r, nil
}

func scanRequests(rows *sql.Rows) ([]domain.SectionRequest, error) {
	var requests []domain.SectionRequest
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
