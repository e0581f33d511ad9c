package member

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/member"
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

const memberColumns = `id, owner_id, account_id, name, email, phone, office, status, joined_at, created_at`

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	return scanMember(row.Scan)
}

// GetByAccountID retrieves the Member linked to a portal account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE account_id = ?`, accountID)
	return scanMember(row.Scan)
}

// ListByOwnerID retrieves all Members of a club.
// PRE: ownerID is non-empty
// POST: Returns members ordered by name
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// ListByOwnerIDAndStatus retrieves Members of a club filtered by status.
// PRE: ownerID and status are non-empty
// POST: Returns matching members ordered by name
func (s *SQLiteStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE owner_id = ? AND status = ? ORDER BY name`,
		ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, owner_id, account_id, name, email, phone, office, status, joined_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   account_id=excluded.account_id, name=excluded.name, email=excluded.email,
		   phone=excluded.phone, office=excluded.office, status=excluded.status,
		   joined_at=excluded.joined_at`,
		m.ID, m.OwnerID, nullStr(m.AccountID), m.Name, m.Email, m.Phone, m.Office,
		m.Status, nullTime(m.JoinedAt), m.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	return err
}

// CountByOwnerID counts a club's members.
// PRE: ownerID is non-empty
// POST: Returns the count
func (s *SQLiteStore) CountByOwnerID(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE owner_id = ?`, ownerID).Scan(&count)
	return count, err
}

func scanMember(scan func(...any) error) (domain.Member, error) {
	var m domain.Member
	var accountID, joinedAt sql.NullString
	var createdAt string
	err := scan(&m.ID, &m.OwnerID, &accountID, &m.Name, &m.Email, &m.Phone,
		&m.Office, &m.Status, &joinedAt, &createdAt)
	if err != nil {
		return domain.Member{}, err
	}
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if accountID.Valid {
		m.AccountID = accountID.String
	}
	if joinedAt.Valid {
		m.JoinedAt, _ = time.Parse(timeLayout, joinedAt.String)
	}
	return m, nil
}

func scanMembers(rows *sql.Rows) ([]domain.Member, error) {
	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
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
