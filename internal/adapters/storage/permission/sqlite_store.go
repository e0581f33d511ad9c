package permission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/permission"
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

const permissionColumns = `id, owner_id, user_id, section, is_responsible, created_at`

// GetByID retrieves a SectionPermission by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.SectionPermission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+permissionColumns+` FROM member_permissions WHERE id = ?`, id)
	return scanPermission(row.Scan)
}

// ListByUserID retrieves every grant held by a user.
// PRE: userID is non-empty
// POST: Returns grants ordered by section
func (s *SQLiteStore) ListByUserID(ctx context.Context, userID string) ([]domain.SectionPermission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM member_permissions WHERE user_id = ? ORDER BY section`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// ListByOwnerID retrieves every grant inside a club.
// PRE: ownerID is non-empty
// POST: Returns grants ordered by section, then user
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.SectionPermission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM member_permissions WHERE owner_id = ? ORDER BY section, user_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// ListResponsible retrieves the responsible grants for a (club, section).
// PRE: ownerID is non-empty, section is valid
// POST: Returns matching grants oldest first; normally zero or one
func (s *SQLiteStore) ListResponsible(ctx context.Context, ownerID string, section domain.Section) ([]domain.SectionPermission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+permissionColumns+` FROM member_permissions
		 WHERE owner_id = ? AND section = ? AND is_responsible = 1
		 ORDER BY created_at`, ownerID, string(section))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// Save persists a SectionPermission to the database. Re-granting an already
// held (owner, user, section) is a no-op: the existing row keeps its id and
// its is_responsible flag, which only SetResponsible may change.
// PRE: entity has been validated
// POST: Entity is persisted; an existing grant for the triple is untouched
func (s *SQLiteStore) Save(ctx context.Context, p domain.SectionPermission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO member_permissions (id, owner_id, user_id, section, is_responsible, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_id, user_id, section) DO NOTHING`,
		p.ID, p.OwnerID, p.UserID, string(p.Section), boolInt(p.IsResponsible),
		p.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a SectionPermission from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM member_permissions WHERE id = ?`, id)
	return err
}

// SetResponsible flags one grant as responsible and clears the flag from all
// other grants for the same (owner, section) atomically. This closes the
// check-then-insert race that would otherwise allow two responsible members.
// PRE: permissionID belongs to (ownerID, section)
// POST: Exactly one grant for the pair carries is_responsible=1
func (s *SQLiteStore) SetResponsible(ctx context.Context, ownerID string, section domain.Section, permissionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE member_permissions SET is_responsible = 0
		 WHERE owner_id = ? AND section = ?`, ownerID, string(section)); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE member_permissions SET is_responsible = 1
		 WHERE id = ? AND owner_id = ? AND section = ?`,
		permissionID, ownerID, string(section))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("permission %s not found for owner %s section %s", permissionID, ownerID, section)
	}
	return tx.Commit()
}

func scanPermission(scan func(...any) error) (domain.SectionPermission, error) {
	var p domain.SectionPermission
	var section, createdAt string
	var responsible int
	err := scan(&p.ID, &p.OwnerID, &p.UserID, &section, &responsible, &createdAt)
	if err != nil {
		return domain.SectionPermission{}, err
	}
	p.Section = domain.Section(section)
	p.IsResponsible = responsible != 0
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return p, nil
}

func scanPermissions(rows *sql.Rows) ([]domain.SectionPermission, error) {
	var perms []domain.SectionPermission
	for rows.Next() {
		p, err := scanPermission(rows.Scan)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
