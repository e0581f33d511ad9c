package invite

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/invite"
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

const inviteColumns = `id, owner_id, email, token, status, expires_at, created_at, accepted_at`

// GetByID retrieves an Invite by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Invite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM club_invites WHERE id = ?`, id)
	return scanInvite(row.Scan)
}

// GetByToken retrieves an Invite by its token.
// PRE: token is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.Invite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM club_invites WHERE token = ?`, token)
	return scanInvite(row.Scan)
}

// ListByOwnerID retrieves a club's Invites, newest first.
// PRE: ownerID is non-empty
// POST: Returns invites ordered by creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Invite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM club_invites WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		i, err := scanInvite(rows.Scan)
		if err != nil {
			return nil, err
		}
		invites = append(invites, i)
	}
	return invites, rows.Err()
}

// GetPendingByEmail finds the pending invite for an address within a club.
// PRE: ownerID and email are non-empty
// POST: Returns the pending invite or sql.ErrNoRows
func (s *SQLiteStore) GetPendingByEmail(ctx context.Context, ownerID, email string) (domain.Invite, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM club_invites
		 WHERE owner_id = ? AND email = ? AND status = ?`,
		ownerID, email, domain.StatusPending)
	return scanInvite(row.Scan)
}

// Save persists an Invite to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, i domain.Invite) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO club_invites (id, owner_id, email, token, status, expires_at, created_at, accepted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, expires_at=excluded.expires_at,
		   accepted_at=excluded.accepted_at`,
		i.ID, i.OwnerID, i.Email, i.Token, i.Status,
		i.ExpiresAt.Format(timeLayout), i.CreatedAt.Format(timeLayout), nullTime(i.AcceptedAt))
	return err
}

// Delete removes an Invite from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM club_invites WHERE id = ?`, id)
	return err
}

func scanInvite(scan func(...any) error) (domain.Invite, error) {
	var i domain.Invite
	var expiresAt, createdAt string
	var acceptedAt sql.NullString
	err := scan(&i.ID, &i.OwnerID, &i.Email, &i.Token, &i.Status,
		&expiresAt, &createdAt, &acceptedAt)
	if err != nil {
		return domain.Invite{}, err
	}
	i.ExpiresAt, _ = time.Parse(timeLayout, expiresAt)
	i.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if acceptedAt.Valid {
		i.AcceptedAt, _ = time.Parse(timeLayout, acceptedAt.String)
	}
	return i, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
