package profile

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/profile"
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

const profileColumns = `account_id, club_name, district, city, logo_url, slug, description, trial_ends_at, created_at, updated_at`

// GetByAccountID retrieves the Profile for an account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE account_id = ?`, accountID)
	return scanProfile(row.Scan)
}

// GetBySlug retrieves the Profile for a public page slug.
// PRE: slug is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE slug = ?`, slug)
	return scanProfile(row.Scan)
}

// Save persists a Profile to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (account_id, club_name, district, city, logo_url, slug, description, trial_ends_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET
		   club_name=excluded.club_name, district=excluded.district,
		   city=excluded.city, logo_url=excluded.logo_url, slug=excluded.slug,
		   description=excluded.description, trial_ends_at=excluded.trial_ends_at,
		   updated_at=excluded.updated_at`,
		p.AccountID, p.ClubName, p.District, p.City, p.LogoURL, nullStr(p.Slug),
		p.Description, nullTime(p.TrialEndsAt), p.CreatedAt.Format(timeLayout),
		nullTime(p.UpdatedAt))
	return err
}

func scanProfile(scan func(...any) error) (domain.Profile, error) {
	var p domain.Profile
	var slug, trialEndsAt, updatedAt sql.NullString
	var createdAt string
	err := scan(&p.AccountID, &p.ClubName, &p.District, &p.City, &p.LogoURL,
		&slug, &p.Description, &trialEndsAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.Profile{}, err
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if slug.Valid {
		p.Slug = slug.String
	}
	if trialEndsAt.Valid {
		p.TrialEndsAt, _ = time.Parse(timeLayout, trialEndsAt.String)
	}
	if updatedAt.Valid {
		p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return p, nil
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
