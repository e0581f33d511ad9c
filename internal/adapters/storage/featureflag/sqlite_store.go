package featureflag

import (
	"context"
	"fmt"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/featureflag"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new FeatureFlag store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByKey retrieves a single FeatureFlag by its stable key.
// PRE: key is non-empty
// POST: Returns the persisted feature flag or an error if not found
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) GetByKey(ctx context.Context, key string) (domain.FeatureFlag, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, description, enabled_admin, enabled_member
		FROM feature_flag
		WHERE key = ?
	`, key)
	return scanFlag(row.Scan)
}

// List returns all persisted feature flags.
// PRE: none
// POST: Returns all persisted flags sorted by key
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) List(ctx context.Context) ([]domain.FeatureFlag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, description, enabled_admin, enabled_member
		FROM feature_flag
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FeatureFlag
	for rows.Next() {
		ff, err := scanFlag(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ff)
	}
	if out == nil {
		out = []domain.FeatureFlag{}
	}
	return out, rows.Err()
}

// Save upserts a feature flag.
// PRE: value has a non-empty Key
// POST: Feature flag is persisted (insert or update)
// INVARIANT: No other feature flags are modified
func (s *SQLiteStore) Save(ctx context.Context, value domain.FeatureFlag) error {
	if err := value.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feature_flag (key, description, enabled_admin, enabled_member)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			description=excluded.description,
			enabled_admin=excluded.enabled_admin,
			enabled_member=excluded.enabled_member
	`,
		value.Key,
		value.Description,
		boolToInt(value.EnabledAdmin),
		boolToInt(value.EnabledMember),
	)
	if err != nil {
		return fmt.Errorf("save feature_flag: %w", err)
	}
	return nil
}

func scanFlag(scan func(dest ...any) error) (domain.FeatureFlag, error) {
	var ff domain.FeatureFlag
	var enabledAdmin, enabledMember int
	if err := scan(&ff.Key, &ff.Description, &enabledAdmin, &enabledMember); err != nil {
		return domain.FeatureFlag{}, err
	}
	ff.EnabledAdmin = enabledAdmin != 0
	ff.EnabledMember = enabledMember != 0
	return ff, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
