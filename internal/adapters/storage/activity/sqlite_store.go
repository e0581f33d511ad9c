package activity

import (
	"context"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/activity"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements the activity Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = `id, owner_id, timestamp, category, action, actor_id, actor_email, resource_id, resource_type, description, ip_address`

// Save persists a log entry.
// PRE: entry is valid
// POST: Entry is persisted
func (s *SQLiteStore) Save(ctx context.Context, entry domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_activity_log (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OwnerID, entry.Timestamp.Format(timeLayout),
		string(entry.Category), string(entry.Action), entry.ActorID, entry.ActorEmail,
		entry.ResourceID, entry.ResourceType, entry.Description, entry.IPAddress)
	return err
}

// List returns a club's log entries with optional filtering.
// PRE: ownerID is non-empty, limit > 0
// POST: Returns entries ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, ownerID string, filter Filter, limit int) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM admin_activity_log WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.ActorID != nil {
		query += " AND actor_id = ?"
		args = append(args, *filter.ActorID)
	}
	if filter.ResourceID != nil {
		query += " AND resource_id = ?"
		args = append(args, *filter.ResourceID)
	}
	if filter.FromDate != nil {
		query += " AND timestamp >= ?"
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		query += " AND timestamp <= ?"
		args = append(args, *filter.ToDate)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID retrieves a specific entry.
// PRE: id is non-empty
// POST: Returns the entry or error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM admin_activity_log WHERE id = ?`, id)
	return scanEntry(row.Scan)
}

func scanEntry(scan func(...any) error) (domain.Entry, error) {
	var e domain.Entry
	var timestamp string
	err := scan(&e.ID, &e.OwnerID, &timestamp, &e.Category, &e.Action,
		&e.ActorID, &e.ActorEmail, &e.ResourceID, &e.ResourceType, &e.Description, &e.IPAddress)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Timestamp, _ = time.Parse(timeLayout, timestamp)
	return e, nil
}
