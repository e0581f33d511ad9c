package snapshot

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/snapshot"
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

const snapshotColumns = `id, owner_id, table_name, record_id, snapshot_data, taken_by, created_at`

// GetByID retrieves a Snapshot by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM data_snapshots WHERE id = ?`, id)
	return scanSnapshot(row.Scan)
}

// ListByRecord retrieves the snapshot history of a single row, newest first.
// PRE: ownerID and recordID are non-empty, table is valid
// POST: Returns snapshots ordered by creation time descending
func (s *SQLiteStore) ListByRecord(ctx context.Context, ownerID string, table domain.Table, recordID string) ([]domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM data_snapshots
		 WHERE owner_id = ? AND table_name = ? AND record_id = ?
		 ORDER BY created_at DESC`,
		ownerID, string(table), recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

// ListByOwnerID retrieves a club's most recent snapshots across all tables.
// PRE: ownerID is non-empty, limit > 0
// POST: Returns snapshots ordered by creation time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string, limit int) ([]domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM data_snapshots
		 WHERE owner_id = ? ORDER BY created_at DESC LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

// Save persists a Snapshot to the database.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, snap domain.Snapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO data_snapshots (id, owner_id, table_name, record_id, snapshot_data, taken_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.OwnerID, string(snap.Table), snap.RecordID, snap.Data,
		snap.TakenBy, snap.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Snapshot from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM data_snapshots WHERE id = ?`, id)
	return err
}

func collectSnapshots(rows *sql.Rows) ([]domain.Snapshot, error) {
	var snapshots []domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(scan func(...any) error) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var table, createdAt string
	err := scan(&snap.ID, &snap.OwnerID, &table, &snap.RecordID, &snap.Data,
		&snap.TakenBy, &createdAt)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Table = domain.Table(table)
	snap.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return snap, nil
}
