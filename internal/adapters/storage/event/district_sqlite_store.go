package event

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/event"
)

// DistrictSQLiteStore implements DistrictStore using SQLite.
type DistrictSQLiteStore struct {
	db storage.SQLDB
}

// NewDistrictSQLiteStore creates a new DistrictSQLiteStore.
func NewDistrictSQLiteStore(db storage.SQLDB) *DistrictSQLiteStore {
	return &DistrictSQLiteStore{db: db}
}

const districtColumns = `id, owner_id, title, location, starts_at, ends_at, description, created_at`

// GetByID retrieves a DistrictEvent by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *DistrictSQLiteStore) GetByID(ctx context.Context, id string) (domain.DistrictEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+districtColumns+` FROM district_events WHERE id = ?`, id)
	return scanDistrictEvent(row.Scan)
}

// ListByOwnerID retrieves a club's district events, soonest first.
// PRE: ownerID is non-empty
// POST: Returns events ordered by start time
func (s *DistrictSQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.DistrictEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+districtColumns+` FROM district_events WHERE owner_id = ? ORDER BY starts_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.DistrictEvent
	for rows.Next() {
		e, err := scanDistrictEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Save persists a DistrictEvent to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *DistrictSQLiteStore) Save(ctx context.Context, d domain.DistrictEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO district_events (id, owner_id, title, location, starts_at, ends_at, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, location=excluded.location,
		   starts_at=excluded.starts_at, ends_at=excluded.ends_at,
		   description=excluded.description`,
		d.ID, d.OwnerID, d.Title, d.Location, d.StartsAt.Format(timeLayout),
		nullTime(d.EndsAt), d.Description, d.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a DistrictEvent from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *DistrictSQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM district_events WHERE id = ?`, id)
	return err
}

func scanDistrictEvent(scan func(...any) error) (domain.DistrictEvent, error) {
	var d domain.DistrictEvent
	var startsAt, createdAt string
	var endsAt sql.NullString
	err := scan(&d.ID, &d.OwnerID, &d.Title, &d.Location, &startsAt, &endsAt,
		&d.Description, &createdAt)
	if err != nil {
		return domain.DistrictEvent{}, err
	}
	d.StartsAt, _ = time.Parse(timeLayout, startsAt)
	d.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if endsAt.Valid {
		d.EndsAt, _ = time.Parse(timeLayout, endsAt.String)
	}
	return d, nil
}
