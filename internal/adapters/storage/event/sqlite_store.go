package event

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/event"
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

const eventColumns = `id, owner_id, title, type, ceremony_subtype, starts_at, location, participants, status, public, notes, created_at, updated_at`

// GetByID retrieves an Event by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM prefecture_events WHERE id = ?`, id)
	return scanEvent(row.Scan)
}

// ListByOwnerID retrieves all Events of a club, soonest first.
// PRE: ownerID is non-empty
// POST: Returns events ordered by start time
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM prefecture_events WHERE owner_id = ? ORDER BY starts_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListByOwnerIDAndStatus retrieves a club's Events in one board column.
// PRE: ownerID and status are non-empty
// POST: Returns matching events ordered by start time
func (s *SQLiteStore) ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM prefecture_events
		 WHERE owner_id = ? AND status = ? ORDER BY starts_at`, ownerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListPublicUpcoming retrieves upcoming public events for the club page.
// PRE: limit > 0
// POST: Returns at most limit public events starting at or after from
func (s *SQLiteStore) ListPublicUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM prefecture_events
		 WHERE owner_id = ? AND public = 1 AND status != ? AND starts_at >= ?
		 ORDER BY starts_at LIMIT ?`,
		ownerID, domain.StatusCancelled, from.Format(timeLayout), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Save persists an Event to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefecture_events (id, owner_id, title, type, ceremony_subtype, starts_at, location, participants, status, public, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, type=excluded.type,
		   ceremony_subtype=excluded.ceremony_subtype, starts_at=excluded.starts_at,
		   location=excluded.location, participants=excluded.participants,
		   status=excluded.status, public=excluded.public, notes=excluded.notes,
		   updated_at=excluded.updated_at`,
		e.ID, e.OwnerID, e.Title, e.Type, e.CeremonySubtype,
		e.StartsAt.Format(timeLayout), e.Location, e.Participants, e.Status,
		boolInt(e.Public), e.Notes, e.CreatedAt.Format(timeLayout), nullTime(e.UpdatedAt))
	return err
}

// Delete removes an Event from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM prefecture_events WHERE id = ?`, id)
	return err
}

func scanEvent(scan func(...any) error) (domain.Event, error) {
	var e domain.Event
	var startsAt, createdAt string
	var updatedAt sql.NullString
	var public int
	err := scan(&e.ID, &e.OwnerID, &e.Title, &e.Type, &e.CeremonySubtype,
		&startsAt, &e.Location, &e.Participants, &e.Status, &public, &e.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.Public = public != 0
	e.StartsAt, _ = time.Parse(timeLayout, startsAt)
	e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		e.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
