package vipguest

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/vipguest"
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

const guestColumns = `id, owner_id, name, title, email, phone, notes, event_id, created_at, updated_at`

// GetByID retrieves a Guest by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Guest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+guestColumns+` FROM vip_guests WHERE id = ?`, id)
	return scanGuest(row.Scan)
}

// ListByOwnerID retrieves a club's Guests alphabetically.
// PRE: ownerID is non-empty
// POST: Returns guests ordered by name
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM vip_guests WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}

// ListByEventID retrieves the Guests linked to an event.
// PRE: eventID is non-empty
// POST: Returns guests ordered by name
func (s *SQLiteStore) ListByEventID(ctx context.Context, eventID string) ([]domain.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM vip_guests WHERE event_id = ? ORDER BY name`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}

// Save persists a Guest to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, g domain.Guest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vip_guests (id, owner_id, name, title, email, phone, notes, event_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, title=excluded.title, email=excluded.email,
		   phone=excluded.phone, notes=excluded.notes, event_id=excluded.event_id,
		   updated_at=excluded.updated_at`,
		g.ID, g.OwnerID, g.Name, g.Title, g.Email, g.Phone, g.Notes,
		nullStr(g.EventID), g.CreatedAt.Format(timeLayout), nullTime(g.UpdatedAt))
	return err
}

// Delete removes a Guest from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vip_guests WHERE id = ?`, id)
	return err
}

func collectGuests(rows *sql.Rows) ([]domain.Guest, error) {
	var guests []domain.Guest
	for rows.Next() {
		g, err := scanGuest(rows.Scan)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func scanGuest(scan func(...any) error) (domain.Guest, error) {
	var g domain.Guest
	var createdAt string
	var eventID, updatedAt sql.NullString
	err := scan(&g.ID, &g.OwnerID, &g.Name, &g.Title, &g.Email, &g.Phone,
		&g.Notes, &eventID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Guest{}, err
	}
	g.EventID = eventID.String
	g.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		g.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return g, nil
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
