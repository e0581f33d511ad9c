package meeting

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/meeting"
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

const meetingColumns = `id, owner_id, title, held_at, location, agenda, minutes, status, created_at, updated_at`

// GetByID retrieves a Meeting by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Meeting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+meetingColumns+` FROM board_meetings WHERE id = ?`, id)
	return scanMeeting(row.Scan)
}

// ListByOwnerID retrieves a club's Meetings, most recent first.
// PRE: ownerID is non-empty
// POST: Returns meetings ordered by held_at descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Meeting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+meetingColumns+` FROM board_meetings WHERE owner_id = ? ORDER BY held_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []domain.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows.Scan)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Save persists a Meeting to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Meeting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO board_meetings (id, owner_id, title, held_at, location, agenda, minutes, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, held_at=excluded.held_at, location=excluded.location,
		   agenda=excluded.agenda, minutes=excluded.minutes, status=excluded.status,
		   updated_at=excluded.updated_at`,
		m.ID, m.OwnerID, m.Title, m.HeldAt.Format(timeLayout), m.Location,
		m.Agenda, m.Minutes, m.Status, m.CreatedAt.Format(timeLayout), nullTime(m.UpdatedAt))
	return err
}

// Delete removes a Meeting from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM board_meetings WHERE id = ?`, id)
	return err
}

func scanMeeting(scan func(...any) error) (domain.Meeting, error) {
	var m domain.Meeting
	var heldAt, createdAt string
	var updatedAt sql.NullString
	err := scan(&m.ID, &m.OwnerID, &m.Title, &heldAt, &m.Location, &m.Agenda,
		&m.Minutes, &m.Status, &createdAt, &updatedAt)
	if err != nil {
		return domain.Meeting{}, err
	}
	m.HeldAt, _ = time.Parse(timeLayout, heldAt)
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	if updatedAt.Valid {
		m.UpdatedAt, _ = time.Parse(timeLayout, updatedAt.String)
	}
	return m, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}
