package transaction

import (
	"context"
	"database/sql"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/transaction"
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

const transactionColumns = `id, owner_id, kind, amount_cents, description, category, occurred_at, created_at`

// GetByID retrieves a Transaction by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row.Scan)
}

// ListByOwnerID retrieves a club's Transactions, most recent first.
// PRE: ownerID is non-empty
// POST: Returns transactions ordered by occurrence time descending
func (s *SQLiteStore) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE owner_id = ? ORDER BY occurred_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// BalanceCents computes income minus expenses for a club.
// PRE: ownerID is non-empty
// POST: Returns the signed balance in cents
func (s *SQLiteStore) BalanceCents(ctx context.Context, ownerID string) (int64, error) {
	var balance sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(CASE WHEN kind = ? THEN amount_cents ELSE -amount_cents END)
		 FROM transactions WHERE owner_id = ?`,
		domain.KindIncome, ownerID).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance.Int64, nil
}

// Save persists a Transaction to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, t domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner_id, kind, amount_cents, description, category, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind=excluded.kind, amount_cents=excluded.amount_cents,
		   description=excluded.description, category=excluded.category,
		   occurred_at=excluded.occurred_at`,
		t.ID, t.OwnerID, t.Kind, t.AmountCents, t.Description, t.Category,
		t.OccurredAt.Format(timeLayout), t.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a Transaction from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func scanTransaction(scan func(...any) error) (domain.Transaction, error) {
	var t domain.Transaction
	var occurredAt, createdAt string
	err := scan(&t.ID, &t.OwnerID, &t.Kind, &t.AmountCents, &t.Description,
		&t.Category, &occurredAt, &createdAt)
	if err != nil {
		return domain.Transaction{}, err
	}
	t.OccurredAt, _ = time.Parse(timeLayout, occurredAt)
	t.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return t, nil
}
