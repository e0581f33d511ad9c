package transaction

import (
	"errors"
	"strings"
	"time"
)

// Kind constants.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Domain errors
var (
	ErrEmptyOwnerID     = errors.New("owner ID is required")
	ErrEmptyDescription = errors.New("transaction description is required")
	ErrInvalidKind      = errors.New("kind must be income or expense")
	ErrZeroAmount       = errors.New("amount must be greater than zero")
)

// Transaction is a treasury movement. Amounts are stored in cents to avoid
// floating point drift.
type Transaction struct {
	ID          string
	OwnerID     string
	Kind        string // income, expense
	AmountCents int64  // always positive; Kind carries the sign
	Description string
	Category    string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Validate checks if the Transaction has valid data.
// PRE: Transaction struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Transaction) Validate() error {
	if t.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return ErrInvalidKind
	}
	if t.AmountCents <= 0 {
		return ErrZeroAmount
	}
	if t.OccurredAt.IsZero() {
		return errors.New("occurred_at must be set")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// SignedCents returns the amount with expenses negated, for balance sums.
// INVARIANT: Transaction fields are not mutated
func (t *Transaction) SignedCents() int64 {
	if t.Kind == KindExpense {
		return -t.AmountCents
	}
	return t.AmountCents
}
