package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Status constants.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Domain errors
var (
	ErrEmptyOwnerID    = errors.New("owner ID is required")
	ErrAlreadyArchived = errors.New("member is already archived")
	ErrNotArchived     = errors.New("member is not archived")
)

// Member links a person to a club. AccountID is set once the person has a
// portal login; members captured from paper records may have none.
type Member struct {
	ID        string
	OwnerID   string // tenant (club owner account ID)
	AccountID string
	Name      string
	Email     string
	Phone     string
	Office    string // club office held, free text (e.g. segretario, tesoriere)
	Status    string
	JoinedAt  time.Time
	CreatedAt time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if m.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") {
		return errors.New("member email must be valid")
	}
	if m.Status != StatusActive && m.Status != StatusInactive && m.Status != StatusArchived {
		return errors.New("status must be 'active', 'inactive', or 'archived'")
	}
	return nil
}

// IsActive returns true if the member is currently active.
// INVARIANT: Status field is not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Archive sets the member status to archived.
// PRE: Member is not already archived
// POST: Status is set to archived
func (m *Member) Archive() error {
	if m.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	m.Status = StatusArchived
	return nil
}

// Reactivate restores an archived member to active.
// PRE: Member is archived
// POST: Status is set to active
func (m *Member) Reactivate() error {
	if m.Status != StatusArchived {
		return ErrNotArchived
	}
	m.Status = StatusActive
	return nil
}
