package commission

import (
	"errors"
	"strings"
	"time"
)

// Status constants.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Domain errors
var (
	ErrEmptyOwnerID  = errors.New("owner ID is required")
	ErrEmptyName     = errors.New("commission name is required")
	ErrInvalidStatus = errors.New("status must be active or closed")
)

// Commission is a working group within the club (e.g. youth exchange,
// fundraising). Projects reference a commission by ID.
type Commission struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	ChairName   string // display name of the chairing member
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks if the Commission has valid data.
// PRE: Commission struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Commission) Validate() error {
	if c.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Status != StatusActive && c.Status != StatusClosed {
		return ErrInvalidStatus
	}
	if c.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
