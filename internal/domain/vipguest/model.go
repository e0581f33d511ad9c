package vipguest

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyOwnerID = errors.New("owner ID is required")
	ErrEmptyName    = errors.New("guest name is required")
)

// Guest is a VIP guest record kept by the prefecture for ceremonies:
// dignitaries, district officers, speakers.
type Guest struct {
	ID        string
	OwnerID   string
	Name      string
	Title     string // honorific or role, free text
	Email     string
	Phone     string
	Notes     string
	EventID   string // optional link to the ceremony they attend
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Guest has valid data.
// PRE: Guest struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Guest) Validate() error {
	if g.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Email != "" && !strings.Contains(g.Email, "@") {
		return errors.New("guest email must be valid")
	}
	if g.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
