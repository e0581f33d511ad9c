package invite

import (
	"errors"
	"strings"
	"time"
)

// WaitingEntry is a prospective member captured from the public page before
// any invite is issued. Admins review the list and either convert an entry
// into an invite or delete it.
type WaitingEntry struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Validate checks if the WaitingEntry has valid data.
// PRE: WaitingEntry struct is populated
// POST: Returns nil if valid, error otherwise
func (w *WaitingEntry) Validate() error {
	if w.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(w.Name) == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(w.Email, "@") {
		return ErrInvalidEmail
	}
	if w.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
