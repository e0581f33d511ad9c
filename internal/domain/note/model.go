package note

import (
	"errors"
	"strings"
	"time"
)

// MaxContentLength bounds note bodies.
const MaxContentLength = 10000

// Domain errors
var (
	ErrEmptyOwnerID = errors.New("owner ID is required")
	ErrEmptyContent = errors.New("note content cannot be empty")
)

// Note is a presidency note: free-form markdown, optionally pinned.
type Note struct {
	ID        string
	OwnerID   string
	AuthorID  string
	Title     string
	Content   string // markdown
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Note has valid data.
// PRE: Note struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Note) Validate() error {
	if n.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(n.Content) == "" {
		return ErrEmptyContent
	}
	if len(n.Content) > MaxContentLength {
		return errors.New("note content cannot exceed 10000 characters")
	}
	if n.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
