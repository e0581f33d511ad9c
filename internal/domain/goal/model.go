package goal

import (
	"errors"
	"strings"
	"time"
)

// Status constants.
const (
	StatusOpen     = "open"
	StatusAchieved = "achieved"
	StatusDropped  = "dropped"
)

// Domain errors
var (
	ErrEmptyOwnerID  = errors.New("owner ID is required")
	ErrEmptyTitle    = errors.New("goal title is required")
	ErrInvalidStatus = errors.New("status must be open, achieved, or dropped")
	ErrInvalidTarget = errors.New("target must be greater than zero")
)

// Goal is an annual club goal with optional numeric progress tracking.
type Goal struct {
	ID        string
	OwnerID   string
	Title     string
	Notes     string
	Target    int // optional; zero means the goal is a plain checklist item
	Progress  int
	Status    string
	DueAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Goal has valid data.
// PRE: Goal struct is populated
// POST: Returns nil if valid, error otherwise
func (g *Goal) Validate() error {
	if g.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.Status != StatusOpen && g.Status != StatusAchieved && g.Status != StatusDropped {
		return ErrInvalidStatus
	}
	if g.Target < 0 {
		return ErrInvalidTarget
	}
	if g.Progress < 0 {
		return errors.New("progress cannot be negative")
	}
	if g.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// IsAchieved returns true once progress has reached the target.
// INVARIANT: Goal fields are not mutated
func (g *Goal) IsAchieved() bool {
	if g.Status == StatusAchieved {
		return true
	}
	return g.Target > 0 && g.Progress >= g.Target
}
