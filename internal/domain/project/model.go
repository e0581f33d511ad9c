package project

import (
	"errors"
	"strings"
	"time"
)

// Status constants.
const (
	StatusProposed  = "proposed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatuses contains every status a project can hold.
var ValidStatuses = []string{StatusProposed, StatusActive, StatusCompleted, StatusCancelled}

// Domain errors
var (
	ErrEmptyOwnerID   = errors.New("owner ID is required")
	ErrEmptyTitle     = errors.New("project title is required")
	ErrInvalidStatus  = errors.New("invalid project status")
	ErrNegativeBudget = errors.New("budget cannot be negative")
)

// Project is a presidency project, optionally tied to a commission. Creating
// a project does not verify the commission in the same transaction; a project
// referencing a deleted commission simply shows as unassigned.
type Project struct {
	ID           string
	OwnerID      string
	CommissionID string // optional
	Title        string
	Description  string
	Status       string
	BudgetCents  int64
	StartsAt     time.Time
	EndsAt       time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks if the Project has valid data.
// PRE: Project struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Project) Validate() error {
	if p.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if !validStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.BudgetCents < 0 {
		return ErrNegativeBudget
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

func validStatus(s string) bool {
	for _, known := range ValidStatuses {
		if s == known {
			return true
		}
	}
	return false
}
