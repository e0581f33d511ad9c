package meeting

import (
	"errors"
	"strings"
	"time"
)

// Status constants.
const (
	StatusScheduled = "scheduled"
	StatusHeld      = "held"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrEmptyOwnerID  = errors.New("owner ID is required")
	ErrEmptyTitle    = errors.New("meeting title is required")
	ErrEmptyHeldAt   = errors.New("meeting date is required")
	ErrInvalidStatus = errors.New("status must be scheduled, held, or cancelled")
	ErrAlreadyHeld   = errors.New("meeting has already been held")
)

// Meeting is a board (consiglio direttivo) meeting with agenda and minutes.
type Meeting struct {
	ID        string
	OwnerID   string
	Title     string
	HeldAt    time.Time
	Location  string
	Agenda    string // markdown
	Minutes   string // markdown, filled after the meeting
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Meeting has valid data.
// PRE: Meeting struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Meeting) Validate() error {
	if m.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if m.HeldAt.IsZero() {
		return ErrEmptyHeldAt
	}
	if m.Status != StatusScheduled && m.Status != StatusHeld && m.Status != StatusCancelled {
		return ErrInvalidStatus
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// RecordMinutes marks the meeting as held and stores the minutes.
// PRE: meeting is scheduled
// POST: Status is held, Minutes set
func (m *Meeting) RecordMinutes(minutes string) error {
	if m.Status == StatusHeld {
		return ErrAlreadyHeld
	}
	if m.Status == StatusCancelled {
		return errors.New("cancelled meetings cannot record minutes")
	}
	m.Minutes = minutes
	m.Status = StatusHeld
	return nil
}
