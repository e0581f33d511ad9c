package event

import (
	"errors"
	"strings"
	"time"
)

// Status constants for the event board.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ValidStatuses contains every status an event can hold.
var ValidStatuses = []string{StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled}

// BoardStatuses are the statuses shown as board columns. Cancelled is
// reachable through the normal edit path but is not a draggable column.
var BoardStatuses = []string{StatusPlanned, StatusInProgress, StatusCompleted}

// Event type constants.
const (
	TypeCeremony = "ceremony"
	TypeMeeting  = "meeting"
	TypeService  = "service"
	TypeVisit    = "visit"
)

// Domain errors
var (
	ErrEmptyOwnerID  = errors.New("owner ID is required")
	ErrEmptyTitle    = errors.New("event title is required")
	ErrEmptyStartsAt = errors.New("event date is required")
	ErrInvalidStatus = errors.New("status must be one of: planned, in_progress, completed, cancelled")
	ErrNegativeCount = errors.New("participant count cannot be negative")
)

// Event is a club ceremony or gathering managed by the prefecture section.
// Status is the only field the board mutates.
type Event struct {
	ID              string
	OwnerID         string // tenant (club owner account ID)
	Title           string
	Type            string // ceremony, meeting, service, visit
	CeremonySubtype string // set only when Type is ceremony
	StartsAt        time.Time
	Location        string
	Participants    int
	Status          string
	Public          bool // shown on the public club page when true
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatus reports whether s is a known event status.
func ValidStatus(s string) bool {
	for _, known := range ValidStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if e.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.StartsAt.IsZero() {
		return ErrEmptyStartsAt
	}
	if !ValidStatus(e.Status) {
		return ErrInvalidStatus
	}
	if e.Participants < 0 {
		return ErrNegativeCount
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// ChangeStatus moves the event to a new status.
// PRE: to is a valid status
// POST: Status is updated
func (e *Event) ChangeStatus(to string) error {
	if !ValidStatus(to) {
		return ErrInvalidStatus
	}
	e.Status = to
	return nil
}
