package event

import (
	"errors"
	"strings"
	"time"
)

// DistrictEvent is a district-level event shared with the club calendar.
// District events are informational: clubs track them but do not move them
// across the board.
type DistrictEvent struct {
	ID          string
	OwnerID     string
	Title       string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Description string
	CreatedAt   time.Time
}

// Validate checks if the DistrictEvent has valid data.
// PRE: DistrictEvent struct is populated
// POST: Returns nil if valid, error otherwise
func (d *DistrictEvent) Validate() error {
	if d.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.StartsAt.IsZero() {
		return ErrEmptyStartsAt
	}
	if !d.EndsAt.IsZero() && d.EndsAt.Before(d.StartsAt) {
		return errors.New("end date cannot be before start date")
	}
	if d.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
