package profile

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxClubNameLength = 120
	MaxSlugLength     = 60
)

// Domain errors
var (
	ErrEmptyAccountID = errors.New("account ID is required")
	ErrEmptyClubName  = errors.New("club name is required")
	ErrInvalidSlug    = errors.New("slug may only contain lowercase letters, digits and hyphens")
)

// Profile carries the club identity for an admin account. One profile per
// tenant; members inherit the owner's profile for display purposes.
type Profile struct {
	AccountID   string // admin account ID, also the tenant ID
	ClubName    string
	District    string
	City        string
	LogoURL     string
	Slug        string // public page path segment, empty disables the page
	Description string // markdown shown on the public page
	TrialEndsAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if p.AccountID == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(p.ClubName) == "" {
		return ErrEmptyClubName
	}
	if len(p.ClubName) > MaxClubNameLength {
		return errors.New("club name cannot exceed 120 characters")
	}
	if p.Slug != "" && !validSlug(p.Slug) {
		return ErrInvalidSlug
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// InTrial returns true when the trial window is set and has not elapsed.
// INVARIANT: Profile fields are not mutated
func (p *Profile) InTrial(now time.Time) bool {
	if p.TrialEndsAt.IsZero() {
		return false
	}
	return now.Before(p.TrialEndsAt)
}

// HasPublicPage returns true when the club has opted into a public page.
// INVARIANT: Profile fields are not mutated
func (p *Profile) HasPublicPage() bool {
	return p.Slug != ""
}

func validSlug(s string) bool {
	if len(s) > MaxSlugLength {
		return false
	}
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		return false
	}
	return true
}
