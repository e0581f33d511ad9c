package permission

import (
	"errors"
	"time"
)

// Section identifies a functional area of the portal used as the unit of
// permission granting.
type Section string

// Known sections.
const (
	SectionSecretariat   Section = "secretariat"
	SectionTreasury      Section = "treasury"
	SectionPrefecture    Section = "prefecture"
	SectionPresidency    Section = "presidency"
	SectionCommunication Section = "communication"
	SectionMembership    Section = "membership"
)

// AllSections lists every known section, in display order.
var AllSections = []Section{
	SectionSecretariat,
	SectionTreasury,
	SectionPrefecture,
	SectionPresidency,
	SectionCommunication,
	SectionMembership,
}

// Domain errors
var (
	ErrEmptyOwnerID   = errors.New("owner ID is required")
	ErrEmptyUserID    = errors.New("user ID is required")
	ErrInvalidSection = errors.New("unknown section")
)

// ValidSection reports whether s names a known section.
func ValidSection(s Section) bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}

// SectionPermission grants a user access to one section of a club.
// At most one permission per (tenant, section) should carry
// IsResponsible=true; the stores enforce this on write, and readers still
// tolerate duplicates left behind by older data.
type SectionPermission struct {
	ID            string
	OwnerID       string // tenant (club owner account ID)
	UserID        string // account ID of the grantee
	Section       Section
	IsResponsible bool
	CreatedAt     time.Time
}

// Validate checks if the SectionPermission has valid data.
// PRE: SectionPermission struct is populated
// POST: Returns nil if valid, error otherwise
func (p *SectionPermission) Validate() error {
	if p.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if !ValidSection(p.Section) {
		return ErrInvalidSection
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
