package invite

import (
	"errors"
	"strings"
	"time"
)

// Status constants for the invite lifecycle.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
	StatusRevoked  = "revoked"
)

// DefaultTTL is how long an invite link stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Domain errors
var (
	ErrEmptyOwnerID = errors.New("owner ID is required")
	ErrInvalidEmail = errors.New("invite email must be valid")
	ErrEmptyToken   = errors.New("invite token is required")
	ErrNotPending   = errors.New("invite is not pending")
	ErrExpired      = errors.New("invite has expired")
)

// Invite is a club invitation: the admin invites an email address, the
// invitee follows the emailed token link and gets a member account scoped to
// the inviting club.
type Invite struct {
	ID         string
	OwnerID    string
	Email      string
	Token      string
	Status     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	AcceptedAt time.Time
}

// Validate checks if the Invite has valid data.
// PRE: Invite struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Invite) Validate() error {
	if i.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	if i.Token == "" {
		return ErrEmptyToken
	}
	if i.ExpiresAt.IsZero() {
		return errors.New("expires_at must be set")
	}
	if i.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// IsExpired returns true if the invite is past its expiry.
// INVARIANT: Invite fields are not mutated
func (i *Invite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Accept marks a pending, unexpired invite as accepted.
// PRE: invite is pending and not expired
// POST: Status is accepted, AcceptedAt set
func (i *Invite) Accept(now time.Time) error {
	if i.Status != StatusPending {
		return ErrNotPending
	}
	if i.IsExpired(now) {
		return ErrExpired
	}
	i.Status = StatusAccepted
	i.AcceptedAt = now
	return nil
}

// Revoke withdraws a pending invite.
// PRE: invite is pending
// POST: Status is revoked
func (i *Invite) Revoke() error {
	if i.Status != StatusPending {
		return ErrNotPending
	}
	i.Status = StatusRevoked
	return nil
}
