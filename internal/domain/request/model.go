package request

import (
	"errors"
	"strings"
	"time"

	"clubhouse/internal/domain/permission"
)

// Status constants for the request lifecycle.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// MaxContentLength bounds user-submitted request content.
const MaxContentLength = 4000

// Domain errors
var (
	ErrEmptyOwnerID    = errors.New("owner ID is required")
	ErrEmptyAuthorID   = errors.New("author ID is required")
	ErrEmptyContent    = errors.New("request content cannot be empty")
	ErrContentTooLong  = errors.New("request content cannot exceed 4000 characters")
	ErrInvalidSection  = errors.New("unknown section")
	ErrInvalidStatus   = errors.New("status must be active or archived")
	ErrAlreadyArchived = errors.New("request is already archived")
	ErrReplyToReply    = errors.New("replies cannot be replied to")
)

// SectionRequest is one message on a section's request board: either a
// top-level request or, when ParentID is set, a single-level reply.
// Replies are never themselves parents.
type SectionRequest struct {
	ID        string
	OwnerID   string // tenant (club owner account ID)
	Section   permission.Section
	AuthorID  string // account ID of the author
	ParentID  string // empty for top-level requests
	Content   string
	Status    string // active, archived
	CreatedAt time.Time
}

// IsReply returns true if this message is a reply to another request.
// INVARIANT: SectionRequest fields are not mutated
func (r *SectionRequest) IsReply() bool {
	return r.ParentID != ""
}

// Validate checks if the SectionRequest has valid data.
// PRE: SectionRequest struct is populated
// POST: Returns nil if valid, error otherwise
func (r *SectionRequest) Validate() error {
	if r.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if r.AuthorID == "" {
		return ErrEmptyAuthorID
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}
	if len(r.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if !permission.ValidSection(r.Section) {
		return ErrInvalidSection
	}
	if r.Status != StatusActive && r.Status != StatusArchived {
		return ErrInvalidStatus
	}
	if r.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}

// Archive flips the request to archived. The transition is one-way.
// PRE: request is active
// POST: Status is archived
func (r *SectionRequest) Archive() error {
	if r.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	r.Status = StatusArchived
	return nil
}
