package document

import (
	"errors"
	"strings"
	"time"
)

// Kind constants.
const (
	KindDocument = "document" // AI-completed letter, program, or report
	KindFlyer    = "flyer"    // AI-generated flyer (image URL + caption)
)

// Domain errors
var (
	ErrEmptyOwnerID = errors.New("owner ID is required")
	ErrEmptyTitle   = errors.New("document title is required")
	ErrInvalidKind  = errors.New("kind must be document or flyer")
)

// Document is a generated artifact kept for later editing and download.
// Body holds markdown for documents; for flyers it holds the caption and
// ImageURL points at the rendered asset.
type Document struct {
	ID        string
	OwnerID   string
	Kind      string
	Title     string
	Prompt    string // the request that produced the artifact
	Body      string
	ImageURL  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Document has valid data.
// PRE: Document struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Document) Validate() error {
	if d.OwnerID == "" {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.Kind != KindDocument && d.Kind != KindFlyer {
		return ErrInvalidKind
	}
	if d.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return nil
}
