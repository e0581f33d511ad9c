package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/adapters/ai"
	"clubhouse/internal/domain/document"
)

// DocumentStoreForOrchestrator defines the store interface needed by document orchestrators.
type DocumentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (document.Document, error)
	Save(ctx context.Context, d document.Document) error
}

var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// --- Generate Document ---

// GenerateDocumentInput carries input for the generate document orchestrator.
type GenerateDocumentInput struct {
	OwnerID   string
	ClubName  string
	Prompt    string
	Kind      string // free text hint: letter, program, report
	CreatedBy string
}

// GenerateDocumentDeps holds dependencies for GenerateDocument.
type GenerateDocumentDeps struct {
	DocumentStore DocumentStoreForOrchestrator
	Generator     ai.Generator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteGenerateDocument asks the AI provider for a document and keeps the
// result for later editing and download.
// PRE: Prompt is non-empty
// POST: Document persisted with the generated markdown body
func ExecuteGenerateDocument(ctx context.Context, input GenerateDocumentInput, deps GenerateDocumentDeps) (document.Document, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return document.Document{}, ErrEmptyPrompt
	}

	res, err := deps.Generator.CompleteDocument(ctx, ai.DocumentRequest{
		ClubName: input.ClubName,
		Prompt:   input.Prompt,
		Kind:     input.Kind,
	})
	if err != nil {
		return document.Document{}, err
	}

	title := res.Title
	if title == "" {
		title = input.Prompt
	}

	d := document.Document{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		Kind:      document.KindDocument,
		Title:     title,
		Prompt:    input.Prompt,
		Body:      res.Body,
		CreatedBy: input.CreatedBy,
		CreatedAt: deps.Now(),
	}

	if err := d.Validate(); err != nil {
		return document.Document{}, err
	}
	if err := deps.DocumentStore.Save(ctx, d); err != nil {
		return document.Document{}, err
	}

	slog.Info("document_event", "event", "document_generated", "document_id", d.ID, "owner_id", d.OwnerID)
	return d, nil
}

// --- Generate Flyer ---

// GenerateFlyerInput carries input for the generate flyer orchestrator.
type GenerateFlyerInput struct {
	OwnerID   string
	ClubName  string
	Title     string
	Prompt    string
	CreatedBy string
}

// GenerateFlyerDeps holds dependencies for GenerateFlyer.
type GenerateFlyerDeps struct {
	DocumentStore DocumentStoreForOrchestrator
	Generator     ai.Generator
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteGenerateFlyer asks the AI provider for a flyer image and keeps the
// result next to the generated documents.
// PRE: Prompt and Title are non-empty
// POST: Flyer document persisted with the image URL
func ExecuteGenerateFlyer(ctx context.Context, input GenerateFlyerInput, deps GenerateFlyerDeps) (document.Document, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return document.Document{}, ErrEmptyPrompt
	}

	res, err := deps.Generator.GenerateFlyer(ctx, ai.FlyerRequest{
		ClubName: input.ClubName,
		Prompt:   input.Prompt,
	})
	if err != nil {
		return document.Document{}, err
	}

	d := document.Document{
		ID:        deps.GenerateID(),
		OwnerID:   input.OwnerID,
		Kind:      document.KindFlyer,
		Title:     input.Title,
		Prompt:    input.Prompt,
		Body:      res.Caption,
		ImageURL:  res.ImageURL,
		CreatedBy: input.CreatedBy,
		CreatedAt: deps.Now(),
	}

	if err := d.Validate(); err != nil {
		return document.Document{}, err
	}
	if err := deps.DocumentStore.Save(ctx, d); err != nil {
		return document.Document{}, err
	}

	slog.Info("document_event", "event", "flyer_generated", "document_id", d.ID, "owner_id", d.OwnerID)
	return d, nil
}

// --- Edit Document ---

// EditDocumentInput carries input for the edit document orchestrator.
type EditDocumentInput struct {
	OwnerID    string
	DocumentID string
	Title      string
	Body       string
}

// EditDocumentDeps holds dependencies for EditDocument.
type EditDocumentDeps struct {
	DocumentStore DocumentStoreForOrchestrator
	Now           func() time.Time
}

// ExecuteEditDocument updates a generated document's title and body.
// PRE: DocumentID names a document in the session's club
// POST: Document updated with new content
func ExecuteEditDocument(ctx context.Context, input EditDocumentInput, deps EditDocumentDeps) (document.Document, error) {
	d, err := deps.DocumentStore.GetByID(ctx, input.DocumentID)
	if err != nil {
		return document.Document{}, err
	}
	if d.OwnerID != input.OwnerID {
		return document.Document{}, errors.New("document belongs to another club")
	}

	if input.Title != "" {
		d.Title = input.Title
	}
	d.Body = input.Body
	d.UpdatedAt = deps.Now()

	if err := d.Validate(); err != nil {
		return document.Document{}, err
	}
	if err := deps.DocumentStore.Save(ctx, d); err != nil {
		return document.Document{}, err
	}
	return d, nil
}
