package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/application/authz"
	"clubhouse/internal/domain/permission"
	"clubhouse/internal/domain/request"
)

// RequestStoreForOrchestrator defines the store interface needed by request orchestrators.
type RequestStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (request.SectionRequest, error)
	Save(ctx context.Context, r request.SectionRequest) error
}

// TenantResolver resolves the club a session acts within.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, session authz.Session) (string, error)
	IsResponsible(ctx context.Context, session authz.Session, section permission.Section) bool
}

var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrNotResponsible  = errors.New("only the section responsible or an admin may reply")
	ErrRequestArchived = errors.New("request is archived")
)

// --- Submit Request ---

// SubmitRequestInput carries input for the submit request orchestrator.
type SubmitRequestInput struct {
	Session authz.Session
	Section permission.Section
	Content string
}

// SubmitRequestDeps holds dependencies for SubmitRequest.
type SubmitRequestDeps struct {
	RequestStore RequestStoreForOrchestrator
	Resolver     TenantResolver
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSubmitRequest posts a new top-level message to a section board.
// PRE: Section is valid, Content is non-empty after trimming
// POST: Request saved as active with no parent; if no club can be resolved
// for the session the post is skipped and only a warning is logged
func ExecuteSubmitRequest(ctx context.Context, input SubmitRequestInput, deps SubmitRequestDeps) (request.SectionRequest, error) {
	if !permission.ValidSection(input.Section) {
		return request.SectionRequest{}, ErrUnknownSection
	}

	ownerID, err := deps.Resolver.ResolveTenant(ctx, input.Session)
	if err != nil {
		slog.Warn("request_event", "event", "submit_skipped", "reason", "no_tenant", "account_id", input.Session.AccountID)
		return request.SectionRequest{}, nil
	}

	r := request.SectionRequest{
		ID:        deps.GenerateID(),
		OwnerID:   ownerID,
		Section:   input.Section,
		AuthorID:  input.Session.AccountID,
		Content:   input.Content,
		Status:    request.StatusActive,
		CreatedAt: deps.Now(),
	}

	if err := r.Validate(); err != nil {
		return request.SectionRequest{}, err
	}

	if err := deps.RequestStore.Save(ctx, r); err != nil {
		return request.SectionRequest{}, err
	}

	slog.Info("request_event", "event", "request_submitted", "request_id", r.ID, "section", r.Section, "author_id", r.AuthorID)
	return r, nil
}

// --- Reply to Request ---

// ReplyRequestInput carries input for the reply orchestrator.
type ReplyRequestInput struct {
	Session  authz.Session
	ParentID string
	Content  string
	IsAdmin  bool
}

// ReplyRequestDeps holds dependencies for ReplyRequest.
type ReplyRequestDeps struct {
	RequestStore RequestStoreForOrchestrator
	Resolver     TenantResolver
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteReplyRequest posts a reply under a top-level request. Only the
// section responsible or an admin may reply, and replies cannot be nested.
// PRE: ParentID names an active top-level request in the session's club
// POST: Reply saved with ParentID set
func ExecuteReplyRequest(ctx context.Context, input ReplyRequestInput, deps ReplyRequestDeps) (request.SectionRequest, error) {
	parent, err := deps.RequestStore.GetByID(ctx, input.ParentID)
	if err != nil {
		return request.SectionRequest{}, err
	}
	if parent.IsReply() {
		return request.SectionRequest{}, request.ErrReplyToReply
	}
	if parent.Status == request.StatusArchived {
		return request.SectionRequest{}, ErrRequestArchived
	}

	ownerID, err := deps.Resolver.ResolveTenant(ctx, input.Session)
	if err != nil || ownerID != parent.OwnerID {
		return request.SectionRequest{}, ErrNotResponsible
	}
	if !input.IsAdmin && !deps.Resolver.IsResponsible(ctx, input.Session, parent.Section) {
		return request.SectionRequest{}, ErrNotResponsible
	}

	r := request.SectionRequest{
		ID:        deps.GenerateID(),
		OwnerID:   parent.OwnerID,
		Section:   parent.Section,
		AuthorID:  input.Session.AccountID,
		ParentID:  parent.ID,
		Content:   input.Content,
		Status:    request.StatusActive,
		CreatedAt: deps.Now(),
	}

	if err := r.Validate(); err != nil {
		return request.SectionRequest{}, err
	}

	if err := deps.RequestStore.Save(ctx, r); err != nil {
		return request.SectionRequest{}, err
	}

	slog.Info("request_event", "event", "request_replied", "request_id", r.ID, "parent_id", parent.ID, "author_id", r.AuthorID)
	return r, nil
}

// --- Archive Request ---

// ArchiveRequestInput carries input for the archive orchestrator.
type ArchiveRequestInput struct {
	Session   authz.Session
	RequestID string
	IsAdmin   bool
}

// ArchiveRequestDeps holds dependencies for ArchiveRequest.
type ArchiveRequestDeps struct {
	RequestStore RequestStoreForOrchestrator
	Resolver     TenantResolver
}

// ExecuteArchiveRequest flips a top-level request to archived. The flip is
// one-way; archived threads stay readable.
// PRE: RequestID names a top-level request in the session's club
// POST: Request status is archived
func ExecuteArchiveRequest(ctx context.Context, input ArchiveRequestInput, deps ArchiveRequestDeps) error {
	r, err := deps.RequestStore.GetByID(ctx, input.RequestID)
	if err != nil {
		return err
	}
	if r.IsReply() {
		return errors.New("replies cannot be archived on their own")
	}

	ownerID, err := deps.Resolver.ResolveTenant(ctx, input.Session)
	if err != nil || ownerID != r.OwnerID {
		return ErrNotResponsible
	}
	if !input.IsAdmin && !deps.Resolver.IsResponsible(ctx, input.Session, r.Section) {
		return ErrNotResponsible
	}

	if err := r.Archive(); err != nil {
		return err
	}
	if err := deps.RequestStore.Save(ctx, r); err != nil {
		return err
	}

	slog.Info("request_event", "event", "request_archived", "request_id", r.ID, "section", r.Section)
	return nil
}
