package projections

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/profile"
)

// PublicProfileStore defines the profile store interface needed by the public page.
type PublicProfileStore interface {
	GetBySlug(ctx context.Context, slug string) (profile.Profile, error)
}

// PublicEventStore defines the event store interface needed by the public page.
type PublicEventStore interface {
	ListPublicUpcoming(ctx context.Context, ownerID string, from time.Time, limit int) ([]event.Event, error)
}

// GetPublicPageQuery carries input for the public page projection.
type GetPublicPageQuery struct {
	Slug string
	Now  time.Time
}

// GetPublicPageDeps holds dependencies for the public page projection.
type GetPublicPageDeps struct {
	ProfileStore PublicProfileStore
	EventStore   PublicEventStore
}

// PublicPageResult carries the rendered public club page data.
type PublicPageResult struct {
	Profile         profile.Profile
	DescriptionHTML template.HTML
	UpcomingEvents  []event.Event
}

// QueryGetPublicPage resolves a public club page by slug. Only events marked
// public and not cancelled appear, never member data.
// POST: Description rendered from markdown; ok=false when no club owns the slug
func QueryGetPublicPage(ctx context.Context, query GetPublicPageQuery, deps GetPublicPageDeps) (PublicPageResult, bool) {
	p, err := deps.ProfileStore.GetBySlug(ctx, query.Slug)
	if err != nil || !p.HasPublicPage() {
		return PublicPageResult{}, false
	}

	result := PublicPageResult{Profile: p}

	if p.Description != "" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(p.Description), &buf); err == nil {
			result.DescriptionHTML = template.HTML(buf.String())
		}
	}

	events, err := deps.EventStore.ListPublicUpcoming(ctx, p.AccountID, query.Now, 10)
	if err == nil {
		result.UpcomingEvents = events
	}

	return result, true
}
