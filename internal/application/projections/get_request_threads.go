package projections

import (
	"context"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/permission"
	"clubhouse/internal/domain/request"
)

// ThreadRequestStore defines the request store interface needed by the thread projection.
type ThreadRequestStore interface {
	ListTopLevel(ctx context.Context, ownerID string, section permission.Section, status string) ([]request.SectionRequest, error)
	ListRepliesByParentIDs(ctx context.Context, parentIDs []string) ([]request.SectionRequest, error)
}

// ThreadAccountStore defines the account store interface needed by the thread projection.
type ThreadAccountStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]account.Account, error)
}

// RequestMessage is one rendered message: a request or a reply.
type RequestMessage struct {
	Request    request.SectionRequest
	AuthorName string
}

// RequestThread is one top-level request with its replies, oldest reply first.
type RequestThread struct {
	RequestMessage
	Replies []RequestMessage
}

// GetRequestThreadsQuery carries input for the thread projection.
type GetRequestThreadsQuery struct {
	OwnerID string
	Section permission.Section
	Status  string // active or archived
}

// GetRequestThreadsDeps holds dependencies for the thread projection.
type GetRequestThreadsDeps struct {
	RequestStore ThreadRequestStore
	AccountStore ThreadAccountStore
}

// QueryGetRequestThreads assembles a section board in three queries: one for
// the top-level requests, one for every reply, one for every author name.
// POST: Threads newest-first, replies within a thread oldest-first
func QueryGetRequestThreads(ctx context.Context, query GetRequestThreadsQuery, deps GetRequestThreadsDeps) ([]RequestThread, error) {
	tops, err := deps.RequestStore.ListTopLevel(ctx, query.OwnerID, query.Section, query.Status)
	if err != nil {
		return nil, err
	}
	if len(tops) == 0 {
		return nil, nil
	}

	parentIDs := make([]string, 0, len(tops))
	for _, t := range tops {
		parentIDs = append(parentIDs, t.ID)
	}
	replies, err := deps.RequestStore.ListRepliesByParentIDs(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	// Collect every author once, then resolve names in one query.
	authorSet := make(map[string]bool)
	for _, t := range tops {
		authorSet[t.AuthorID] = true
	}
	for _, r := range replies {
		authorSet[r.AuthorID] = true
	}
	authorIDs := make([]string, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}
	accounts, err := deps.AccountStore.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		name := a.Name
		if name == "" {
			name = a.Email
		}
		names[a.ID] = name
	}

	repliesByParent := make(map[string][]RequestMessage)
	for _, r := range replies {
		repliesByParent[r.ParentID] = append(repliesByParent[r.ParentID], RequestMessage{
			Request:    r,
			AuthorName: names[r.AuthorID],
		})
	}

	threads := make([]RequestThread, 0, len(tops))
	for _, t := range tops {
		threads = append(threads, RequestThread{
			RequestMessage: RequestMessage{Request: t, AuthorName: names[t.AuthorID]},
			Replies:        repliesByParent[t.ID],
		})
	}
	return threads, nil
}
