package projections

import (
	"context"
	"time"

	"clubhouse/internal/application/authz"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/goal"
	"clubhouse/internal/domain/permission"
)

// DashboardMemberStore defines the member store interface needed by the dashboard projection.
type DashboardMemberStore interface {
	CountByOwnerID(ctx context.Context, ownerID string) (int, error)
}

// DashboardEventStore defines the event store interface needed by the dashboard projection.
type DashboardEventStore interface {
	ListByOwnerID(ctx context.Context, ownerID string) ([]event.Event, error)
}

// DashboardTransactionStore defines the transaction store interface needed by the dashboard projection.
type DashboardTransactionStore interface {
	BalanceCents(ctx context.Context, ownerID string) (int64, error)
}

// DashboardGoalStore defines the goal store interface needed by the dashboard projection.
type DashboardGoalStore interface {
	ListByOwnerIDAndStatus(ctx context.Context, ownerID, status string) ([]goal.Goal, error)
}

// SectionResolver answers section visibility for the dashboard.
type SectionResolver interface {
	AccessibleSections(ctx context.Context, session authz.Session) []permission.Section
	ResolveTenant(ctx context.Context, session authz.Session) (string, error)
}

// GetClubDashboardQuery carries input for the dashboard projection.
type GetClubDashboardQuery struct {
	Session authz.Session
	Now     time.Time
}

// GetClubDashboardDeps holds dependencies for the dashboard projection.
type GetClubDashboardDeps struct {
	Resolver         SectionResolver
	MemberStore      DashboardMemberStore
	EventStore       DashboardEventStore
	TransactionStore DashboardTransactionStore
	GoalStore        DashboardGoalStore
}

// ClubDashboardResult carries the output of the dashboard projection. Values
// the session cannot see stay at their zero value and the template skips the
// panel.
type ClubDashboardResult struct {
	Sections       []permission.Section
	MemberCount    int
	UpcomingEvents []event.Event
	BalanceCents   int64
	OpenGoals      []goal.Goal
}

// QueryGetClubDashboard aggregates the landing page panels, one per section
// the session can open.
// POST: Only sections from AccessibleSections contribute data
func QueryGetClubDashboard(ctx context.Context, query GetClubDashboardQuery, deps GetClubDashboardDeps) (ClubDashboardResult, error) {
	ownerID, err := deps.Resolver.ResolveTenant(ctx, query.Session)
	if err != nil {
		return ClubDashboardResult{}, err
	}

	result := ClubDashboardResult{
		Sections: deps.Resolver.AccessibleSections(ctx, query.Session),
	}
	visible := make(map[permission.Section]bool, len(result.Sections))
	for _, s := range result.Sections {
		visible[s] = true
	}

	if visible[permission.SectionMembership] {
		count, err := deps.MemberStore.CountByOwnerID(ctx, ownerID)
		if err != nil {
			return ClubDashboardResult{}, err
		}
		result.MemberCount = count
	}

	if visible[permission.SectionPrefecture] {
		events, err := deps.EventStore.ListByOwnerID(ctx, ownerID)
		if err != nil {
			return ClubDashboardResult{}, err
		}
		for _, e := range events {
			if e.Status != event.StatusCancelled && e.StartsAt.After(query.Now) {
				result.UpcomingEvents = append(result.UpcomingEvents, e)
			}
			if len(result.UpcomingEvents) == 5 {
				break
			}
		}
	}

	if visible[permission.SectionTreasury] {
		balance, err := deps.TransactionStore.BalanceCents(ctx, ownerID)
		if err != nil {
			return ClubDashboardResult{}, err
		}
		result.BalanceCents = balance
	}

	if visible[permission.SectionPresidency] {
		goals, err := deps.GoalStore.ListByOwnerIDAndStatus(ctx, ownerID, goal.StatusOpen)
		if err != nil {
			return ClubDashboardResult{}, err
		}
		result.OpenGoals = goals
	}

	return result, nil
}
