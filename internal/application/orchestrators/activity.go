package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"clubhouse/internal/domain/activity"
)

// ActivityStoreForOrchestrator defines the store interface needed to record activity.
type ActivityStoreForOrchestrator interface {
	Save(ctx context.Context, entry activity.Entry) error
}

// RecordActivityInput carries input for the activity recorder.
type RecordActivityInput struct {
	OwnerID      string
	ActorID      string
	ActorEmail   string
	Category     activity.Category
	Action       activity.Action
	ResourceType string
	ResourceID   string
	Description  string
	IPAddress    string
}

// RecordActivityDeps holds dependencies for RecordActivity.
type RecordActivityDeps struct {
	ActivityStore ActivityStoreForOrchestrator
	GenerateID    func() string
	Now           func() time.Time
}

// RecordActivity appends an entry to the admin activity log. Logging must
// never fail the operation it describes, so errors are logged and swallowed.
// PRE: OwnerID and ActorID are non-empty
// POST: Entry persisted, or a warning logged
func RecordActivity(ctx context.Context, input RecordActivityInput, deps RecordActivityDeps) {
	e := activity.NewEntry(deps.GenerateID(), input.OwnerID, input.ActorID, input.ActorEmail,
		input.Category, input.Action, deps.Now())
	if input.ResourceID != "" {
		e = e.WithResource(input.ResourceType, input.ResourceID)
	}
	if input.Description != "" {
		e = e.WithDescription(input.Description)
	}
	if input.IPAddress != "" {
		e = e.WithIP(input.IPAddress)
	}

	if err := deps.ActivityStore.Save(ctx, e); err != nil {
		slog.Warn("activity_event", "event", "activity_save_failed", "owner_id", input.OwnerID, "action", input.Action, "error", err)
	}
}
