package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/domain/event"
)

// EventStoreForOrchestrator defines the store interface needed by event orchestrators.
type EventStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
}

// MoveEventInput carries input for the board move orchestrator.
type MoveEventInput struct {
	OwnerID  string
	EventID  string
	ToStatus string
}

// MoveEventDeps holds dependencies for MoveEvent.
type MoveEventDeps struct {
	EventStore EventStoreForOrchestrator
	Now        func() time.Time
}

// ExecuteMoveEvent moves an event to another board column. Dropping a card
// on its own column is a no-op and writes nothing.
// PRE: ToStatus is a valid event status
// POST: Event status is ToStatus; the caller updates its view after success
func ExecuteMoveEvent(ctx context.Context, input MoveEventInput, deps MoveEventDeps) (event.Event, error) {
	e, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return event.Event{}, err
	}
	if e.OwnerID != input.OwnerID {
		return event.Event{}, errors.New("event belongs to another club")
	}

	if e.Status == input.ToStatus {
		return e, nil
	}

	if err := e.ChangeStatus(input.ToStatus); err != nil {
		return event.Event{}, err
	}
	e.UpdatedAt = deps.Now()

	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	slog.Info("event_event", "event", "event_moved", "event_id", e.ID, "status", e.Status)
	return e, nil
}
