package projections

import (
	"context"

	"clubhouse/internal/domain/event"
)

// BoardEventStore defines the event store interface needed by the board projection.
type BoardEventStore interface {
	ListByOwnerID(ctx context.Context, ownerID string) ([]event.Event, error)
}

// BoardColumn is one kanban column with its cards in start-date order.
type BoardColumn struct {
	Status string
	Events []event.Event
}

// GetEventBoardQuery carries input for the board projection.
type GetEventBoardQuery struct {
	OwnerID string
}

// GetEventBoardDeps holds dependencies for the board projection.
type GetEventBoardDeps struct {
	EventStore BoardEventStore
}

// QueryGetEventBoard groups a club's events into board columns. Cancelled
// events are not a column; they only appear in the full list view.
// POST: One column per board status, in fixed column order
func QueryGetEventBoard(ctx context.Context, query GetEventBoardQuery, deps GetEventBoardDeps) ([]BoardColumn, error) {
	events, err := deps.EventStore.ListByOwnerID(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string][]event.Event)
	for _, e := range events {
		byStatus[e.Status] = append(byStatus[e.Status], e)
	}

	columns := make([]BoardColumn, 0, len(event.BoardStatuses))
	for _, status := range event.BoardStatuses {
		columns = append(columns, BoardColumn{Status: status, Events: byStatus[status]})
	}
	return columns, nil
}
