package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// DefaultEventLimit is used when a ListEventsQuery sets no limit
const DefaultEventLimit = 50

// ListEventsQuery represents a query for the most recent events
type ListEventsQuery struct {
	Limit int
}

// ListEventsResponse represents recent events, newest first
type ListEventsResponse struct {
	Events []world.Event
}

// ListEventsHandler handles the ListEvents query
type ListEventsHandler struct {
	reader world.EventReader
}

// NewListEventsHandler creates a new ListEventsHandler
func NewListEventsHandler(reader world.EventReader) *ListEventsHandler {
	return &ListEventsHandler{reader: reader}
}

// Handle executes the ListEvents query
func (h *ListEventsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListEventsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListEventsQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	events, err := h.reader.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return &ListEventsResponse{Events: events}, nil
}
