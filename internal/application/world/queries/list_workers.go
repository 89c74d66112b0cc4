package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// ListWorkersQuery represents a query for the worker roster
type ListWorkersQuery struct {
	OnlyIdle bool // Optional: only workers without an assignment
}

// ListWorkersResponse represents the worker roster
type ListWorkersResponse struct {
	Workers []workforce.Worker
}

// ListWorkersHandler handles the ListWorkers query
type ListWorkersHandler struct {
	engine *world.Engine
}

// NewListWorkersHandler creates a new ListWorkersHandler
func NewListWorkersHandler(engine *world.Engine) *ListWorkersHandler {
	return &ListWorkersHandler{engine: engine}
}

// Handle executes the ListWorkers query
func (h *ListWorkersHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListWorkersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListWorkersQuery")
	}

	response := &ListWorkersResponse{}
	err := h.engine.Execute(ctx, func(w world.World) error {
		for _, worker := range w.Workers.All() {
			if query.OnlyIdle && worker.IsAssigned() {
				continue
			}
			response.Workers = append(response.Workers, worker)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
