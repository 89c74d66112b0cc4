package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// GetStatusQuery represents a query for the whole world at a glance
type GetStatusQuery struct{}

// StockLine is one central store entry
type StockLine struct {
	ResourceID string
	Stock      float64
	Capacity   float64
}

// GetStatusResponse represents the world at a glance
type GetStatusResponse struct {
	Tick   int64
	Level  int
	Fields []simulation.FieldView
	Units  []fleet.UnitRecord
	Stock  []StockLine
}

// GetStatusHandler handles the GetStatus query
type GetStatusHandler struct {
	engine *world.Engine
}

// NewGetStatusHandler creates a new GetStatusHandler
func NewGetStatusHandler(engine *world.Engine) *GetStatusHandler {
	return &GetStatusHandler{engine: engine}
}

// Handle executes the GetStatus query
func (h *GetStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetStatusQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatusQuery")
	}

	response := &GetStatusResponse{}
	err := h.engine.Execute(ctx, func(w world.World) error {
		response.Tick = w.Sim.CurrentTick()
		response.Level = w.Levels.CurrentLevel()
		response.Fields = w.Sim.Fields()
		response.Units = w.Sim.Units()
		for _, id := range w.Sim.Catalog().IDs() {
			response.Stock = append(response.Stock, StockLine{
				ResourceID: id,
				Stock:      w.Store.Stock(id),
				Capacity:   w.Store.Capacity(id),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetFieldQuery represents a query for a single field
type GetFieldQuery struct {
	FieldID string // Required: resource id of the field
}

// GetFieldHandler handles the GetField query
type GetFieldHandler struct {
	engine *world.Engine
}

// NewGetFieldHandler creates a new GetFieldHandler
func NewGetFieldHandler(engine *world.Engine) *GetFieldHandler {
	return &GetFieldHandler{engine: engine}
}

// Handle executes the GetField query
func (h *GetFieldHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetFieldQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFieldQuery")
	}

	var view simulation.FieldView
	err := h.engine.Execute(ctx, func(w world.World) error {
		var err error
		view, err = w.Sim.Field(query.FieldID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
