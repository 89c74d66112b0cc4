package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// DispatchUnitCommand - Command to send an idle transport unit to a field
type DispatchUnitCommand struct {
	FieldID string
}

// DispatchUnitResponse - Response from dispatch command
type DispatchUnitResponse struct {
	UnitID       string
	FieldID      string
	DispatchedAt int64
}

// DispatchUnitHandler - Handles dispatch commands
type DispatchUnitHandler struct {
	engine  *world.Engine
	journal *world.Journal
}

// NewDispatchUnitHandler creates a new dispatch handler; journal may be nil
func NewDispatchUnitHandler(engine *world.Engine, journal *world.Journal) *DispatchUnitHandler {
	return &DispatchUnitHandler{engine: engine, journal: journal}
}

// Handle executes the dispatch command
func (h *DispatchUnitHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DispatchUnitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	response := &DispatchUnitResponse{FieldID: cmd.FieldID}
	err := h.engine.Execute(ctx, func(w world.World) error {
		unitID, err := w.Sim.Dispatch(cmd.FieldID)
		if err != nil {
			return err
		}
		response.UnitID = unitID
		response.DispatchedAt = w.Sim.CurrentTick()
		return nil
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Unit %s dispatched to %s", response.UnitID, cmd.FieldID)
	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, msg, nil)
	h.journal.Record(ctx, world.Event{
		Tick:    response.DispatchedAt,
		Kind:    world.EventDispatch,
		Subject: response.UnitID,
		Message: msg,
	})

	return response, nil
}
