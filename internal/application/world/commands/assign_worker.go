package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// AssignWorkerCommand - Command to place a worker in a field slot
type AssignWorkerCommand struct {
	FieldID  string
	Slot     int
	WorkerID string
}

// AssignWorkerResponse - Response from assign worker command
type AssignWorkerResponse struct {
	FieldID  string
	Slot     int
	WorkerID string
}

// AssignWorkerHandler - Handles assign worker commands
type AssignWorkerHandler struct {
	engine *world.Engine
}

// NewAssignWorkerHandler creates a new assign worker handler
func NewAssignWorkerHandler(engine *world.Engine) *AssignWorkerHandler {
	return &AssignWorkerHandler{engine: engine}
}

// Handle executes the assign worker command
func (h *AssignWorkerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AssignWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	err := h.engine.Execute(ctx, func(w world.World) error {
		return w.Sim.AssignWorker(cmd.FieldID, cmd.Slot, cmd.WorkerID)
	})
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo,
		fmt.Sprintf("Assigned %s to %s slot %d", cmd.WorkerID, cmd.FieldID, cmd.Slot), nil)

	return &AssignWorkerResponse{
		FieldID:  cmd.FieldID,
		Slot:     cmd.Slot,
		WorkerID: cmd.WorkerID,
	}, nil
}
