package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// RemoveWorkerCommand - Command to empty a field slot
type RemoveWorkerCommand struct {
	FieldID string
	Slot    int
}

// RemoveWorkerResponse - Response from remove worker command.
// WorkerID is empty when the slot was already empty.
type RemoveWorkerResponse struct {
	WorkerID string
}

// RemoveWorkerHandler - Handles remove worker commands
type RemoveWorkerHandler struct {
	engine *world.Engine
}

// NewRemoveWorkerHandler creates a new remove worker handler
func NewRemoveWorkerHandler(engine *world.Engine) *RemoveWorkerHandler {
	return &RemoveWorkerHandler{engine: engine}
}

// Handle executes the remove worker command
func (h *RemoveWorkerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var removed string
	err := h.engine.Execute(ctx, func(w world.World) error {
		var err error
		removed, err = w.Sim.RemoveWorker(cmd.FieldID, cmd.Slot)
		return err
	})
	if err != nil {
		return nil, err
	}

	if removed != "" {
		logging.LoggerFromContext(ctx).Log(logging.LevelInfo,
			fmt.Sprintf("Removed %s from %s slot %d", removed, cmd.FieldID, cmd.Slot), nil)
	}

	return &RemoveWorkerResponse{WorkerID: removed}, nil
}
