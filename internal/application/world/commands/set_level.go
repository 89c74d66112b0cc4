package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// SetLevelCommand - Command from the progression subsystem
type SetLevelCommand struct {
	Level int
}

// SetLevelResponse - Response from set level command
type SetLevelResponse struct {
	Level int
}

// SetLevelHandler - Handles set level commands
type SetLevelHandler struct {
	engine *world.Engine
}

// NewSetLevelHandler creates a new set level handler
func NewSetLevelHandler(engine *world.Engine) *SetLevelHandler {
	return &SetLevelHandler{engine: engine}
}

// Handle executes the set level command
func (h *SetLevelHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetLevelCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	err := h.engine.Execute(ctx, func(w world.World) error {
		return w.Levels.SetLevel(cmd.Level)
	})
	if err != nil {
		return nil, err
	}
	return &SetLevelResponse{Level: cmd.Level}, nil
}
