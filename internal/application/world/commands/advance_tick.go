package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// MaxTicksPerCommand bounds a single manual advance
const MaxTicksPerCommand = 10000

// AdvanceTickCommand - Command to apply ticks immediately, outside the scheduler
type AdvanceTickCommand struct {
	Count int
}

// AdvanceTickResponse - Response from advance tick command
type AdvanceTickResponse struct {
	Reports     []simulation.TickReport
	CurrentTick int64
}

// AdvanceTickHandler - Handles advance tick commands
type AdvanceTickHandler struct {
	engine *world.Engine
}

// NewAdvanceTickHandler creates a new advance tick handler
func NewAdvanceTickHandler(engine *world.Engine) *AdvanceTickHandler {
	return &AdvanceTickHandler{engine: engine}
}

// Handle executes the advance tick command
func (h *AdvanceTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AdvanceTickCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	count := cmd.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > MaxTicksPerCommand {
		return nil, shared.NewValidationError("count", fmt.Sprintf("must be between 1 and %d, got %d", MaxTicksPerCommand, cmd.Count))
	}

	reports := make([]simulation.TickReport, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reports = append(reports, h.engine.Tick(ctx))
	}

	return &AdvanceTickResponse{
		Reports:     reports,
		CurrentTick: reports[len(reports)-1].Tick,
	}, nil
}
