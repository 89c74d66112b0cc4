package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// SaveStateCommand - Command to persist the world now
type SaveStateCommand struct{}

// SaveStateResponse - Response from save state command
type SaveStateResponse struct {
	Tick    int64
	SavedAt time.Time
}

// SaveStateHandler - Handles save state commands
type SaveStateHandler struct {
	engine *world.Engine
	repo   world.StateRepository
}

// NewSaveStateHandler creates a new save state handler
func NewSaveStateHandler(engine *world.Engine, repo world.StateRepository) *SaveStateHandler {
	return &SaveStateHandler{engine: engine, repo: repo}
}

// Handle executes the save state command
func (h *SaveStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*SaveStateCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state := h.engine.Capture()
	if err := h.repo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save world: %w", err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, fmt.Sprintf("World saved at tick %d", state.Snapshot.Tick), nil)

	return &SaveStateResponse{Tick: state.Snapshot.Tick, SavedAt: state.SavedAt}, nil
}
