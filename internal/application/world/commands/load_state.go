package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// LoadStateCommand - Command to replace the world with the last save
type LoadStateCommand struct{}

// LoadStateResponse - Response from load state command
type LoadStateResponse struct {
	Tick   int64
	Report simulation.RestoreReport
}

// LoadStateHandler - Handles load state commands
type LoadStateHandler struct {
	engine  *world.Engine
	repo    world.StateRepository
	journal *world.Journal
}

// NewLoadStateHandler creates a new load state handler
func NewLoadStateHandler(engine *world.Engine, repo world.StateRepository, journal *world.Journal) *LoadStateHandler {
	return &LoadStateHandler{engine: engine, repo: repo, journal: journal}
}

// Handle executes the load state command
func (h *LoadStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*LoadStateCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	state, err := h.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	response, err := applyState(ctx, h.engine, h.journal, state, "saved world")
	if err != nil {
		return nil, err
	}
	return response, nil
}
