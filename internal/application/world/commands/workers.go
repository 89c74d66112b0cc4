package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
	"github.com/andrescamacho/mythic-mines/pkg/utils"
)

// HireWorkerCommand - Command to add a worker to the roster
type HireWorkerCommand struct {
	Name              string
	JobClassification string
	Efficiency        float64
}

// WorkerResponse - Response carrying one worker record
type WorkerResponse struct {
	Worker workforce.Worker
}

// HireWorkerHandler - Handles hire worker commands
type HireWorkerHandler struct {
	engine *world.Engine
	newID  func(name string) string
}

// NewHireWorkerHandler creates a new hire worker handler
func NewHireWorkerHandler(engine *world.Engine) *HireWorkerHandler {
	return &HireWorkerHandler{engine: engine, newID: utils.GenerateWorkerID}
}

// Handle executes the hire worker command
func (h *HireWorkerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*HireWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	worker, err := workforce.NewWorker(h.newID(cmd.Name), cmd.Name, cmd.JobClassification, cmd.Efficiency)
	if err != nil {
		return nil, shared.NewValidationError("worker", err.Error())
	}

	err = h.engine.Execute(ctx, func(w world.World) error {
		return w.Workers.Add(worker)
	})
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, fmt.Sprintf("Hired %s", worker), nil)
	return &WorkerResponse{Worker: worker}, nil
}

// DismissWorkerCommand - Command to drop a worker from the roster.
// Any slot the worker holds is cleared by the next tick.
type DismissWorkerCommand struct {
	WorkerID string
}

// DismissWorkerHandler - Handles dismiss worker commands
type DismissWorkerHandler struct {
	engine *world.Engine
}

// NewDismissWorkerHandler creates a new dismiss worker handler
func NewDismissWorkerHandler(engine *world.Engine) *DismissWorkerHandler {
	return &DismissWorkerHandler{engine: engine}
}

// Handle executes the dismiss worker command
func (h *DismissWorkerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DismissWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var worker workforce.Worker
	err := h.engine.Execute(ctx, func(w world.World) error {
		found, exists := w.Workers.Get(cmd.WorkerID)
		if !exists {
			return &workforce.ErrWorkerNotFound{WorkerID: cmd.WorkerID}
		}
		worker = found
		w.Workers.Remove(cmd.WorkerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, fmt.Sprintf("Dismissed %s", worker.ID), nil)
	return &WorkerResponse{Worker: worker}, nil
}

// UpdateWorkerConditionCommand - Command from the worker subsystem reporting
// strikes and injuries. Nil fields are left unchanged.
type UpdateWorkerConditionCommand struct {
	WorkerID       string
	StrikeDaysOwed *int
	Injured        *bool
}

// UpdateWorkerConditionHandler - Handles worker condition updates
type UpdateWorkerConditionHandler struct {
	engine *world.Engine
}

// NewUpdateWorkerConditionHandler creates a new worker condition handler
func NewUpdateWorkerConditionHandler(engine *world.Engine) *UpdateWorkerConditionHandler {
	return &UpdateWorkerConditionHandler{engine: engine}
}

// Handle executes the worker condition update
func (h *UpdateWorkerConditionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*UpdateWorkerConditionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var worker workforce.Worker
	err := h.engine.Execute(ctx, func(w world.World) error {
		if _, exists := w.Workers.Get(cmd.WorkerID); !exists {
			return &workforce.ErrWorkerNotFound{WorkerID: cmd.WorkerID}
		}
		if cmd.StrikeDaysOwed != nil {
			if err := w.Workers.SetStrikeDays(cmd.WorkerID, *cmd.StrikeDaysOwed); err != nil {
				return err
			}
		}
		if cmd.Injured != nil {
			if err := w.Workers.SetInjured(cmd.WorkerID, *cmd.Injured); err != nil {
				return err
			}
		}
		worker, _ = w.Workers.Get(cmd.WorkerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &WorkerResponse{Worker: worker}, nil
}
