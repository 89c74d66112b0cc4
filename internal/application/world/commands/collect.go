package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
)

// CollectCommand - Command to unload every ready unit into the central store
type CollectCommand struct{}

// CollectResponse - Response from collect command
type CollectResponse struct {
	Deliveries     []fleet.Delivery
	TotalDelivered float64
	TotalDiscarded float64
}

// CollectHandler - Handles collect commands
type CollectHandler struct {
	engine  *world.Engine
	journal *world.Journal
}

// NewCollectHandler creates a new collect handler; journal may be nil
func NewCollectHandler(engine *world.Engine, journal *world.Journal) *CollectHandler {
	return &CollectHandler{engine: engine, journal: journal}
}

// Handle executes the collect command
func (h *CollectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*CollectCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var (
		report fleet.CollectReport
		tick   int64
	)
	err := h.engine.Execute(ctx, func(w world.World) error {
		report = w.Sim.Collect()
		tick = w.Sim.CurrentTick()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := logging.LoggerFromContext(ctx)
	for _, d := range report.Deliveries {
		msg := fmt.Sprintf("Unit %s delivered %.2f %s", d.UnitID, d.Delivered, d.ResourceID)
		if d.Discarded > 0 {
			msg += fmt.Sprintf(" (%.2f discarded)", d.Discarded)
		}
		if d.Retained > 0 {
			msg += fmt.Sprintf(" (%.2f retained)", d.Retained)
		}
		level := logging.LevelInfo
		if d.Failure != "" {
			msg = fmt.Sprintf("Unit %s could not unload %.2f %s: %s", d.UnitID, d.Retained, d.ResourceID, d.Failure)
			level = logging.LevelError
		}
		logger.Log(level, msg, nil)
		h.journal.Record(ctx, world.Event{Tick: tick, Kind: world.EventDelivery, Subject: d.UnitID, Message: msg})
	}

	return &CollectResponse{
		Deliveries:     report.Deliveries,
		TotalDelivered: report.TotalDelivered(),
		TotalDiscarded: report.TotalDiscarded(),
	}, nil
}
