package world

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// Autosaver persists the world every N ticks
type Autosaver struct {
	engine *Engine
	repo   StateRepository
	every  int64
}

// NewAutosaver creates an autosaver; every <= 0 disables periodic saves
// but Save still works.
func NewAutosaver(engine *Engine, repo StateRepository, every int) *Autosaver {
	return &Autosaver{engine: engine, repo: repo, every: int64(every)}
}

// OnTick saves when the tick number is a multiple of the period
func (a *Autosaver) OnTick(ctx context.Context, report simulation.TickReport) {
	if a.every <= 0 || report.Tick%a.every != 0 {
		return
	}
	if err := a.Save(ctx); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelError, fmt.Sprintf("Autosave failed: %v", err), map[string]interface{}{
			"tick": report.Tick,
		})
	}
}

// Save captures and persists the world now
func (a *Autosaver) Save(ctx context.Context) error {
	state := a.engine.Capture()
	if err := a.repo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save world at tick %d: %w", state.Snapshot.Tick, err)
	}
	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "World saved", map[string]interface{}{
		"tick": state.Snapshot.Tick,
	})
	return nil
}

// Resume loads the saved world into the engine. A missing save is not an error.
func Resume(ctx context.Context, engine *Engine, repo StateRepository) (bool, simulation.RestoreReport, error) {
	state, err := repo.Load(ctx)
	if errors.Is(err, ErrNoSavedState) {
		return false, simulation.RestoreReport{}, nil
	}
	if err != nil {
		return false, simulation.RestoreReport{}, fmt.Errorf("failed to load world: %w", err)
	}

	report, err := engine.Apply(state)
	if err != nil {
		return false, report, err
	}
	return true, report, nil
}
