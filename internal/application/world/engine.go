package world

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// Engine serialises every command, query and tick against one World.
//
// Thread-Safety:
// The domain simulation is single-threaded; Engine is the only place that
// touches it and does so under a single mutex. Tick observers run after the
// lock is released so they may call back into the engine.
type Engine struct {
	mu    sync.Mutex
	world World

	observersMu sync.RWMutex
	observers   []TickObserver

	clock shared.Clock
}

// NewEngine wraps a world
func NewEngine(w World) (*Engine, error) {
	if w.Sim == nil || w.Store == nil || w.Workers == nil || w.Levels == nil {
		return nil, fmt.Errorf("world is incomplete")
	}
	return &Engine{world: w, clock: shared.NewRealClock()}, nil
}

// Subscribe registers an observer for tick reports
func (e *Engine) Subscribe(observer TickObserver) {
	e.observersMu.Lock()
	defer e.observersMu.Unlock()
	e.observers = append(e.observers, observer)
}

// Execute runs fn with exclusive access to the world
func (e *Engine) Execute(ctx context.Context, fn func(w World) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.world)
}

// Tick advances the world by one step and notifies observers
func (e *Engine) Tick(ctx context.Context) simulation.TickReport {
	e.mu.Lock()
	report := e.world.Sim.Tick()
	e.mu.Unlock()

	if report.Repairs > 0 {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "Repaired corrupt field state", map[string]interface{}{
			"tick":    report.Tick,
			"repairs": report.Repairs,
		})
	}

	e.observersMu.RLock()
	observers := append([]TickObserver(nil), e.observers...)
	e.observersMu.RUnlock()
	for _, observer := range observers {
		observer.OnTick(ctx, report)
	}
	return report
}

// CurrentTick returns the number of ticks applied so far
func (e *Engine) CurrentTick() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Sim.CurrentTick()
}

// Capture returns a consistent copy of the whole world
func (e *Engine) Capture() *WorldState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &WorldState{
		Snapshot: e.world.Sim.Snapshot(),
		Stock:    e.world.Store.Inventory(),
		Level:    e.world.Levels.CurrentLevel(),
		Workers:  e.world.Workers.All(),
		SavedAt:  e.clock.Now(),
	}
}

// Apply replaces the world with a saved state. Workers are restored before
// the snapshot so slot assignments resolve against the saved roster.
func (e *Engine) Apply(state *WorldState) (simulation.RestoreReport, error) {
	if state == nil {
		return simulation.RestoreReport{}, fmt.Errorf("world state is nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	level := state.Level
	if level < 0 {
		level = 0
	}

	repairs := e.world.Workers.Replace(state.Workers)
	if err := e.world.Levels.SetLevel(level); err != nil {
		return simulation.RestoreReport{}, err
	}
	repairs += e.world.Store.Restore(state.Stock)

	report := e.world.Sim.Restore(state.Snapshot)
	report.Repairs += repairs
	return report, nil
}
