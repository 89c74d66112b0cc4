package world_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

type memoryStateRepo struct {
	mu    sync.Mutex
	saved *world.WorldState
	saves int
}

func (r *memoryStateRepo) Save(ctx context.Context, state *world.WorldState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = state
	r.saves++
	return nil
}

func (r *memoryStateRepo) Load(ctx context.Context) (*world.WorldState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return nil, world.ErrNoSavedState
	}
	return r.saved, nil
}

type memoryRecorder struct {
	mu     sync.Mutex
	events []world.Event
}

func (r *memoryRecorder) Record(ctx context.Context, event world.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func newEngine(t *testing.T, workers ...workforce.Worker) *world.Engine {
	t.Helper()
	w, err := world.NewWorld(world.Settings{
		Fleet:    fleet.DefaultConfig(),
		Capacity: storage.FlatCapacity(1000),
		Level:    5,
	}, workers...)
	require.NoError(t, err)
	engine, err := world.NewEngine(w)
	require.NoError(t, err)
	return engine
}

func miner(t *testing.T, id string, eff float64) workforce.Worker {
	t.Helper()
	w, err := workforce.NewWorker(id, id, "miner", eff)
	require.NoError(t, err)
	return w
}

func TestNewEngine_RejectsIncompleteWorld(t *testing.T) {
	_, err := world.NewEngine(world.World{})
	assert.Error(t, err)
}

func TestEngine_TickNotifiesObservers(t *testing.T) {
	engine := newEngine(t, miner(t, "m1", 100))
	require.NoError(t, engine.Execute(context.Background(), func(w world.World) error {
		return w.Sim.AssignWorker("stone", 0, "m1")
	}))

	var seen []int64
	engine.Subscribe(world.TickObserverFunc(func(ctx context.Context, report simulation.TickReport) {
		seen = append(seen, report.Tick)
	}))

	engine.Tick(context.Background())
	report := engine.Tick(context.Background())

	assert.Equal(t, []int64{1, 2}, seen)
	assert.Greater(t, report.Production["stone"], 0.0)
	assert.Equal(t, int64(2), engine.CurrentTick())
}

func TestEngine_ExecuteHonoursCancelledContext(t *testing.T) {
	engine := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := engine.Execute(ctx, func(w world.World) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEngine_CaptureAndApply(t *testing.T) {
	source := newEngine(t, miner(t, "m1", 100))
	ctx := context.Background()
	require.NoError(t, source.Execute(ctx, func(w world.World) error {
		if err := w.Store.Deposit("stone", 25); err != nil {
			return err
		}
		return w.Sim.AssignWorker("stone", 1, "m1")
	}))
	for i := 0; i < 3; i++ {
		source.Tick(ctx)
	}
	state := source.Capture()

	target := newEngine(t)
	report, err := target.Apply(state)
	require.NoError(t, err)

	assert.Zero(t, report.Repairs)
	assert.Equal(t, int64(3), target.CurrentTick())
	restored := target.Capture()
	assert.Equal(t, state.Snapshot, restored.Snapshot)
	assert.Equal(t, 25.0, restored.Stock["stone"])
	assert.Equal(t, 5, restored.Level)
	require.Len(t, restored.Workers, 1)
	assert.Equal(t, "mining:stone", restored.Workers[0].AssignmentTag)
}

func TestAutosaver_SavesOnPeriod(t *testing.T) {
	engine := newEngine(t)
	repo := &memoryStateRepo{}
	engine.Subscribe(world.NewAutosaver(engine, repo, 3))

	for i := 0; i < 7; i++ {
		engine.Tick(context.Background())
	}

	assert.Equal(t, 2, repo.saves)
	assert.Equal(t, int64(6), repo.saved.Snapshot.Tick)
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	repo := &memoryStateRepo{}

	resumed, _, err := world.Resume(ctx, newEngine(t), repo)
	require.NoError(t, err)
	assert.False(t, resumed, "nothing saved yet")

	source := newEngine(t)
	source.Tick(ctx)
	require.NoError(t, world.NewAutosaver(source, repo, 0).Save(ctx))

	target := newEngine(t)
	resumed, _, err = world.Resume(ctx, target, repo)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, int64(1), target.CurrentTick())
}

func TestJournal_RecordsEvictionsAndArrivals(t *testing.T) {
	recorder := &memoryRecorder{}
	journal := world.NewJournal(recorder)

	journal.OnTick(context.Background(), simulation.TickReport{
		Tick:      9,
		Evictions: []simulation.Eviction{{FieldID: "stone", WorkerID: "m1"}},
		Transitions: []fleet.Transition{
			{UnitID: "unit-1", FieldID: "stone", From: fleet.UnitStateMovingUp, To: fleet.UnitStateReady},
			{UnitID: "unit-2", FieldID: "iron", From: fleet.UnitStateIdle, To: fleet.UnitStateMovingDown},
		},
	})

	require.Len(t, recorder.events, 2)
	assert.Equal(t, world.EventEviction, recorder.events[0].Kind)
	assert.Equal(t, "m1", recorder.events[0].Subject)
	assert.Equal(t, world.EventArrival, recorder.events[1].Kind)
	assert.Equal(t, "unit-1", recorder.events[1].Subject)
	assert.Equal(t, int64(9), recorder.events[1].Tick)
}

func TestScheduler_StartStop(t *testing.T) {
	engine := newEngine(t)
	var ticks atomic.Int64
	engine.Subscribe(world.TickObserverFunc(func(ctx context.Context, report simulation.TickReport) {
		ticks.Add(1)
	}))

	scheduler := world.NewScheduler(engine, 5*time.Millisecond)
	require.NoError(t, scheduler.Start(context.Background()))
	assert.Error(t, scheduler.Start(context.Background()), "already running")

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	scheduler.Stop()
	assert.False(t, scheduler.Running())

	stoppedAt := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stoppedAt, ticks.Load())
	assert.Equal(t, stoppedAt, engine.CurrentTick())
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	assert.Error(t, world.NewScheduler(newEngine(t), 0).Start(context.Background()))
}
