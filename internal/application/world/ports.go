package world

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// ErrNoSavedState is returned by a StateRepository that holds no world yet
var ErrNoSavedState = errors.New("no saved world state")

// WorldState is everything needed to resume a world: the simulation snapshot
// plus the collaborators the snapshot deliberately leaves out.
type WorldState struct {
	Snapshot simulation.Snapshot `json:"snapshot"`
	Stock    map[string]float64  `json:"stock"`
	Level    int                 `json:"level"`
	Workers  []workforce.Worker  `json:"workers"`
	SavedAt  time.Time           `json:"saved_at"`
}

// StateRepository persists the current world
type StateRepository interface {
	Save(ctx context.Context, state *WorldState) error
	Load(ctx context.Context) (*WorldState, error)
}

// SnapshotArchive reads and writes portable world files
type SnapshotArchive interface {
	Write(path string, state *WorldState) error
	Read(path string) (*WorldState, error)
}

// Event kinds written to the event log
const (
	EventEviction = "eviction"
	EventArrival  = "arrival"
	EventDispatch = "dispatch"
	EventDelivery = "delivery"
	EventRestore  = "restore"
)

// Event is one notable thing that happened in the world
type Event struct {
	Tick    int64
	Kind    string
	Subject string
	Message string
}

// EventRecorder stores events. Recording the same (tick, kind, subject) twice
// must not create a second entry.
type EventRecorder interface {
	Record(ctx context.Context, event Event) error
}

// TickObserver is notified after every tick, outside the engine lock
type TickObserver interface {
	OnTick(ctx context.Context, report simulation.TickReport)
}

// TickObserverFunc adapts a function to TickObserver
type TickObserverFunc func(ctx context.Context, report simulation.TickReport)

// OnTick calls f
func (f TickObserverFunc) OnTick(ctx context.Context, report simulation.TickReport) {
	f(ctx, report)
}

// EventReader lists recorded events, newest first
type EventReader interface {
	Recent(ctx context.Context, limit int) ([]Event, error)
}
