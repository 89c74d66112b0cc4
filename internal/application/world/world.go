package world

import (
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/progression"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// World groups the simulation with the collaborators it was built from
type World struct {
	Sim     *simulation.Simulation
	Store   *storage.Warehouse
	Workers *workforce.Registry
	Levels  *progression.Tracker
}

// Settings are the knobs needed to build a new world
type Settings struct {
	Catalog      *catalog.Catalog
	Fleet        fleet.Config
	Capacity     storage.CapacityFunc
	Level        int
	RequiredRole string
}

// NewWorld builds an empty world: empty reservoirs, idle fleet, empty store
func NewWorld(settings Settings, workers ...workforce.Worker) (World, error) {
	if settings.Catalog == nil {
		settings.Catalog = catalog.Default()
	}

	registry, err := workforce.NewRegistry(workers...)
	if err != nil {
		return World{}, fmt.Errorf("failed to create worker registry: %w", err)
	}

	levels, err := progression.NewTracker(settings.Level)
	if err != nil {
		return World{}, err
	}

	store := storage.NewWarehouse(settings.Capacity)

	var opts []simulation.Option
	if settings.RequiredRole != "" {
		opts = append(opts, simulation.WithRequiredRole(settings.RequiredRole))
	}

	sim, err := simulation.New(simulation.Dependencies{
		Catalog: settings.Catalog,
		Workers: registry,
		Store:   store,
		Levels:  levels,
	}, settings.Fleet, opts...)
	if err != nil {
		return World{}, fmt.Errorf("failed to create simulation: %w", err)
	}

	return World{Sim: sim, Store: store, Workers: registry, Levels: levels}, nil
}
