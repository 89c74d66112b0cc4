package config

import (
	"time"

	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

// SimulationConfig holds the tick cadence and production/transport tuning
type SimulationConfig struct {
	// Real time between two ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Units a transport unit loads per tick
	LoadRate float64 `mapstructure:"load_rate" validate:"gt=0"`

	// Ticks of travel per depth step, one way
	TravelTimePerDepth int `mapstructure:"travel_time_per_depth" validate:"min=0"`

	// Number of transport units
	FleetSize int `mapstructure:"fleet_size" validate:"min=1"`

	// Capacity of each transport unit
	UnitCapacity float64 `mapstructure:"unit_capacity" validate:"gt=0"`

	// What to do with cargo that does not fit on collection: truncate, retain
	CollectPolicy string `mapstructure:"collect_policy" validate:"required,collect_policy"`

	// Optional YAML resource catalog; the built-in catalog is used when empty
	CatalogPath string `mapstructure:"catalog_path"`

	// Persist world state every N ticks (0 disables periodic saves)
	SnapshotEveryTicks int `mapstructure:"snapshot_every_ticks" validate:"min=0"`

	// Progression level for a new world
	ProgressionLevel int `mapstructure:"progression_level" validate:"min=0"`

	// Job classification a worker needs to work a field
	RequiredRole string `mapstructure:"required_role"`
}

// StorageConfig holds central store capacities
type StorageConfig struct {
	// Capacity for every resource without an override
	BaseCapacity float64 `mapstructure:"base_capacity" validate:"gt=0"`

	// Per-resource capacity overrides keyed by resource id
	PerResource map[string]float64 `mapstructure:"per_resource" validate:"dive,keys,resource_id,endkeys,gt=0"`
}

// FleetConfig returns the transport fleet settings
func (c SimulationConfig) FleetConfig() fleet.Config {
	return fleet.Config{
		Size:               c.FleetSize,
		UnitCapacity:       c.UnitCapacity,
		LoadRate:           c.LoadRate,
		TravelTimePerDepth: c.TravelTimePerDepth,
		Policy:             fleet.CollectPolicy(c.CollectPolicy),
	}
}

// CapacityFunc returns the central store ceiling per resource
func (c StorageConfig) CapacityFunc() storage.CapacityFunc {
	return storage.TableCapacity(c.BaseCapacity, c.PerResource)
}
