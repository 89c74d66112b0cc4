package setup

import (
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

// SettingsFromConfig translates validated daemon configuration into world
// settings. Fleet tuning is checked again by world.NewWorld.
func SettingsFromConfig(cfg *config.Config, cat *catalog.Catalog) world.Settings {
	return world.Settings{
		Catalog:      cat,
		Fleet:        cfg.Simulation.FleetConfig(),
		Capacity:     cfg.Storage.CapacityFunc(),
		Level:        cfg.Simulation.ProgressionLevel,
		RequiredRole: cfg.Simulation.RequiredRole,
	}
}
