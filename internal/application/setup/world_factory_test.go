package setup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/application/setup"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

func TestSettingsFromConfig_MapsSimulationAndStorage(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Simulation.CollectPolicy = "retain"
	cfg.Simulation.FleetSize = 2
	cfg.Simulation.ProgressionLevel = 3
	cfg.Storage.BaseCapacity = 500
	cfg.Storage.PerResource = map[string]float64{"gold": 50}

	settings := setup.SettingsFromConfig(cfg, nil)

	assert.Equal(t, fleet.CollectRetain, settings.Fleet.Policy)
	assert.Equal(t, 2, settings.Fleet.Size)
	assert.Equal(t, 3, settings.Level)
	assert.Equal(t, 50.0, settings.Capacity("gold"))
	assert.Equal(t, 500.0, settings.Capacity("stone"))

	w, err := world.NewWorld(settings)
	require.NoError(t, err)
	assert.Len(t, w.Sim.Units(), 2)
}

func TestSettingsFromConfig_WorldRejectsBadFleet(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Simulation.CollectPolicy = "overflow"

	_, err := world.NewWorld(setup.SettingsFromConfig(cfg, nil))
	assert.ErrorContains(t, err, "collect policy")
}
