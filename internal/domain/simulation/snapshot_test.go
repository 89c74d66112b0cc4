package simulation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

func TestSnapshot_RestoresIntoFreshSimulation(t *testing.T) {
	// Arrange
	source := newFixture(t, nil, miner("m1", 100), miner("m2", 60))
	require.NoError(t, source.sim.AssignWorker("stone", 0, "m1"))
	require.NoError(t, source.sim.AssignWorker("copper", 0, "m2"))
	for i := 0; i < 3; i++ {
		source.sim.Tick()
	}
	_, err := source.sim.Dispatch("stone")
	require.NoError(t, err)
	source.sim.Tick()
	snap := source.sim.Snapshot()

	target := newFixture(t, nil, miner("m1", 100), miner("m2", 60))

	// Act
	report := target.sim.Restore(snap)

	// Assert
	assert.Empty(t, report.IgnoredFields)
	assert.Empty(t, report.DefaultedFields)
	assert.Zero(t, report.Repairs)
	assert.Equal(t, snap, target.sim.Snapshot())
	assert.Equal(t, int64(4), target.sim.CurrentTick())

	w, _ := target.registry.Get("m2")
	assert.Equal(t, "mining:copper", w.AssignmentTag, "tags follow restored slots")
}

func TestRestore_MergesAgainstCatalog(t *testing.T) {
	f := newFixture(t, nil)

	report := f.sim.Restore(simulation.Snapshot{
		Version: simulation.SnapshotVersion,
		Tick:    7,
		Fields: []simulation.FieldState{
			{ResourceID: "stone", ReservoirLoad: 12},
			{ResourceID: "adamantite", ReservoirLoad: 99},
		},
	})

	assert.Equal(t, []string{"adamantite"}, report.IgnoredFields)
	assert.Contains(t, report.DefaultedFields, "copper")
	assert.NotContains(t, report.DefaultedFields, "stone")

	stone, err := f.sim.Field("stone")
	require.NoError(t, err)
	assert.Equal(t, 12.0, stone.ReservoirLoad)
	copper, _ := f.sim.Field("copper")
	assert.Zero(t, copper.ReservoirLoad)

	for _, u := range f.sim.Units() {
		assert.Equal(t, fleet.UnitStateIdle, u.State)
	}
}

func TestRestore_RepairsCorruptState(t *testing.T) {
	f := newFixture(t, nil, miner("m1", 100), miner("m2", 100))
	require.NoError(t, f.registry.SetAssignment("m2", "mining:iron"))

	report := f.sim.Restore(simulation.Snapshot{
		Fields: []simulation.FieldState{
			{ResourceID: "stone", Slots: [2]string{"m1", "m1"}, ReservoirLoad: math.NaN()},
			{ResourceID: "copper", Slots: [2]string{"", "m1"}, ReservoirLoad: -3},
			{ResourceID: "iron", ReservoirLoad: 1e9},
		},
		Units: []fleet.UnitRecord{
			{ID: "unit-1", State: "TELEPORTING", TargetFieldID: "stone"},
		},
	})

	// duplicate m1 twice, NaN, negative, overfull, bad unit state
	assert.Equal(t, 6, report.Repairs)
	assert.Equal(t, []string{"m2"}, report.ReleasedWorkers)

	stone, _ := f.sim.Field("stone")
	assert.Equal(t, [2]string{"m1", ""}, stone.Slots)
	assert.Zero(t, stone.ReservoirLoad)
	iron, _ := f.sim.Field("iron")
	assert.Equal(t, iron.Capacity, iron.ReservoirLoad)

	m1, _ := f.registry.Get("m1")
	assert.Equal(t, "mining:stone", m1.AssignmentTag)
	m2, _ := f.registry.Get("m2")
	assert.Empty(t, m2.AssignmentTag)
	assert.Equal(t, []string{"m1"}, f.sim.AssignedWorkerIDs())
}

func TestRestore_EmptiesSlotsOfUnknownWorkers(t *testing.T) {
	f := newFixture(t, nil, miner("m1", 100))

	report := f.sim.Restore(simulation.Snapshot{
		Fields: []simulation.FieldState{
			{ResourceID: "stone", Slots: [2]string{"m1", "ghost"}, ReservoirLoad: 5},
		},
	})

	assert.Equal(t, 1, report.Repairs)
	stone, _ := f.sim.Field("stone")
	assert.Equal(t, [2]string{"m1", ""}, stone.Slots)
	assert.Equal(t, []string{"m1"}, f.sim.AssignedWorkerIDs())
}
