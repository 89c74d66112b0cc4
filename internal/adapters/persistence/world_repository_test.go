package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/mythic-mines/internal/adapters/persistence"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
	"github.com/andrescamacho/mythic-mines/internal/infrastructure/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func sampleState(tick int64) *world.WorldState {
	return &world.WorldState{
		Snapshot: simulation.Snapshot{
			Version: simulation.SnapshotVersion,
			Tick:    tick,
			Fields: []simulation.FieldState{
				{ResourceID: "stone", Slots: [2]string{"m1", ""}, ReservoirLoad: 42.5},
				{ResourceID: "copper", Slots: [2]string{"", "m2"}, ReservoirLoad: 0},
			},
			Units: []fleet.UnitRecord{
				{ID: "unit-1", State: fleet.UnitStateMovingUp, TargetFieldID: "stone", CurrentLoad: 60,
					CarriedResourceID: "stone", Capacity: 100, TravelTimer: 4, TotalTravelTime: 10},
				{ID: "unit-2", State: fleet.UnitStateIdle, Capacity: 100},
			},
		},
		Stock: map[string]float64{"stone": 310, "copper": 12.25},
		Level: 3,
		Workers: []workforce.Worker{
			{ID: "m1", Name: "Durin", JobClassification: "miner", Efficiency: 80, AssignmentTag: "mining:stone"},
			{ID: "m2", Name: "Nori", JobClassification: "miner", Efficiency: 40, StrikeDaysOwed: 2, Injured: true, AssignmentTag: "mining:copper"},
		},
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWorldRepository_LoadEmptySlot(t *testing.T) {
	repo := persistence.NewGormWorldRepository(newTestDB(t), "")

	_, err := repo.Load(context.Background())

	assert.ErrorIs(t, err, world.ErrNoSavedState)
}

func TestWorldRepository_SaveAndLoad(t *testing.T) {
	// Arrange
	repo := persistence.NewGormWorldRepository(newTestDB(t), "")
	state := sampleState(17)

	// Act
	require.NoError(t, repo.Save(context.Background(), state))
	loaded, err := repo.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, state.Snapshot, loaded.Snapshot)
	assert.Equal(t, state.Stock, loaded.Stock)
	assert.Equal(t, state.Level, loaded.Level)
	assert.Equal(t, state.Workers, loaded.Workers)
	assert.True(t, state.SavedAt.Equal(loaded.SavedAt))
}

func TestWorldRepository_SaveReplacesPreviousSave(t *testing.T) {
	repo := persistence.NewGormWorldRepository(newTestDB(t), "")
	require.NoError(t, repo.Save(context.Background(), sampleState(5)))

	next := sampleState(9)
	next.Workers = next.Workers[:1]
	next.Snapshot.Units = nil
	require.NoError(t, repo.Save(context.Background(), next))

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), loaded.Snapshot.Tick)
	assert.Len(t, loaded.Workers, 1)
	assert.Empty(t, loaded.Snapshot.Units)
}

func TestWorldRepository_SlotsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	alpha := persistence.NewGormWorldRepository(db, "alpha")
	beta := persistence.NewGormWorldRepository(db, "beta")

	require.NoError(t, alpha.Save(context.Background(), sampleState(1)))

	_, err := beta.Load(context.Background())
	assert.ErrorIs(t, err, world.ErrNoSavedState)
}

func TestEventLogRepository_DeduplicatesAndOrders(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := persistence.NewGormEventLogRepository(newTestDB(t), "", clock)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Record(ctx, world.Event{Tick: 3, Kind: world.EventDispatch, Subject: "unit-1", Message: "first"}))
	require.NoError(t, repo.Record(ctx, world.Event{Tick: 3, Kind: world.EventDispatch, Subject: "unit-1", Message: "again"}))
	require.NoError(t, repo.Record(ctx, world.Event{Tick: 7, Kind: world.EventArrival, Subject: "unit-1", Message: "arrived"}))
	require.NoError(t, repo.Record(ctx, world.Event{Tick: 7, Kind: world.EventEviction, Subject: "m1", Message: "evicted"}))

	events, err := repo.Recent(ctx, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "evicted", events[0].Message)
	assert.Equal(t, "arrived", events[1].Message)
	assert.Equal(t, "first", events[2].Message)

	limited, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
