package fleet_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

type fakeSite struct {
	id    string
	depth int
	load  float64
}

func (s *fakeSite) ID() string             { return s.id }
func (s *fakeSite) DepthIndex() int        { return s.depth }
func (s *fakeSite) ReservoirLoad() float64 { return s.load }
func (s *fakeSite) Withdraw(amount float64) float64 {
	taken := math.Min(amount, s.load)
	s.load -= taken
	return taken
}

func lookupOf(sites ...*fakeSite) fleet.SiteLookup {
	return func(id string) (fleet.Site, bool) {
		for _, s := range sites {
			if s.id == id {
				return s, true
			}
		}
		return nil, false
	}
}

func newFleet(t *testing.T, mutate func(*fleet.Config)) *fleet.Fleet {
	t.Helper()
	cfg := fleet.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	f, err := fleet.NewFleet(cfg)
	require.NoError(t, err)
	return f
}

func tickUntil(t *testing.T, f *fleet.Fleet, unitID string, state fleet.UnitState, lookup fleet.SiteLookup, store storage.CentralStore) int {
	t.Helper()
	for i := 1; i <= 1000; i++ {
		f.Tick(lookup, store)
		u, _ := f.Unit(unitID)
		if u.State == state {
			return i
		}
	}
	t.Fatalf("unit %s never reached %s", unitID, state)
	return 0
}

func TestNewFleet_ValidatesConfig(t *testing.T) {
	_, err := fleet.NewFleet(fleet.Config{Size: 0, UnitCapacity: 10, LoadRate: 1})
	assert.Error(t, err)

	_, err = fleet.NewFleet(fleet.Config{Size: 1, UnitCapacity: 10, LoadRate: 1, Policy: "hoard"})
	assert.Error(t, err)

	f := newFleet(t, nil)
	units := f.Units()
	require.Len(t, units, 3)
	assert.Equal(t, "unit-1", units[0].ID)
	assert.Equal(t, fleet.UnitStateIdle, units[0].State)
}

func TestDispatch_SetsTravelTimeFromDepth(t *testing.T) {
	// Arrange
	f := newFleet(t, nil)
	site := &fakeSite{id: "iron", depth: 2, load: 50}
	store := storage.NewWarehouse(storage.FlatCapacity(1000))

	// Act
	unitID, err := f.Dispatch(site, store)

	// Assert
	require.NoError(t, err)
	u, _ := f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateMovingDown, u.State)
	assert.Equal(t, "iron", u.TargetFieldID)
	assert.Equal(t, 30, u.TravelTimer)
	assert.Equal(t, 30, u.TotalTravelTime)
}

func TestDispatch_Guards(t *testing.T) {
	store := storage.NewWarehouse(storage.TableCapacity(1000, map[string]float64{"gold": 10}))
	require.NoError(t, store.Deposit("gold", 10))

	t.Run("empty reservoir", func(t *testing.T) {
		f := newFleet(t, nil)
		_, err := f.Dispatch(&fakeSite{id: "stone", load: 0.5}, store)
		assert.True(t, shared.IsRejection(err, shared.ReasonReservoirEmpty))
	})

	t.Run("destination full", func(t *testing.T) {
		f := newFleet(t, nil)
		_, err := f.Dispatch(&fakeSite{id: "gold", load: 50}, store)
		assert.True(t, shared.IsRejection(err, shared.ReasonDestinationFull))
	})

	t.Run("already targeted", func(t *testing.T) {
		f := newFleet(t, nil)
		site := &fakeSite{id: "stone", load: 50}
		_, err := f.Dispatch(site, store)
		require.NoError(t, err)

		_, err = f.Dispatch(site, store)
		assert.True(t, shared.IsRejection(err, shared.ReasonFieldAlreadyTargeted))
		busy := 0
		for _, u := range f.Units() {
			if u.State != fleet.UnitStateIdle {
				busy++
			}
		}
		assert.Equal(t, 1, busy)
	})

	t.Run("no idle unit", func(t *testing.T) {
		f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
		_, err := f.Dispatch(&fakeSite{id: "stone", load: 50}, store)
		require.NoError(t, err)

		_, err = f.Dispatch(&fakeSite{id: "copper", load: 50}, store)
		assert.True(t, shared.IsRejection(err, shared.ReasonNoIdleUnit))
	})
}

func TestTick_LoadingLimitedByReservoir(t *testing.T) {
	// Arrange: rate 40, reservoir 25, free space 100, headroom 100
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", depth: 0, load: 25}
	store := storage.NewWarehouse(storage.FlatCapacity(100))
	unitID, err := f.Dispatch(site, store)
	require.NoError(t, err)
	lookup := lookupOf(site)

	// Act
	ticks := tickUntil(t, f, unitID, fleet.UnitStateLoading, lookup, store)
	transitions := f.Tick(lookup, store)

	// Assert
	assert.Equal(t, 10, ticks)
	require.Len(t, transitions, 1)
	assert.Equal(t, 25.0, transitions[0].Loaded)
	assert.Equal(t, fleet.UnitStateMovingUp, transitions[0].To)
	assert.Equal(t, 0.0, site.load)

	u, _ := f.Unit(unitID)
	assert.Equal(t, 25.0, u.CurrentLoad)
	assert.Equal(t, "stone", u.CarriedResourceID)
	assert.Equal(t, 10, u.TravelTimer, "timer resets on ascent")
}

func TestTick_LoadingLimitedByRateAndCapacity(t *testing.T) {
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", load: 500}
	store := storage.NewWarehouse(storage.FlatCapacity(1000))
	unitID, err := f.Dispatch(site, store)
	require.NoError(t, err)
	lookup := lookupOf(site)
	tickUntil(t, f, unitID, fleet.UnitStateLoading, lookup, store)

	f.Tick(lookup, store)
	f.Tick(lookup, store)
	u, _ := f.Unit(unitID)
	assert.Equal(t, 80.0, u.CurrentLoad)
	assert.Equal(t, fleet.UnitStateLoading, u.State)

	f.Tick(lookup, store)
	u, _ = f.Unit(unitID)
	assert.Equal(t, 100.0, u.CurrentLoad, "third step is bounded by free space")
	assert.Equal(t, fleet.UnitStateMovingUp, u.State)
	assert.Equal(t, 400.0, site.load)
}

func TestTick_LoadingLimitedByHeadroom(t *testing.T) {
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", load: 500}
	store := storage.NewWarehouse(storage.FlatCapacity(100))
	require.NoError(t, store.Deposit("stone", 70))
	unitID, err := f.Dispatch(site, store)
	require.NoError(t, err)
	lookup := lookupOf(site)
	tickUntil(t, f, unitID, fleet.UnitStateLoading, lookup, store)

	f.Tick(lookup, store)

	u, _ := f.Unit(unitID)
	assert.Equal(t, 30.0, u.CurrentLoad)
	assert.Equal(t, fleet.UnitStateMovingUp, u.State)
}

func TestTick_MissingFieldSendsUnitUp(t *testing.T) {
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", load: 50}
	store := storage.NewWarehouse(storage.FlatCapacity(100))
	unitID, err := f.Dispatch(site, store)
	require.NoError(t, err)
	tickUntil(t, f, unitID, fleet.UnitStateLoading, lookupOf(site), store)

	f.Tick(lookupOf(), store)

	u, _ := f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateMovingUp, u.State)
	assert.Zero(t, u.CurrentLoad)
}

func readyUnit(t *testing.T, f *fleet.Fleet, site *fakeSite, store storage.CentralStore) string {
	t.Helper()
	unitID, err := f.Dispatch(site, store)
	require.NoError(t, err)
	tickUntil(t, f, unitID, fleet.UnitStateReady, lookupOf(site), store)
	return unitID
}

func TestCollect_TruncatesOverflow(t *testing.T) {
	// Arrange: unit carries 150, store has 60 headroom after loading
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1; c.UnitCapacity = 150; c.LoadRate = 150 })
	site := &fakeSite{id: "stone", load: 150}
	store := storage.NewWarehouse(storage.FlatCapacity(1000))
	unitID := readyUnit(t, f, site, store)
	require.NoError(t, store.Deposit("stone", 940))

	// Act
	report := f.Collect(store)

	// Assert
	require.Len(t, report.Deliveries, 1)
	assert.Equal(t, 60.0, report.Deliveries[0].Delivered)
	assert.Equal(t, 90.0, report.Deliveries[0].Discarded)
	assert.Equal(t, 1000.0, store.Stock("stone"))

	u, _ := f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateIdle, u.State)
	assert.Zero(t, u.CurrentLoad)
	assert.Empty(t, u.CarriedResourceID)
	assert.Empty(t, u.TargetFieldID)
}

func TestCollect_RetainKeepsRemainder(t *testing.T) {
	f := newFleet(t, func(c *fleet.Config) {
		c.Size = 1
		c.UnitCapacity = 150
		c.LoadRate = 150
		c.Policy = fleet.CollectRetain
	})
	site := &fakeSite{id: "stone", load: 150}
	store := storage.NewWarehouse(storage.FlatCapacity(1000))
	unitID := readyUnit(t, f, site, store)
	require.NoError(t, store.Deposit("stone", 940))

	report := f.Collect(store)

	assert.Equal(t, 60.0, report.TotalDelivered())
	assert.Zero(t, report.TotalDiscarded())
	assert.Equal(t, 90.0, report.Deliveries[0].Retained)
	u, _ := f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateReady, u.State)
	assert.Equal(t, 90.0, u.CurrentLoad)

	require.NoError(t, store.Withdraw("stone", 500))
	f.Collect(store)
	u, _ = f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateIdle, u.State)
	assert.Equal(t, 590.0, store.Stock("stone"))
}

type refusingStore struct {
	*storage.Warehouse
}

func (s refusingStore) Deposit(string, float64) error {
	return errors.New("store offline")
}

func TestCollect_KeepsLoadWhenStoreRefuses(t *testing.T) {
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", load: 80}
	warehouse := storage.NewWarehouse(storage.FlatCapacity(1000))
	unitID := readyUnit(t, f, site, warehouse)

	report := f.Collect(refusingStore{warehouse})

	require.Len(t, report.Deliveries, 1)
	d := report.Deliveries[0]
	assert.Equal(t, "store offline", d.Failure)
	assert.Zero(t, d.Delivered)
	assert.Zero(t, d.Discarded)
	assert.Equal(t, 80.0, d.Retained)

	u, _ := f.Unit(unitID)
	assert.Equal(t, fleet.UnitStateReady, u.State)
	assert.Equal(t, 80.0, u.CurrentLoad)

	// the next collection succeeds once the store accepts deposits
	report = f.Collect(warehouse)
	assert.Equal(t, 80.0, report.TotalDelivered())
	assert.Empty(t, report.Deliveries[0].Failure)
}

func TestCollect_IgnoresUnitsInTransit(t *testing.T) {
	f := newFleet(t, nil)
	store := storage.NewWarehouse(storage.FlatCapacity(1000))
	_, err := f.Dispatch(&fakeSite{id: "stone", load: 50}, store)
	require.NoError(t, err)

	report := f.Collect(store)

	assert.Empty(t, report.Deliveries)
}

func TestRestore_RepairsRecords(t *testing.T) {
	f := newFleet(t, nil)
	known := func(id string) bool { return id == "stone" || id == "iron" }

	repairs := f.Restore([]fleet.UnitRecord{
		{ID: "unit-1", State: fleet.UnitStateReady, TargetFieldID: "stone", CurrentLoad: 500, CarriedResourceID: "stone", TravelTimer: 0, TotalTravelTime: 10},
		{ID: "unit-2", State: fleet.UnitStateLoading, TargetFieldID: "stone", CurrentLoad: 5},
		{ID: "unit-3", State: fleet.UnitStateMovingUp, TargetFieldID: "iron", CurrentLoad: math.NaN(), TravelTimer: 99, TotalTravelTime: 30},
		{ID: "unit-9", State: fleet.UnitStateMovingDown, TargetFieldID: "iron"},
	}, known)

	assert.Equal(t, 3, repairs)
	units := f.Units()
	assert.Equal(t, 100.0, units[0].CurrentLoad, "clamped to capacity")
	assert.Equal(t, fleet.UnitStateIdle, units[1].State, "duplicate target reset")
	assert.Equal(t, fleet.UnitStateMovingUp, units[2].State)
	assert.Zero(t, units[2].CurrentLoad)
	assert.Equal(t, 30, units[2].TravelTimer)
}

func TestRestore_DropsCargoOfAnotherResource(t *testing.T) {
	// Arrange: a loading unit bound for stone but holding iron
	f := newFleet(t, func(c *fleet.Config) { c.Size = 1 })
	site := &fakeSite{id: "stone", load: 50}
	store := storage.NewWarehouse(storage.FlatCapacity(1000))

	repairs := f.Restore([]fleet.UnitRecord{
		{ID: "unit-1", State: fleet.UnitStateLoading, TargetFieldID: "stone", CurrentLoad: 30, CarriedResourceID: "iron", TotalTravelTime: 10},
	}, func(id string) bool { return id == "stone" })

	// Assert: cargo dropped, trip kept
	assert.Equal(t, 1, repairs)
	u, _ := f.Unit("unit-1")
	assert.Equal(t, fleet.UnitStateLoading, u.State)
	assert.Zero(t, u.CurrentLoad)
	assert.Empty(t, u.CarriedResourceID)

	// Act: loading resumes with stone only
	f.Tick(lookupOf(site), store)

	u, _ = f.Unit("unit-1")
	assert.Equal(t, "stone", u.CarriedResourceID)
	assert.Equal(t, 40.0, u.CurrentLoad)
	assert.Equal(t, 10.0, site.load)
}
