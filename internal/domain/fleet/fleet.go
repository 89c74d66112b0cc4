package fleet

import (
	"fmt"
	"math"

	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

// Site is the part of a field a transport unit interacts with
type Site interface {
	ID() string
	DepthIndex() int
	ReservoirLoad() float64
	Withdraw(amount float64) float64
}

// SiteLookup resolves a field id to its site
type SiteLookup func(fieldID string) (Site, bool)

// MinDispatchLoad is the reservoir content below which a field is considered empty
const MinDispatchLoad = 1.0

// Fleet is the fixed pool of transport units.
// At most one unit targets a given field at any time.
type Fleet struct {
	config Config
	units  []*TransportUnit
}

// NewFleet creates config.Size idle units named unit-1..unit-N
func NewFleet(config Config) (*Fleet, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fleet config: %w", err)
	}
	policy, _ := ParseCollectPolicy(string(config.Policy))
	config.Policy = policy

	units := make([]*TransportUnit, 0, config.Size)
	for i := 1; i <= config.Size; i++ {
		unit, err := NewTransportUnit(fmt.Sprintf("unit-%d", i), config.UnitCapacity)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return &Fleet{config: config, units: units}, nil
}

// Config returns the fleet tuning
func (f *Fleet) Config() Config { return f.config }

// Units returns the state of every unit in pool order
func (f *Fleet) Units() []UnitRecord {
	records := make([]UnitRecord, 0, len(f.units))
	for _, u := range f.units {
		records = append(records, u.Record())
	}
	return records
}

// Unit returns the state of one unit
func (f *Fleet) Unit(id string) (UnitRecord, bool) {
	for _, u := range f.units {
		if u.id == id {
			return u.Record(), true
		}
	}
	return UnitRecord{}, false
}

// TargetingUnit returns the unit bound to a field, whatever its state
func (f *Fleet) TargetingUnit(fieldID string) (*TransportUnit, bool) {
	for _, u := range f.units {
		if u.state != UnitStateIdle && u.targetFieldID == fieldID {
			return u, true
		}
	}
	return nil, false
}

func (f *Fleet) firstIdle() (*TransportUnit, bool) {
	for _, u := range f.units {
		if u.IsIdle() {
			return u, true
		}
	}
	return nil, false
}

// Dispatch binds an idle unit to a field and sends it down.
//
// Guards, in order:
// 1. reservoir below MinDispatchLoad -> RESERVOIR_EMPTY
// 2. store already at capacity for the resource -> DESTINATION_FULL
// 3. a unit already targets the field -> FIELD_ALREADY_TARGETED
// 4. no idle unit -> NO_IDLE_UNIT
//
// A rejected dispatch changes nothing. Returns the dispatched unit id.
func (f *Fleet) Dispatch(site Site, store storage.CentralStore) (string, error) {
	fieldID := site.ID()

	if site.ReservoirLoad() < MinDispatchLoad {
		return "", shared.NewRejectionError(shared.ReasonReservoirEmpty, "field %s has nothing to collect", fieldID)
	}
	if storage.Headroom(store, fieldID) <= 0 {
		return "", shared.NewRejectionError(shared.ReasonDestinationFull, "central store is full for %s", fieldID)
	}
	if existing, targeted := f.TargetingUnit(fieldID); targeted {
		return "", shared.NewRejectionError(shared.ReasonFieldAlreadyTargeted, "unit %s is already assigned to field %s", existing.id, fieldID)
	}
	unit, ok := f.firstIdle()
	if !ok {
		return "", shared.NewRejectionError(shared.ReasonNoIdleUnit, "no idle transport unit available")
	}

	if err := unit.depart(fieldID, f.config.TravelTime(site.DepthIndex())); err != nil {
		return "", err
	}
	return unit.id, nil
}

// Transition records one unit changing state during a tick
type Transition struct {
	UnitID  string
	FieldID string
	From    UnitState
	To      UnitState
	Loaded  float64
}

// Tick advances every unit by one step. It never fails: a unit whose field
// cannot be resolved heads back up with whatever it already carries.
func (f *Fleet) Tick(lookup SiteLookup, store storage.CentralStore) []Transition {
	var transitions []Transition
	for _, u := range f.units {
		from := u.state
		loaded := 0.0

		switch u.state {
		case UnitStateMovingDown:
			u.travelTimer--
			if u.travelTimer <= 0 {
				u.travelTimer = 0
				u.state = UnitStateLoading
			}

		case UnitStateLoading:
			loaded = f.loadStep(u, lookup, store)

		case UnitStateMovingUp:
			u.travelTimer--
			if u.travelTimer <= 0 {
				u.travelTimer = 0
				u.state = UnitStateReady
			}
		}

		if u.state != from || loaded > 0 {
			transitions = append(transitions, Transition{
				UnitID:  u.id,
				FieldID: u.targetFieldID,
				From:    from,
				To:      u.state,
				Loaded:  loaded,
			})
		}
	}
	return transitions
}

// loadStep moves one tick's worth from the reservoir into the unit.
//
// take = min(loadRate, reservoir, free space, max(0, headroom - currentLoad))
//
// The unit leaves for the surface once it is full, the reservoir is empty,
// or it already carries as much as the store can accept.
func (f *Fleet) loadStep(u *TransportUnit, lookup SiteLookup, store storage.CentralStore) float64 {
	site, ok := lookup(u.targetFieldID)
	if !ok {
		u.ascend()
		return 0
	}

	resourceID := site.ID()
	if !u.canCarry(resourceID) {
		u.ascend()
		return 0
	}
	headroom := storage.Headroom(store, resourceID)
	take := shared.MinQuantity(
		f.config.LoadRate,
		site.ReservoirLoad(),
		u.FreeSpace(),
		math.Max(0, headroom-u.currentLoad),
	)

	taken := 0.0
	if take > 0 {
		taken = site.Withdraw(take)
		u.load(resourceID, taken)
	}

	if u.currentLoad >= u.capacity || site.ReservoirLoad() <= 0 || u.currentLoad >= headroom {
		u.ascend()
	}
	return taken
}

// Delivery describes what happened to one Ready unit on collection
type Delivery struct {
	UnitID     string
	ResourceID string
	Delivered  float64
	Discarded  float64
	Retained   float64
	// Failure is set when the store refused the deposit; the unit keeps its load
	Failure string `json:",omitempty"`
}

// CollectReport summarises a collection
type CollectReport struct {
	Deliveries []Delivery
}

// TotalDelivered returns the quantity that entered the store
func (r CollectReport) TotalDelivered() float64 {
	total := 0.0
	for _, d := range r.Deliveries {
		total += d.Delivered
	}
	return total
}

// TotalDiscarded returns the quantity lost to truncation
func (r CollectReport) TotalDiscarded() float64 {
	total := 0.0
	for _, d := range r.Deliveries {
		total += d.Discarded
	}
	return total
}

// Collect unloads every Ready unit into the store, bounded by headroom at
// the moment of collection. Under CollectTruncate the remainder is discarded
// and the unit returns to Idle; under CollectRetain the remainder stays on
// board and the unit stays Ready until it is empty. A unit whose deposit is
// refused by the store stays Ready with its full load under either policy.
func (f *Fleet) Collect(store storage.CentralStore) CollectReport {
	var report CollectReport
	for _, u := range f.units {
		if u.state != UnitStateReady {
			continue
		}

		resourceID := u.carriedResourceID
		delivery := Delivery{UnitID: u.id, ResourceID: resourceID}

		if u.currentLoad > 0 && resourceID != "" {
			amount := math.Min(u.currentLoad, storage.Headroom(store, resourceID))
			if amount > 0 {
				if err := store.Deposit(resourceID, amount); err != nil {
					delivery.Failure = err.Error()
					delivery.Retained = u.currentLoad
					report.Deliveries = append(report.Deliveries, delivery)
					continue
				}
				delivery.Delivered = amount
			}
		}

		remainder := u.currentLoad - delivery.Delivered
		if remainder < shared.Epsilon {
			remainder = 0
		}

		if f.config.Policy == CollectRetain && remainder > 0 {
			u.unload(delivery.Delivered)
			delivery.Retained = remainder
		} else {
			delivery.Discarded = remainder
			u.reset()
		}
		report.Deliveries = append(report.Deliveries, delivery)
	}
	return report
}
