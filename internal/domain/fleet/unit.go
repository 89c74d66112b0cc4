package fleet

import "fmt"

// UnitState is the position of a transport unit in its cycle
type UnitState string

const (
	UnitStateIdle       UnitState = "IDLE"
	UnitStateMovingDown UnitState = "MOVING_DOWN"
	UnitStateLoading    UnitState = "LOADING"
	UnitStateMovingUp   UnitState = "MOVING_UP"
	UnitStateReady      UnitState = "READY"
)

// Valid returns true for the five known states
func (s UnitState) Valid() bool {
	switch s {
	case UnitStateIdle, UnitStateMovingDown, UnitStateLoading, UnitStateMovingUp, UnitStateReady:
		return true
	}
	return false
}

// TransportUnit carries one field's output at a time to the central store.
//
// State Machine:
//
//	IDLE --dispatch--> MOVING_DOWN --timer--> LOADING --full/empty/headroom--> MOVING_UP --timer--> READY --collect--> IDLE
//
// Invariants:
// - targetFieldID is set only while not IDLE
// - carriedResourceID is set only while currentLoad > 0
// - 0 <= currentLoad <= capacity
type TransportUnit struct {
	id                string
	state             UnitState
	targetFieldID     string
	currentLoad       float64
	carriedResourceID string
	capacity          float64
	travelTimer       int
	totalTravelTime   int
}

// NewTransportUnit creates an idle unit
func NewTransportUnit(id string, capacity float64) (*TransportUnit, error) {
	if id == "" {
		return nil, fmt.Errorf("unit id cannot be empty")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("unit capacity must be positive")
	}
	return &TransportUnit{id: id, state: UnitStateIdle, capacity: capacity}, nil
}

// Getters

func (u *TransportUnit) ID() string                { return u.id }
func (u *TransportUnit) State() UnitState          { return u.state }
func (u *TransportUnit) TargetFieldID() string     { return u.targetFieldID }
func (u *TransportUnit) CurrentLoad() float64      { return u.currentLoad }
func (u *TransportUnit) CarriedResourceID() string { return u.carriedResourceID }
func (u *TransportUnit) Capacity() float64         { return u.capacity }
func (u *TransportUnit) TravelTimer() int          { return u.travelTimer }
func (u *TransportUnit) TotalTravelTime() int      { return u.totalTravelTime }

// IsIdle returns true if the unit can be dispatched
func (u *TransportUnit) IsIdle() bool {
	return u.state == UnitStateIdle
}

// FreeSpace returns the capacity still available on board
func (u *TransportUnit) FreeSpace() float64 {
	free := u.capacity - u.currentLoad
	if free < 0 {
		return 0
	}
	return free
}

// State transition methods

// depart binds the unit to a field and starts the descent
func (u *TransportUnit) depart(fieldID string, travelTime int) error {
	if u.state != UnitStateIdle {
		return fmt.Errorf("cannot dispatch unit %s from %s state", u.id, u.state)
	}
	u.state = UnitStateMovingDown
	u.targetFieldID = fieldID
	u.travelTimer = travelTime
	u.totalTravelTime = travelTime
	return nil
}

// ascend starts the return trip with the timer reset to the full travel time
func (u *TransportUnit) ascend() {
	u.state = UnitStateMovingUp
	u.travelTimer = u.totalTravelTime
}

// canCarry reports whether resourceID may be added to the hold.
// A unit never mixes resources.
func (u *TransportUnit) canCarry(resourceID string) bool {
	return u.currentLoad <= 0 || u.carriedResourceID == "" || u.carriedResourceID == resourceID
}

// load adds quantity of a resource to the hold. It is a no-op for a resource
// other than the one already on board.
func (u *TransportUnit) load(resourceID string, amount float64) {
	if amount <= 0 || !u.canCarry(resourceID) {
		return
	}
	u.currentLoad += amount
	if u.currentLoad > u.capacity {
		u.currentLoad = u.capacity
	}
	u.carriedResourceID = resourceID
}

// unload removes quantity from the hold, clearing the resource once empty
func (u *TransportUnit) unload(amount float64) {
	u.currentLoad -= amount
	if u.currentLoad <= 0 {
		u.currentLoad = 0
		u.carriedResourceID = ""
	}
}

// reset returns the unit to IDLE with an empty hold
func (u *TransportUnit) reset() {
	u.state = UnitStateIdle
	u.targetFieldID = ""
	u.currentLoad = 0
	u.carriedResourceID = ""
	u.travelTimer = 0
	u.totalTravelTime = 0
}

// Record returns the full persisted state of the unit
func (u *TransportUnit) Record() UnitRecord {
	return UnitRecord{
		ID:                u.id,
		State:             u.state,
		TargetFieldID:     u.targetFieldID,
		CurrentLoad:       u.currentLoad,
		CarriedResourceID: u.carriedResourceID,
		Capacity:          u.capacity,
		TravelTimer:       u.travelTimer,
		TotalTravelTime:   u.totalTravelTime,
	}
}

func (u *TransportUnit) String() string {
	return fmt.Sprintf("Unit[%s, %s, target=%s, load=%.2f/%.2f %s, timer=%d/%d]",
		u.id, u.state, u.targetFieldID, u.currentLoad, u.capacity, u.carriedResourceID, u.travelTimer, u.totalTravelTime)
}

// UnitRecord is the value form of a transport unit used for queries and snapshots
type UnitRecord struct {
	ID                string    `json:"id"`
	State             UnitState `json:"state"`
	TargetFieldID     string    `json:"target_field_id,omitempty"`
	CurrentLoad       float64   `json:"current_load"`
	CarriedResourceID string    `json:"carried_resource_id,omitempty"`
	Capacity          float64   `json:"capacity"`
	TravelTimer       int       `json:"travel_timer"`
	TotalTravelTime   int       `json:"total_travel_time"`
}
