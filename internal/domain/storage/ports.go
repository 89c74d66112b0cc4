package storage

// CentralStore is the capacity-bounded destination inventory shared by every resource.
// The transport fleet only reads capacity and stock and deposits through this port.
type CentralStore interface {
	// Capacity returns the ceiling for a resource
	Capacity(resourceID string) float64

	// Stock returns the quantity currently held for a resource
	Stock(resourceID string) float64

	// Deposit adds quantity for a resource. Implementations reject deposits
	// larger than the current headroom.
	Deposit(resourceID string, amount float64) error
}

// Headroom returns the remaining capacity for a resource, never negative.
// It is recomputed on every call and must not be cached across ticks.
func Headroom(store CentralStore, resourceID string) float64 {
	h := store.Capacity(resourceID) - store.Stock(resourceID)
	if h < 0 {
		return 0
	}
	return h
}

// CapacityFunc computes the capacity ceiling for a resource.
// Building level formulas live with the host; the store only calls this.
type CapacityFunc func(resourceID string) float64

// FlatCapacity gives every resource the same ceiling
func FlatCapacity(capacity float64) CapacityFunc {
	return func(string) float64 { return capacity }
}

// TableCapacity uses per-resource overrides and falls back to base
func TableCapacity(base float64, overrides map[string]float64) CapacityFunc {
	table := make(map[string]float64, len(overrides))
	for id, c := range overrides {
		table[id] = c
	}
	return func(resourceID string) float64 {
		if c, ok := table[resourceID]; ok {
			return c
		}
		return base
	}
}

// DepositNotification describes quantity that entered the store
type DepositNotification struct {
	ResourceID string
	Amount     float64
	Stock      float64
}
