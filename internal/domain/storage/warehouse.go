package storage

import (
	"math"
	"sort"
	"sync"

	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
)

// Warehouse is the in-memory CentralStore.
//
// Thread-Safety:
// Every capacity read and stock write goes through one mutex, so concurrent
// callers (fleet collection, other production lines withdrawing) can never
// push stock above capacity.
//
// Invariants:
// - stock is never negative
// - a deposit never raises stock above capacity
type Warehouse struct {
	mu sync.RWMutex

	capacity    CapacityFunc
	stock       map[string]float64
	subscribers []chan DepositNotification
}

// NewWarehouse creates an empty warehouse with the given capacity function
func NewWarehouse(capacity CapacityFunc) *Warehouse {
	if capacity == nil {
		capacity = FlatCapacity(0)
	}
	return &Warehouse{
		capacity: capacity,
		stock:    make(map[string]float64),
	}
}

// Capacity returns the ceiling for a resource
func (w *Warehouse) Capacity(resourceID string) float64 {
	return w.capacity(resourceID)
}

// Stock returns the quantity held for a resource
func (w *Warehouse) Stock(resourceID string) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stock[resourceID]
}

// Deposit adds quantity, rejecting anything above current headroom.
// A deposit within shared.Epsilon of headroom is snapped to the ceiling.
func (w *Warehouse) Deposit(resourceID string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return &ErrInvalidAmount{ResourceID: resourceID, Amount: amount}
	}
	if amount == 0 {
		return nil
	}

	w.mu.Lock()
	capacity := w.capacity(resourceID)
	headroom := math.Max(0, capacity-w.stock[resourceID])
	if amount > headroom+shared.Epsilon {
		w.mu.Unlock()
		return &ErrCapacityExceeded{ResourceID: resourceID, Requested: amount, Headroom: headroom}
	}
	next := w.stock[resourceID] + amount
	if next > capacity {
		next = capacity
	}
	w.stock[resourceID] = next

	notification := DepositNotification{ResourceID: resourceID, Amount: amount, Stock: next}
	for _, ch := range w.subscribers {
		// Non-blocking send, slow subscribers miss notifications
		select {
		case ch <- notification:
		default:
		}
	}
	w.mu.Unlock()
	return nil
}

// Withdraw removes quantity for consumption by other production lines
func (w *Warehouse) Withdraw(resourceID string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return &ErrInvalidAmount{ResourceID: resourceID, Amount: amount}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	available := w.stock[resourceID]
	if amount > available+shared.Epsilon {
		return &ErrInsufficientStock{ResourceID: resourceID, Requested: amount, Available: available}
	}
	remaining := available - amount
	if remaining < shared.Epsilon {
		remaining = 0
	}
	w.stock[resourceID] = remaining
	return nil
}

// Inventory returns a copy of all non-zero stock
func (w *Warehouse) Inventory() map[string]float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make(map[string]float64, len(w.stock))
	for id, amount := range w.stock {
		if amount > 0 {
			result[id] = amount
		}
	}
	return result
}

// ResourceIDs returns the ids with stock, sorted
func (w *Warehouse) ResourceIDs() []string {
	inventory := w.Inventory()
	ids := make([]string, 0, len(inventory))
	for id := range inventory {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Restore replaces stock from persisted state. Corrupt or negative amounts
// become 0. Stock above the current capacity is kept, which only blocks
// further deposits until consumption brings it back under the ceiling.
// Returns the number of entries repaired.
func (w *Warehouse) Restore(stock map[string]float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	repaired := 0
	w.stock = make(map[string]float64, len(stock))
	for id, amount := range stock {
		clean, fixed := shared.SanitizeQuantity(amount)
		if fixed {
			repaired++
		}
		w.stock[id] = clean
	}
	return repaired
}

// SubscribeToDeposits returns a channel that receives a notification for every
// successful deposit. The returned unsubscribe function must be called.
func (w *Warehouse) SubscribeToDeposits() (<-chan DepositNotification, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan DepositNotification, 16)
	w.subscribers = append(w.subscribers, ch)

	unsubscribe := func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		for i, sub := range w.subscribers {
			if sub == ch {
				w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return ch, unsubscribe
}

// Verify interface implementation
var _ CentralStore = (*Warehouse)(nil)
