package mining

import (
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
)

// EfficiencyDivisor normalises worker efficiency so a 100-efficiency worker
// on hardness-1 material yields 10 units per tick.
const EfficiencyDivisor = 10.0

// Field is the production site for one resource: a bounded reservoir and
// two worker slots. Slots hold worker ids; the worker records live in the registry.
//
// Invariants:
// - 0 <= reservoirLoad <= descriptor.ReservoirCapacity after every mutation
// - a corrupt reservoir value is reset to 0 the first time it is read
//
// Field is not safe for concurrent use; the owning simulation serialises access.
type Field struct {
	descriptor    catalog.ResourceDescriptor
	depthIndex    int
	reservoirLoad float64
	slots         [catalog.SlotCount]string
}

// NewField creates an empty field for a catalog resource
func NewField(descriptor catalog.ResourceDescriptor, depthIndex int) (*Field, error) {
	if descriptor.ID == "" {
		return nil, fmt.Errorf("resource id cannot be empty")
	}
	if depthIndex < 0 {
		return nil, fmt.Errorf("depth index cannot be negative")
	}
	return &Field{descriptor: descriptor, depthIndex: depthIndex}, nil
}

// Getters

func (f *Field) ID() string                             { return f.descriptor.ID }
func (f *Field) ResourceID() string                     { return f.descriptor.ID }
func (f *Field) Descriptor() catalog.ResourceDescriptor { return f.descriptor }
func (f *Field) DepthIndex() int                        { return f.depthIndex }
func (f *Field) Capacity() float64                      { return f.descriptor.ReservoirCapacity }
func (f *Field) RequiredRole() string                   { return f.descriptor.RequiredRole }
func (f *Field) Slots() [catalog.SlotCount]string       { return f.slots }

// ReservoirLoad returns the current load, repairing it first if corrupt
func (f *Field) ReservoirLoad() float64 {
	f.Heal()
	return f.reservoirLoad
}

// Heal resets a NaN, infinite or negative reservoir to 0 and clamps an
// overfull one to capacity. Returns true if the value was changed.
func (f *Field) Heal() bool {
	clean, repaired := shared.SanitizeQuantity(f.reservoirLoad)
	if clean > f.Capacity() {
		clean = f.Capacity()
		repaired = true
	}
	f.reservoirLoad = clean
	return repaired
}

// IsFull returns true when the reservoir has reached capacity
func (f *Field) IsFull() bool {
	return f.ReservoirLoad() >= f.Capacity()
}

// Withdraw removes up to amount from the reservoir and returns what was taken.
// Residues below shared.Epsilon are snapped to zero.
func (f *Field) Withdraw(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	load := f.ReservoirLoad()
	taken := shared.MinQuantity(amount, load)
	f.reservoirLoad = load - taken
	if f.reservoirLoad < shared.Epsilon {
		f.reservoirLoad = 0
	}
	return taken
}

// Slot returns the worker id in a slot, if any
func (f *Field) Slot(index int) (string, bool) {
	if !validSlot(index) {
		return "", false
	}
	id := f.slots[index]
	return id, id != ""
}

// SlotOf returns the slot index holding a worker, or -1
func (f *Field) SlotOf(workerID string) int {
	if workerID == "" {
		return -1
	}
	for i, id := range f.slots {
		if id == workerID {
			return i
		}
	}
	return -1
}

// SetSlot places a worker id into a slot. The caller is responsible for
// evicting the previous occupant and tagging the worker.
func (f *Field) SetSlot(index int, workerID string) error {
	if !validSlot(index) {
		return shared.NewRejectionError(shared.ReasonInvalidSlot, "slot %d is out of range for field %s", index, f.ID())
	}
	f.slots[index] = workerID
	return nil
}

// ClearSlot empties a slot and returns the previous occupant
func (f *Field) ClearSlot(index int) (string, bool) {
	if !validSlot(index) || f.slots[index] == "" {
		return "", false
	}
	previous := f.slots[index]
	f.slots[index] = ""
	return previous, true
}

// Evict clears a slot and the occupant's assignment tag if it still points at
// this field. Evicting an empty slot is a no-op and touches no worker.
func (f *Field) Evict(index int, workers WorkerDirectory) (string, bool) {
	workerID, ok := f.ClearSlot(index)
	if !ok {
		return "", false
	}
	if w, found := workers.Get(workerID); found && w.AssignmentTag == AssignmentTag(f.ID()) {
		workers.ClearAssignment(workerID)
	}
	return workerID, true
}

// ProductionResult describes what one production step did to a field
type ProductionResult struct {
	FieldID  string
	Produced float64
	Evicted  []string
	Gated    []int
	Skipped  bool
	Repaired bool
}

// Produce runs one production step at the given progression level.
//
// A full reservoir is skipped entirely. Otherwise each occupied slot either
// evicts an ineligible or unknown worker, contributes nothing while its unlock
// level is not met, or adds (efficiency / 10) / hardness. The sum is added to
// the reservoir and clamped to capacity.
func (f *Field) Produce(level int, workers WorkerDirectory) ProductionResult {
	result := ProductionResult{FieldID: f.ID(), Repaired: f.Heal()}

	if f.reservoirLoad >= f.Capacity() {
		result.Skipped = true
		return result
	}

	total := 0.0
	for i := range f.slots {
		workerID := f.slots[i]
		if workerID == "" {
			continue
		}

		w, found := workers.Get(workerID)
		if !found || !w.Eligible() {
			if evicted, ok := f.Evict(i, workers); ok {
				result.Evicted = append(result.Evicted, evicted)
			}
			continue
		}

		if level < f.descriptor.SlotUnlockLevel[i] {
			result.Gated = append(result.Gated, i)
			continue
		}

		efficiency, _ := shared.SanitizeQuantity(w.Efficiency)
		total += (efficiency / EfficiencyDivisor) / f.descriptor.Hardness
	}

	before := f.reservoirLoad
	f.reservoirLoad = shared.Clamp(f.reservoirLoad+total, 0, f.Capacity())
	result.Produced = f.reservoirLoad - before
	return result
}

// RestoreState loads persisted slots and reservoir. Returns true if the
// reservoir value had to be repaired.
func (f *Field) RestoreState(slots [catalog.SlotCount]string, reservoirLoad float64) bool {
	f.slots = slots
	f.reservoirLoad = reservoirLoad
	return f.Heal()
}

func validSlot(index int) bool {
	return index >= 0 && index < catalog.SlotCount
}
