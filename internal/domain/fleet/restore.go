package fleet

import "github.com/andrescamacho/mythic-mines/internal/domain/shared"

// Restore loads persisted unit records into the pool and repairs what it can.
//
// Records are matched by unit id; records for units outside the current pool
// are ignored and pool units without a record stay Idle. Loads are clamped to
// the configured capacity. A unit whose target is unknown, whose state is not
// recognised, or which duplicates another unit's target is reset to Idle.
// Cargo of a resource other than the unit's target is dropped; the trip itself
// is kept.
// Returns the number of repairs made.
func (f *Fleet) Restore(records []UnitRecord, fieldExists func(fieldID string) bool) int {
	byID := make(map[string]UnitRecord, len(records))
	for _, r := range records {
		if _, seen := byID[r.ID]; !seen {
			byID[r.ID] = r
		}
	}

	repairs := 0
	targeted := make(map[string]bool)
	for _, u := range f.units {
		u.reset()
		u.capacity = f.config.UnitCapacity

		r, ok := byID[u.id]
		if !ok || r.State == UnitStateIdle {
			continue
		}
		if !r.State.Valid() || r.TargetFieldID == "" || !fieldExists(r.TargetFieldID) || targeted[r.TargetFieldID] {
			repairs++
			continue
		}

		load, fixed := shared.SanitizeQuantity(r.CurrentLoad)
		if fixed {
			repairs++
		}
		if load > u.capacity {
			load = u.capacity
			repairs++
		}

		u.state = r.State
		u.targetFieldID = r.TargetFieldID
		u.totalTravelTime = clampTimer(r.TotalTravelTime, 0)
		u.travelTimer = clampTimer(r.TravelTimer, u.totalTravelTime)
		if load > 0 {
			switch r.CarriedResourceID {
			case r.TargetFieldID:
				u.load(r.TargetFieldID, load)
			case "":
				u.load(r.TargetFieldID, load)
				repairs++
			default:
				repairs++
			}
		}
		targeted[r.TargetFieldID] = true
	}
	return repairs
}

// clampTimer keeps a timer non-negative and, when max > 0, no larger than max
func clampTimer(v, max int) int {
	if v < 0 {
		return 0
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
