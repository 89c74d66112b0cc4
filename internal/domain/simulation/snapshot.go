package simulation

import (
	"sort"
	"strings"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/mining"
)

// SnapshotVersion is the current layout of Snapshot
const SnapshotVersion = 1

// FieldState is the persisted state of one field
type FieldState struct {
	ResourceID    string                    `json:"resource_id"`
	Slots         [catalog.SlotCount]string `json:"slots"`
	ReservoirLoad float64                   `json:"reservoir_load"`
}

// Snapshot is the full persisted state of the simulation.
// Central store stock and the progression level belong to their own collaborators.
type Snapshot struct {
	Version int                `json:"version"`
	Tick    int64              `json:"tick"`
	Fields  []FieldState       `json:"fields"`
	Units   []fleet.UnitRecord `json:"units"`
}

// RestoreReport describes how a snapshot was merged into the current catalog
type RestoreReport struct {
	IgnoredFields   []string
	DefaultedFields []string
	ReleasedWorkers []string
	Repairs         int
}

// Snapshot captures the current state
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Version: SnapshotVersion,
		Tick:    s.tick,
		Fields:  make([]FieldState, 0, len(s.fields)),
		Units:   s.fleet.Units(),
	}
	for _, field := range s.fields {
		snap.Fields = append(snap.Fields, FieldState{
			ResourceID:    field.ID(),
			Slots:         field.Slots(),
			ReservoirLoad: field.ReservoirLoad(),
		})
	}
	return snap
}

// Restore replaces the current state with a snapshot, merged against the
// current catalog and registry:
//   - fields absent from the catalog are ignored
//   - catalog fields absent from the snapshot start empty
//   - corrupt reservoirs are reset, overfull ones clamped
//   - a worker appearing in more than one slot keeps only the first
//   - transport units are repaired by fleet.Restore
//   - worker assignment tags are brought in line with the restored slots
//   - a slot naming a worker missing from the registry is emptied
//
// Restore never fails.
func (s *Simulation) Restore(snap Snapshot) RestoreReport {
	var report RestoreReport

	states := make(map[string]FieldState, len(snap.Fields))
	for _, state := range snap.Fields {
		if _, known := s.fieldsByID[state.ResourceID]; !known {
			report.IgnoredFields = append(report.IgnoredFields, state.ResourceID)
			continue
		}
		if _, dup := states[state.ResourceID]; dup {
			report.Repairs++
			continue
		}
		states[state.ResourceID] = state
	}

	placed := make(map[string]*mining.Field)
	for _, field := range s.fields {
		state, ok := states[field.ID()]
		if !ok {
			report.DefaultedFields = append(report.DefaultedFields, field.ID())
			field.RestoreState([catalog.SlotCount]string{}, 0)
			continue
		}

		slots := state.Slots
		for i, workerID := range slots {
			if workerID == "" {
				continue
			}
			if _, dup := placed[workerID]; dup {
				slots[i] = ""
				report.Repairs++
				continue
			}
			placed[workerID] = field
		}
		if field.RestoreState(slots, state.ReservoirLoad) {
			report.Repairs++
		}
	}

	report.Repairs += s.fleet.Restore(snap.Units, func(fieldID string) bool {
		_, ok := s.fieldsByID[fieldID]
		return ok
	})

	// slots naming a worker the registry cannot tag are emptied
	for workerID, field := range placed {
		tag := mining.AssignmentTag(field.ID())
		if w, ok := s.workers.Get(workerID); ok && w.AssignmentTag == tag {
			continue
		}
		if err := s.workers.SetAssignment(workerID, tag); err != nil {
			field.ClearSlot(field.SlotOf(workerID))
			delete(placed, workerID)
			report.Repairs++
		}
	}

	for _, w := range s.workers.All() {
		if _, ok := placed[w.ID]; ok {
			continue
		}
		if strings.HasPrefix(w.AssignmentTag, mining.AssignmentPrefix) && s.workers.ClearAssignment(w.ID) {
			report.ReleasedWorkers = append(report.ReleasedWorkers, w.ID)
		}
	}
	sort.Strings(report.ReleasedWorkers)

	if snap.Tick > 0 {
		s.tick = snap.Tick
	} else {
		s.tick = 0
	}
	return report
}
