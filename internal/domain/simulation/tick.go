package simulation

import (
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/mining"
)

// Eviction records a worker removed from a slot during production
type Eviction struct {
	FieldID  string
	WorkerID string
}

// TickReport describes everything one tick changed
type TickReport struct {
	Tick        int64
	Level       int
	Production  map[string]float64
	Evictions   []Eviction
	Transitions []fleet.Transition
	Repairs     int
}

// TotalProduced returns the quantity added to all reservoirs this tick
func (r TickReport) TotalProduced() float64 {
	total := 0.0
	for _, p := range r.Production {
		total += p
	}
	return total
}

// Tick advances the simulation by one time unit.
// Every field produces first, then every transport unit takes one step.
// Tick never fails; corrupt state is repaired and counted in the report.
func (s *Simulation) Tick() TickReport {
	s.tick++
	report := TickReport{
		Tick:       s.tick,
		Level:      s.levels.CurrentLevel(),
		Production: make(map[string]float64, len(s.fields)),
	}

	var results []mining.ProductionResult
	for _, field := range s.fields {
		results = append(results, field.Produce(report.Level, s.workers))
	}
	for _, result := range results {
		if result.Produced > 0 {
			report.Production[result.FieldID] = result.Produced
		}
		for _, workerID := range result.Evicted {
			report.Evictions = append(report.Evictions, Eviction{FieldID: result.FieldID, WorkerID: workerID})
		}
		if result.Repaired {
			report.Repairs++
		}
	}

	report.Transitions = s.fleet.Tick(s.lookupSite, s.store)
	return report
}
