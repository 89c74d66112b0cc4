package simulation

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/mining"
	"github.com/andrescamacho/mythic-mines/internal/domain/progression"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// WorkerRegistry is the single authority over worker records.
// The simulation reads workers by id and mutates only their assignment tag.
type WorkerRegistry interface {
	Get(id string) (workforce.Worker, bool)
	All() []workforce.Worker
	SetAssignment(id, tag string) error
	ClearAssignment(id string) bool
}

// Dependencies are the collaborators a simulation is built from
type Dependencies struct {
	Catalog *catalog.Catalog
	Workers WorkerRegistry
	Store   storage.CentralStore
	Levels  progression.LevelProvider
}

// Option customises a simulation
type Option func(*Simulation)

// WithRequiredRole makes every field require the given job classification,
// overriding the catalog's per-resource role.
func WithRequiredRole(role string) Option {
	return func(s *Simulation) {
		s.requiredRole = role
	}
}

// Simulation is the production-and-logistics aggregate: one field per catalog
// resource, the transport fleet, and the collaborators they read and write.
//
// Commands either fully apply or return a *shared.RejectionError and change
// nothing. Tick never fails.
//
// Simulation is not safe for concurrent use; callers serialise commands and ticks.
type Simulation struct {
	catalog      *catalog.Catalog
	fields       []*mining.Field
	fieldsByID   map[string]*mining.Field
	fleet        *fleet.Fleet
	workers      WorkerRegistry
	store        storage.CentralStore
	levels       progression.LevelProvider
	requiredRole string
	tick         int64
}

// New builds a simulation with one empty field per catalog resource and an idle fleet
func New(deps Dependencies, fleetConfig fleet.Config, opts ...Option) (*Simulation, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if deps.Workers == nil {
		return nil, fmt.Errorf("worker registry is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("central store is required")
	}
	if deps.Levels == nil {
		return nil, fmt.Errorf("level provider is required")
	}

	transport, err := fleet.NewFleet(fleetConfig)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		catalog:    deps.Catalog,
		fieldsByID: make(map[string]*mining.Field, deps.Catalog.Len()),
		fleet:      transport,
		workers:    deps.Workers,
		store:      deps.Store,
		levels:     deps.Levels,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, descriptor := range deps.Catalog.Descriptors() {
		field, err := mining.NewField(descriptor, i)
		if err != nil {
			return nil, fmt.Errorf("failed to create field %s: %w", descriptor.ID, err)
		}
		s.fields = append(s.fields, field)
		s.fieldsByID[descriptor.ID] = field
	}

	return s, nil
}

// Catalog returns the resource catalog the fields were built from
func (s *Simulation) Catalog() *catalog.Catalog { return s.catalog }

// FleetConfig returns the transport tuning
func (s *Simulation) FleetConfig() fleet.Config { return s.fleet.Config() }

// CurrentTick returns the number of ticks applied so far
func (s *Simulation) CurrentTick() int64 { return s.tick }

func (s *Simulation) field(fieldID string) (*mining.Field, error) {
	field, ok := s.fieldsByID[fieldID]
	if !ok {
		msg := fmt.Sprintf("field %q does not exist", fieldID)
		if suggestions := s.catalog.Suggest(fieldID); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		return nil, shared.NewRejectionError(shared.ReasonFieldNotFound, "%s", msg)
	}
	return field, nil
}

func (s *Simulation) roleFor(field *mining.Field) string {
	if s.requiredRole != "" {
		return s.requiredRole
	}
	return field.RequiredRole()
}

// AssignWorker places a worker into a field slot.
//
// The worker must exist and hold the field's required role. The worker is
// removed from any other slot it occupies, the current occupant of the target
// slot is evicted, and the worker is tagged with the field's assignment.
// Eligibility is not checked here: an ineligible worker is evicted by the
// next production step.
func (s *Simulation) AssignWorker(fieldID string, slotIndex int, workerID string) error {
	field, err := s.field(fieldID)
	if err != nil {
		return err
	}
	if slotIndex < 0 || slotIndex >= catalog.SlotCount {
		return shared.NewRejectionError(shared.ReasonInvalidSlot, "slot %d is out of range (0-%d)", slotIndex, catalog.SlotCount-1)
	}
	worker, ok := s.workers.Get(workerID)
	if !ok {
		return shared.NewRejectionError(shared.ReasonWorkerNotFound, "worker %q does not exist", workerID)
	}
	if role := s.roleFor(field); worker.JobClassification != role {
		return shared.NewRejectionError(shared.ReasonRoleMismatch,
			"worker %s is a %s, field %s requires a %s", workerID, worker.JobClassification, fieldID, role)
	}

	tag := mining.AssignmentTag(field.ID())
	if err := s.workers.SetAssignment(workerID, tag); err != nil {
		return shared.NewRejectionError(shared.ReasonWorkerNotFound, "worker %q does not exist", workerID)
	}

	for _, other := range s.fields {
		if i := other.SlotOf(workerID); i >= 0 && (other != field || i != slotIndex) {
			other.ClearSlot(i)
		}
	}
	if occupant, occupied := field.Slot(slotIndex); occupied && occupant != workerID {
		field.Evict(slotIndex, s.workers)
	}
	return field.SetSlot(slotIndex, workerID)
}

// RemoveWorker clears a slot and the occupant's assignment tag.
// Returns the removed worker id, or "" when the slot was already empty.
func (s *Simulation) RemoveWorker(fieldID string, slotIndex int) (string, error) {
	field, err := s.field(fieldID)
	if err != nil {
		return "", err
	}
	if slotIndex < 0 || slotIndex >= catalog.SlotCount {
		return "", shared.NewRejectionError(shared.ReasonInvalidSlot, "slot %d is out of range (0-%d)", slotIndex, catalog.SlotCount-1)
	}
	workerID, _ := field.Evict(slotIndex, s.workers)
	return workerID, nil
}

// Dispatch sends an idle transport unit to a field. Returns the unit id.
func (s *Simulation) Dispatch(fieldID string) (string, error) {
	field, err := s.field(fieldID)
	if err != nil {
		return "", err
	}
	return s.fleet.Dispatch(field, s.store)
}

// Collect unloads every Ready unit into the central store
func (s *Simulation) Collect() fleet.CollectReport {
	return s.fleet.Collect(s.store)
}

func (s *Simulation) lookupSite(fieldID string) (fleet.Site, bool) {
	field, ok := s.fieldsByID[fieldID]
	if !ok {
		return nil, false
	}
	return field, true
}
