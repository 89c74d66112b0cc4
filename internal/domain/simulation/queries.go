package simulation

import (
	"sort"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/mining"
)

// FieldView is the display form of a field
type FieldView struct {
	ResourceID      string
	Name            string
	DepthIndex      int
	Hardness        float64
	ReservoirLoad   float64
	Capacity        float64
	Slots           [catalog.SlotCount]string
	SlotUnlockLevel [catalog.SlotCount]int
	RequiredRole    string
	TargetedBy      string
}

func (s *Simulation) viewOf(field *mining.Field) FieldView {
	d := field.Descriptor()
	view := FieldView{
		ResourceID:      d.ID,
		Name:            d.Name,
		DepthIndex:      field.DepthIndex(),
		Hardness:        d.Hardness,
		ReservoirLoad:   field.ReservoirLoad(),
		Capacity:        field.Capacity(),
		Slots:           field.Slots(),
		SlotUnlockLevel: d.SlotUnlockLevel,
		RequiredRole:    s.roleFor(field),
	}
	if unit, ok := s.fleet.TargetingUnit(field.ID()); ok {
		view.TargetedBy = unit.ID()
	}
	return view
}

// Fields returns every field in depth order
func (s *Simulation) Fields() []FieldView {
	views := make([]FieldView, 0, len(s.fields))
	for _, field := range s.fields {
		views = append(views, s.viewOf(field))
	}
	return views
}

// Field returns one field by id
func (s *Simulation) Field(fieldID string) (FieldView, error) {
	field, err := s.field(fieldID)
	if err != nil {
		return FieldView{}, err
	}
	return s.viewOf(field), nil
}

// Units returns every transport unit in pool order
func (s *Simulation) Units() []fleet.UnitRecord {
	return s.fleet.Units()
}

// AssignedWorkerIDs returns the ids of all workers occupying a slot, sorted
func (s *Simulation) AssignedWorkerIDs() []string {
	var ids []string
	for _, field := range s.fields {
		for _, id := range field.Slots() {
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}
