package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// DefaultSlot is the save slot used when none is configured
const DefaultSlot = "default"

// GormWorldRepository implements world.StateRepository using GORM.
// A save replaces every row of the slot inside one transaction.
type GormWorldRepository struct {
	db   *gorm.DB
	slot string
}

// NewGormWorldRepository creates a new world repository for a save slot
func NewGormWorldRepository(db *gorm.DB, slot string) *GormWorldRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	return &GormWorldRepository{db: db, slot: slot}
}

// Save persists the world state, replacing the previous save of the slot
func (r *GormWorldRepository) Save(ctx context.Context, state *world.WorldState) error {
	if state == nil {
		return fmt.Errorf("world state is nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&FieldStateModel{}, &TransportUnitModel{}, &StockEntryModel{}, &WorkerModel{}} {
			if err := tx.Where("slot = ?", r.slot).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear previous save: %w", err)
			}
		}

		worldModel := &WorldModel{
			Slot:    r.slot,
			Version: state.Snapshot.Version,
			Tick:    state.Snapshot.Tick,
			Level:   state.Level,
			SavedAt: state.SavedAt,
		}
		if err := tx.Save(worldModel).Error; err != nil {
			return fmt.Errorf("failed to save world: %w", err)
		}

		if fields := r.fieldModels(state.Snapshot.Fields); len(fields) > 0 {
			if err := tx.Create(&fields).Error; err != nil {
				return fmt.Errorf("failed to save fields: %w", err)
			}
		}
		if units := r.unitModels(state.Snapshot.Units); len(units) > 0 {
			if err := tx.Create(&units).Error; err != nil {
				return fmt.Errorf("failed to save transport units: %w", err)
			}
		}
		if stock := r.stockModels(state.Stock); len(stock) > 0 {
			if err := tx.Create(&stock).Error; err != nil {
				return fmt.Errorf("failed to save stock: %w", err)
			}
		}
		if workers := r.workerModels(state.Workers); len(workers) > 0 {
			if err := tx.Create(&workers).Error; err != nil {
				return fmt.Errorf("failed to save workers: %w", err)
			}
		}
		return nil
	})
}

// Load reads the slot's last save. Returns world.ErrNoSavedState if the slot is empty.
func (r *GormWorldRepository) Load(ctx context.Context) (*world.WorldState, error) {
	db := r.db.WithContext(ctx)

	var worldModel WorldModel
	if err := db.Where("slot = ?", r.slot).First(&worldModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, world.ErrNoSavedState
		}
		return nil, fmt.Errorf("failed to load world: %w", err)
	}

	var fields []FieldStateModel
	if err := db.Where("slot = ?", r.slot).Order("position").Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}
	var units []TransportUnitModel
	if err := db.Where("slot = ?", r.slot).Order("position").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load transport units: %w", err)
	}
	var stock []StockEntryModel
	if err := db.Where("slot = ?", r.slot).Find(&stock).Error; err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	var workers []WorkerModel
	if err := db.Where("slot = ?", r.slot).Order("position").Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}

	state := &world.WorldState{
		Snapshot: simulation.Snapshot{
			Version: worldModel.Version,
			Tick:    worldModel.Tick,
			Fields:  make([]simulation.FieldState, 0, len(fields)),
			Units:   make([]fleet.UnitRecord, 0, len(units)),
		},
		Stock:   make(map[string]float64, len(stock)),
		Level:   worldModel.Level,
		Workers: make([]workforce.Worker, 0, len(workers)),
		SavedAt: worldModel.SavedAt,
	}
	for _, f := range fields {
		state.Snapshot.Fields = append(state.Snapshot.Fields, simulation.FieldState{
			ResourceID:    f.ResourceID,
			Slots:         [2]string{f.SlotA, f.SlotB},
			ReservoirLoad: f.ReservoirLoad,
		})
	}
	for _, u := range units {
		state.Snapshot.Units = append(state.Snapshot.Units, fleet.UnitRecord{
			ID:                u.UnitID,
			State:             fleet.UnitState(u.State),
			TargetFieldID:     u.TargetFieldID,
			CurrentLoad:       u.CurrentLoad,
			CarriedResourceID: u.CarriedResourceID,
			Capacity:          u.Capacity,
			TravelTimer:       u.TravelTimer,
			TotalTravelTime:   u.TotalTravelTime,
		})
	}
	for _, s := range stock {
		state.Stock[s.ResourceID] = s.Amount
	}
	for _, w := range workers {
		state.Workers = append(state.Workers, workforce.Worker{
			ID:                w.ID,
			Name:              w.Name,
			JobClassification: w.JobClassification,
			Efficiency:        w.Efficiency,
			StrikeDaysOwed:    w.StrikeDaysOwed,
			Injured:           w.Injured,
			AssignmentTag:     w.AssignmentTag,
		})
	}

	return state, nil
}

func (r *GormWorldRepository) fieldModels(fields []simulation.FieldState) []FieldStateModel {
	models := make([]FieldStateModel, 0, len(fields))
	for i, f := range fields {
		models = append(models, FieldStateModel{
			Slot:          r.slot,
			ResourceID:    f.ResourceID,
			Position:      i,
			SlotA:         f.Slots[0],
			SlotB:         f.Slots[1],
			ReservoirLoad: f.ReservoirLoad,
		})
	}
	return models
}

func (r *GormWorldRepository) unitModels(units []fleet.UnitRecord) []TransportUnitModel {
	models := make([]TransportUnitModel, 0, len(units))
	for i, u := range units {
		models = append(models, TransportUnitModel{
			Slot:              r.slot,
			UnitID:            u.ID,
			Position:          i,
			State:             string(u.State),
			TargetFieldID:     u.TargetFieldID,
			CurrentLoad:       u.CurrentLoad,
			CarriedResourceID: u.CarriedResourceID,
			Capacity:          u.Capacity,
			TravelTimer:       u.TravelTimer,
			TotalTravelTime:   u.TotalTravelTime,
		})
	}
	return models
}

func (r *GormWorldRepository) stockModels(stock map[string]float64) []StockEntryModel {
	models := make([]StockEntryModel, 0, len(stock))
	for id, amount := range stock {
		models = append(models, StockEntryModel{Slot: r.slot, ResourceID: id, Amount: amount})
	}
	return models
}

func (r *GormWorldRepository) workerModels(workers []workforce.Worker) []WorkerModel {
	models := make([]WorkerModel, 0, len(workers))
	for i, w := range workers {
		models = append(models, WorkerModel{
			Slot:              r.slot,
			ID:                w.ID,
			Position:          i,
			Name:              w.Name,
			JobClassification: w.JobClassification,
			Efficiency:        w.Efficiency,
			StrikeDaysOwed:    w.StrikeDaysOwed,
			Injured:           w.Injured,
			AssignmentTag:     w.AssignmentTag,
		})
	}
	return models
}
