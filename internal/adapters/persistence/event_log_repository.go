package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
)

// GormEventLogRepository implements world.EventRecorder and world.EventReader.
// Duplicate (tick, kind, subject) entries are dropped by a unique index.
type GormEventLogRepository struct {
	db    *gorm.DB
	slot  string
	clock shared.Clock
}

// NewGormEventLogRepository creates a new event log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormEventLogRepository(db *gorm.DB, slot string, clock shared.Clock) *GormEventLogRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormEventLogRepository{db: db, slot: slot, clock: clock}
}

// Record writes an event unless the same event was already recorded
func (r *GormEventLogRepository) Record(ctx context.Context, event world.Event) error {
	model := &EventModel{
		Slot:      r.slot,
		Tick:      event.Tick,
		Kind:      event.Kind,
		Subject:   event.Subject,
		Message:   event.Message,
		CreatedAt: r.clock.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first
func (r *GormEventLogRepository) Recent(ctx context.Context, limit int) ([]world.Event, error) {
	var models []EventModel

	err := r.db.WithContext(ctx).
		Where("slot = ?", r.slot).
		Order("tick DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]world.Event, len(models))
	for i, model := range models {
		events[i] = world.Event{
			Tick:    model.Tick,
			Kind:    model.Kind,
			Subject: model.Subject,
			Message: model.Message,
		}
	}
	return events, nil
}
