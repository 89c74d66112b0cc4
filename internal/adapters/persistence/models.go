package persistence

import (
	"time"
)

// WorldModel represents the worlds table, one row per save slot
type WorldModel struct {
	Slot    string    `gorm:"column:slot;primaryKey"`
	Version int       `gorm:"column:version;not null"`
	Tick    int64     `gorm:"column:tick;not null;default:0"`
	Level   int       `gorm:"column:level;not null;default:0"`
	SavedAt time.Time `gorm:"column:saved_at;not null"`
}

func (WorldModel) TableName() string {
	return "worlds"
}

// FieldStateModel represents the field_states table
type FieldStateModel struct {
	Slot          string  `gorm:"column:slot;primaryKey"`
	ResourceID    string  `gorm:"column:resource_id;primaryKey"`
	Position      int     `gorm:"column:position;not null"`
	SlotA         string  `gorm:"column:slot_a"`
	SlotB         string  `gorm:"column:slot_b"`
	ReservoirLoad float64 `gorm:"column:reservoir_load;not null;default:0"`
}

func (FieldStateModel) TableName() string {
	return "field_states"
}

// TransportUnitModel represents the transport_units table
type TransportUnitModel struct {
	Slot              string  `gorm:"column:slot;primaryKey"`
	UnitID            string  `gorm:"column:unit_id;primaryKey"`
	Position          int     `gorm:"column:position;not null"`
	State             string  `gorm:"column:state;not null"`
	TargetFieldID     string  `gorm:"column:target_field_id"`
	CurrentLoad       float64 `gorm:"column:current_load;not null;default:0"`
	CarriedResourceID string  `gorm:"column:carried_resource_id"`
	Capacity          float64 `gorm:"column:capacity;not null"`
	TravelTimer       int     `gorm:"column:travel_timer;not null;default:0"`
	TotalTravelTime   int     `gorm:"column:total_travel_time;not null;default:0"`
}

func (TransportUnitModel) TableName() string {
	return "transport_units"
}

// StockEntryModel represents the stock_entries table
type StockEntryModel struct {
	Slot       string  `gorm:"column:slot;primaryKey"`
	ResourceID string  `gorm:"column:resource_id;primaryKey"`
	Amount     float64 `gorm:"column:amount;not null;default:0"`
}

func (StockEntryModel) TableName() string {
	return "stock_entries"
}

// WorkerModel represents the workers table
type WorkerModel struct {
	Slot              string  `gorm:"column:slot;primaryKey"`
	ID                string  `gorm:"column:id;primaryKey"`
	Position          int     `gorm:"column:position;not null"`
	Name              string  `gorm:"column:name"`
	JobClassification string  `gorm:"column:job_classification;not null"`
	Efficiency        float64 `gorm:"column:efficiency;not null;default:0"`
	StrikeDaysOwed    int     `gorm:"column:strike_days_owed;not null;default:0"`
	Injured           bool    `gorm:"column:injured;not null;default:false"`
	AssignmentTag     string  `gorm:"column:assignment_tag"`
}

func (WorkerModel) TableName() string {
	return "workers"
}

// EventModel represents the events table
type EventModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Slot      string    `gorm:"column:slot;not null;uniqueIndex:idx_events_dedup"`
	Tick      int64     `gorm:"column:tick;not null;uniqueIndex:idx_events_dedup"`
	Kind      string    `gorm:"column:kind;not null;uniqueIndex:idx_events_dedup"`
	Subject   string    `gorm:"column:subject;not null;uniqueIndex:idx_events_dedup"`
	Message   string    `gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (EventModel) TableName() string {
	return "events"
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&WorldModel{},
		&FieldStateModel{},
		&TransportUnitModel{},
		&StockEntryModel{},
		&WorkerModel{},
		&EventModel{},
	}
}
