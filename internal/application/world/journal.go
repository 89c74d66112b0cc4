package world

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// Journal turns tick reports into log lines and event log entries
type Journal struct {
	recorder EventRecorder
}

// NewJournal creates a journal; recorder may be nil to only log
func NewJournal(recorder EventRecorder) *Journal {
	return &Journal{recorder: recorder}
}

// OnTick logs evictions and unit arrivals, and records them as events
func (j *Journal) OnTick(ctx context.Context, report simulation.TickReport) {
	logger := logging.LoggerFromContext(ctx)

	for _, ev := range report.Evictions {
		msg := fmt.Sprintf("Worker %s evicted from %s", ev.WorkerID, ev.FieldID)
		logger.Log(logging.LevelInfo, msg, map[string]interface{}{"tick": report.Tick})
		j.Record(ctx, Event{Tick: report.Tick, Kind: EventEviction, Subject: ev.WorkerID, Message: msg})
	}

	for _, tr := range report.Transitions {
		if tr.To != fleet.UnitStateReady {
			continue
		}
		msg := fmt.Sprintf("Unit %s ready at surface with cargo from %s", tr.UnitID, tr.FieldID)
		logger.Log(logging.LevelInfo, msg, map[string]interface{}{"tick": report.Tick})
		j.Record(ctx, Event{Tick: report.Tick, Kind: EventArrival, Subject: tr.UnitID, Message: msg})
	}

	logger.Log(logging.LevelDebug, "Tick complete", map[string]interface{}{
		"tick":        report.Tick,
		"level":       report.Level,
		"produced":    report.TotalProduced(),
		"transitions": len(report.Transitions),
	})
}

// Record stores an event, logging instead of failing when the store errors
func (j *Journal) Record(ctx context.Context, event Event) {
	if j == nil || j.recorder == nil {
		return
	}
	if err := j.recorder.Record(ctx, event); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, fmt.Sprintf("Failed to record %s event: %v", event.Kind, err), nil)
	}
}
