package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
)

// ExportSnapshotCommand - Command to write the world to a portable file
type ExportSnapshotCommand struct {
	Path string
}

// ExportSnapshotResponse - Response from export snapshot command
type ExportSnapshotResponse struct {
	Path string
	Tick int64
}

// ImportSnapshotCommand - Command to replace the world with a portable file
type ImportSnapshotCommand struct {
	Path string
}

// ExportSnapshotHandler - Handles export snapshot commands
type ExportSnapshotHandler struct {
	engine  *world.Engine
	archive world.SnapshotArchive
}

// NewExportSnapshotHandler creates a new export snapshot handler
func NewExportSnapshotHandler(engine *world.Engine, archive world.SnapshotArchive) *ExportSnapshotHandler {
	return &ExportSnapshotHandler{engine: engine, archive: archive}
}

// Handle executes the export snapshot command
func (h *ExportSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExportSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Path == "" {
		return nil, shared.NewValidationError("path", "is required")
	}

	state := h.engine.Capture()
	if err := h.archive.Write(cmd.Path, state); err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo,
		fmt.Sprintf("Snapshot exported to %s at tick %d", cmd.Path, state.Snapshot.Tick), nil)

	return &ExportSnapshotResponse{Path: cmd.Path, Tick: state.Snapshot.Tick}, nil
}

// ImportSnapshotHandler - Handles import snapshot commands
type ImportSnapshotHandler struct {
	engine  *world.Engine
	archive world.SnapshotArchive
	journal *world.Journal
}

// NewImportSnapshotHandler creates a new import snapshot handler
func NewImportSnapshotHandler(engine *world.Engine, archive world.SnapshotArchive, journal *world.Journal) *ImportSnapshotHandler {
	return &ImportSnapshotHandler{engine: engine, archive: archive, journal: journal}
}

// Handle executes the import snapshot command
func (h *ImportSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportSnapshotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Path == "" {
		return nil, shared.NewValidationError("path", "is required")
	}

	state, err := h.archive.Read(cmd.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to import snapshot: %w", err)
	}

	response, err := applyState(ctx, h.engine, h.journal, state, cmd.Path)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// applyState restores a world state and reports what the merge changed
func applyState(ctx context.Context, engine *world.Engine, journal *world.Journal, state *world.WorldState, source string) (*LoadStateResponse, error) {
	report, err := engine.Apply(state)
	if err != nil {
		return nil, err
	}

	tick := engine.CurrentTick()
	msg := fmt.Sprintf("World restored from %s at tick %d", source, tick)
	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, msg, map[string]interface{}{
		"ignored_fields":   report.IgnoredFields,
		"defaulted_fields": report.DefaultedFields,
		"released_workers": report.ReleasedWorkers,
		"repairs":          report.Repairs,
	})
	journal.Record(ctx, world.Event{Tick: tick, Kind: world.EventRestore, Subject: source, Message: msg})

	return &LoadStateResponse{Tick: tick, Report: report}, nil
}
