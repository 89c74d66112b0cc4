package setup

import (
	"reflect"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	engine  *world.Engine
	journal *world.Journal
	// Optional persistence dependencies
	stateRepo   world.StateRepository
	archive     world.SnapshotArchive
	eventReader world.EventReader
}

// NewHandlerRegistry creates a new handler registry. Only engine is required;
// handlers whose dependencies are nil are not registered.
func NewHandlerRegistry(
	engine *world.Engine,
	journal *world.Journal,
	stateRepo world.StateRepository,
	archive world.SnapshotArchive,
	eventReader world.EventReader,
) *HandlerRegistry {
	return &HandlerRegistry{
		engine:      engine,
		journal:     journal,
		stateRepo:   stateRepo,
		archive:     archive,
		eventReader: eventReader,
	}
}

func register(m mediator.Mediator, requests map[mediator.Request]mediator.RequestHandler) error {
	for request, handler := range requests {
		if err := m.Register(reflect.TypeOf(request), handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSimulationHandlers registers the production and transport handlers
//
// This method registers:
//   - AssignWorkerCommand, RemoveWorkerCommand
//   - DispatchUnitCommand, CollectCommand, AdvanceTickCommand
//   - GetStatusQuery, GetFieldQuery
func (r *HandlerRegistry) RegisterSimulationHandlers(m mediator.Mediator) error {
	return register(m, map[mediator.Request]mediator.RequestHandler{
		&commands.AssignWorkerCommand{}: commands.NewAssignWorkerHandler(r.engine),
		&commands.RemoveWorkerCommand{}: commands.NewRemoveWorkerHandler(r.engine),
		&commands.DispatchUnitCommand{}: commands.NewDispatchUnitHandler(r.engine, r.journal),
		&commands.CollectCommand{}:      commands.NewCollectHandler(r.engine, r.journal),
		&commands.AdvanceTickCommand{}:  commands.NewAdvanceTickHandler(r.engine),
		&queries.GetStatusQuery{}:       queries.NewGetStatusHandler(r.engine),
		&queries.GetFieldQuery{}:        queries.NewGetFieldHandler(r.engine),
	})
}

// RegisterWorkforceHandlers registers the hooks used by the worker and
// progression subsystems
func (r *HandlerRegistry) RegisterWorkforceHandlers(m mediator.Mediator) error {
	return register(m, map[mediator.Request]mediator.RequestHandler{
		&commands.HireWorkerCommand{}:            commands.NewHireWorkerHandler(r.engine),
		&commands.DismissWorkerCommand{}:         commands.NewDismissWorkerHandler(r.engine),
		&commands.UpdateWorkerConditionCommand{}: commands.NewUpdateWorkerConditionHandler(r.engine),
		&commands.SetLevelCommand{}:              commands.NewSetLevelHandler(r.engine),
		&queries.ListWorkersQuery{}:              queries.NewListWorkersHandler(r.engine),
	})
}

// RegisterPersistenceHandlers registers save/load, snapshot files and the
// event log, each only when its dependency is available
func (r *HandlerRegistry) RegisterPersistenceHandlers(m mediator.Mediator) error {
	requests := map[mediator.Request]mediator.RequestHandler{}
	if r.stateRepo != nil {
		requests[&commands.SaveStateCommand{}] = commands.NewSaveStateHandler(r.engine, r.stateRepo)
		requests[&commands.LoadStateCommand{}] = commands.NewLoadStateHandler(r.engine, r.stateRepo, r.journal)
	}
	if r.archive != nil {
		requests[&commands.ExportSnapshotCommand{}] = commands.NewExportSnapshotHandler(r.engine, r.archive)
		requests[&commands.ImportSnapshotCommand{}] = commands.NewImportSnapshotHandler(r.engine, r.archive, r.journal)
	}
	if r.eventReader != nil {
		requests[&queries.ListEventsQuery{}] = queries.NewListEventsHandler(r.eventReader)
	}
	return register(m, requests)
}

// CreateConfiguredMediator creates a mediator with the correlation middleware,
// any extra middlewares, and every handler whose dependencies are available
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()

	m.RegisterMiddleware(logging.CorrelationMiddleware())
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterSimulationHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterWorkforceHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterPersistenceHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
