package setup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/setup"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

func newMediator(t *testing.T) mediator.Mediator {
	t.Helper()
	w, err := world.NewWorld(world.Settings{
		Fleet:    fleet.DefaultConfig(),
		Capacity: storage.FlatCapacity(1000),
		Level:    2,
	})
	require.NoError(t, err)
	engine, err := world.NewEngine(w)
	require.NoError(t, err)

	m, err := setup.NewHandlerRegistry(engine, world.NewJournal(nil), nil, nil, nil).CreateConfiguredMediator()
	require.NoError(t, err)
	return m
}

func send[T any](t *testing.T, m mediator.Mediator, request mediator.Request) T {
	t.Helper()
	resp, err := m.Send(context.Background(), request)
	require.NoError(t, err)
	typed, ok := resp.(T)
	require.True(t, ok, "unexpected response type %T", resp)
	return typed
}

func TestMediator_ProductionAndTransportCycle(t *testing.T) {
	m := newMediator(t)

	hired := send[*commands.WorkerResponse](t, m, &commands.HireWorkerCommand{
		Name: "Durin", JobClassification: "miner", Efficiency: 100,
	})
	workerID := hired.Worker.ID
	assert.Regexp(t, `^durin-[0-9a-f]{8}$`, workerID)

	send[*commands.AssignWorkerResponse](t, m, &commands.AssignWorkerCommand{FieldID: "stone", Slot: 0, WorkerID: workerID})

	ticked := send[*commands.AdvanceTickResponse](t, m, &commands.AdvanceTickCommand{Count: 5})
	assert.Equal(t, int64(5), ticked.CurrentTick)
	assert.Len(t, ticked.Reports, 5)

	field := send[*simulation.FieldView](t, m, &queries.GetFieldQuery{FieldID: "stone"})
	assert.InDelta(t, 50.0, field.ReservoirLoad, 1e-9)

	dispatched := send[*commands.DispatchUnitResponse](t, m, &commands.DispatchUnitCommand{FieldID: "stone"})
	assert.Equal(t, "unit-1", dispatched.UnitID)

	// stone is depth 0: 10 ticks down, three load steps, 10 ticks up
	send[*commands.AdvanceTickResponse](t, m, &commands.AdvanceTickCommand{Count: 30})

	collected := send[*commands.CollectResponse](t, m, &commands.CollectCommand{})
	require.Len(t, collected.Deliveries, 1)
	assert.InDelta(t, 100.0, collected.TotalDelivered, 1e-9)

	status := send[*queries.GetStatusResponse](t, m, &queries.GetStatusQuery{})
	assert.Equal(t, int64(35), status.Tick)
	assert.Equal(t, 2, status.Level)
	assert.Equal(t, "stone", status.Stock[0].ResourceID)
	assert.InDelta(t, collected.TotalDelivered, status.Stock[0].Stock, 1e-9)
}

func TestMediator_RejectionsKeepTheirReason(t *testing.T) {
	m := newMediator(t)

	_, err := m.Send(context.Background(), &commands.DispatchUnitCommand{FieldID: "stone"})
	assert.True(t, shared.IsRejection(err, shared.ReasonReservoirEmpty))

	_, err = m.Send(context.Background(), &commands.AssignWorkerCommand{FieldID: "ston", Slot: 0, WorkerID: "x"})
	assert.True(t, shared.IsRejection(err, shared.ReasonFieldNotFound))
	assert.Contains(t, err.Error(), "stone")
}

func TestMediator_WorkerConditionEvictsOnNextTick(t *testing.T) {
	m := newMediator(t)
	hired := send[*commands.WorkerResponse](t, m, &commands.HireWorkerCommand{Name: "Nori", JobClassification: "miner", Efficiency: 50})
	send[*commands.AssignWorkerResponse](t, m, &commands.AssignWorkerCommand{FieldID: "copper", Slot: 0, WorkerID: hired.Worker.ID})

	strike := 2
	updated := send[*commands.WorkerResponse](t, m, &commands.UpdateWorkerConditionCommand{WorkerID: hired.Worker.ID, StrikeDaysOwed: &strike})
	assert.False(t, updated.Worker.Eligible())

	ticked := send[*commands.AdvanceTickResponse](t, m, &commands.AdvanceTickCommand{})
	require.Len(t, ticked.Reports[0].Evictions, 1)

	idle := send[*queries.ListWorkersResponse](t, m, &queries.ListWorkersQuery{OnlyIdle: true})
	require.Len(t, idle.Workers, 1)
	assert.Empty(t, idle.Workers[0].AssignmentTag)
}

func TestMediator_PersistenceHandlersNeedDependencies(t *testing.T) {
	m := newMediator(t)

	_, err := m.Send(context.Background(), &commands.SaveStateCommand{})
	assert.ErrorContains(t, err, "no handler registered")
}

func TestMediator_AdvanceTickBounds(t *testing.T) {
	m := newMediator(t)

	_, err := m.Send(context.Background(), &commands.AdvanceTickCommand{Count: -1})
	assert.Error(t, err)
	_, err = m.Send(context.Background(), &commands.AdvanceTickCommand{Count: commands.MaxTicksPerCommand + 1})
	assert.Error(t, err)
}
