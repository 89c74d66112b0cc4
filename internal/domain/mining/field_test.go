package mining_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/domain/catalog"
	"github.com/andrescamacho/mythic-mines/internal/domain/mining"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

func stoneDescriptor() catalog.ResourceDescriptor {
	return catalog.ResourceDescriptor{
		ID:                "stone",
		Name:              "Stone",
		Hardness:          1,
		SlotUnlockLevel:   [2]int{1, 3},
		ReservoirCapacity: 200,
		RequiredRole:      "miner",
	}
}

func setupField(t *testing.T, workers ...workforce.Worker) (*mining.Field, *workforce.Registry) {
	t.Helper()
	field, err := mining.NewField(stoneDescriptor(), 0)
	require.NoError(t, err)
	registry, err := workforce.NewRegistry(workers...)
	require.NoError(t, err)
	return field, registry
}

func assign(t *testing.T, field *mining.Field, registry *workforce.Registry, slot int, workerID string) {
	t.Helper()
	require.NoError(t, field.SetSlot(slot, workerID))
	require.NoError(t, registry.SetAssignment(workerID, mining.AssignmentTag(field.ID())))
}

func TestProduce_SingleWorkerReachesCapacity(t *testing.T) {
	// Arrange
	field, registry := setupField(t, workforce.Worker{ID: "w1", JobClassification: "miner", Efficiency: 100})
	assign(t, field, registry, 0, "w1")

	// Act
	first := field.Produce(1, registry)

	// Assert
	assert.Equal(t, 10.0, first.Produced)
	assert.Equal(t, 10.0, field.ReservoirLoad())

	for i := 0; i < 19; i++ {
		field.Produce(1, registry)
	}
	assert.Equal(t, 200.0, field.ReservoirLoad())

	last := field.Produce(1, registry)
	assert.True(t, last.Skipped)
	assert.Equal(t, 200.0, field.ReservoirLoad())
}

func TestProduce_DividesByHardness(t *testing.T) {
	descriptor := stoneDescriptor()
	descriptor.Hardness = 4
	field, err := mining.NewField(descriptor, 2)
	require.NoError(t, err)
	registry, err := workforce.NewRegistry(
		workforce.Worker{ID: "a", JobClassification: "miner", Efficiency: 80},
		workforce.Worker{ID: "b", JobClassification: "miner", Efficiency: 40},
	)
	require.NoError(t, err)
	assign(t, field, registry, 0, "a")
	assign(t, field, registry, 1, "b")

	result := field.Produce(5, registry)

	// (80/10)/4 + (40/10)/4
	assert.InDelta(t, 3.0, result.Produced, 1e-9)
}

func TestProduce_GatesSlotByProgressionLevel(t *testing.T) {
	field, registry := setupField(t, workforce.Worker{ID: "w2", JobClassification: "miner", Efficiency: 100})
	assign(t, field, registry, 1, "w2")

	result := field.Produce(2, registry)

	assert.Zero(t, result.Produced)
	assert.Equal(t, []int{1}, result.Gated)
	id, occupied := field.Slot(1)
	assert.True(t, occupied, "gated worker stays assigned")
	assert.Equal(t, "w2", id)

	result = field.Produce(3, registry)
	assert.Equal(t, 10.0, result.Produced)
}

func TestProduce_EvictsStrikingWorker(t *testing.T) {
	// Arrange
	field, registry := setupField(t, workforce.Worker{ID: "w1", JobClassification: "miner", Efficiency: 100, StrikeDaysOwed: 2})
	assign(t, field, registry, 0, "w1")

	// Act
	result := field.Produce(1, registry)

	// Assert
	assert.Zero(t, result.Produced)
	assert.Equal(t, []string{"w1"}, result.Evicted)
	_, occupied := field.Slot(0)
	assert.False(t, occupied)
	w, _ := registry.Get("w1")
	assert.Empty(t, w.AssignmentTag)
}

func TestProduce_EvictsInjuredAndUnknownWorkers(t *testing.T) {
	field, registry := setupField(t, workforce.Worker{ID: "hurt", JobClassification: "miner", Efficiency: 50, Injured: true})
	assign(t, field, registry, 0, "hurt")
	require.NoError(t, field.SetSlot(1, "ghost"))

	result := field.Produce(9, registry)

	assert.ElementsMatch(t, []string{"hurt", "ghost"}, result.Evicted)
	assert.Equal(t, [2]string{"", ""}, field.Slots())
}

func TestProduce_FullFieldSkipsEviction(t *testing.T) {
	field, registry := setupField(t, workforce.Worker{ID: "w1", JobClassification: "miner", Efficiency: 100, Injured: true})
	assign(t, field, registry, 0, "w1")
	field.RestoreState(field.Slots(), 200)

	result := field.Produce(1, registry)

	assert.True(t, result.Skipped)
	assert.Empty(t, result.Evicted)
}

func TestEvict_EmptySlotIsNoop(t *testing.T) {
	field, registry := setupField(t, workforce.Worker{ID: "w1", JobClassification: "miner", Efficiency: 100})
	require.NoError(t, registry.SetAssignment("w1", "hospital"))

	_, evicted := field.Evict(0, registry)
	assert.False(t, evicted)

	w, _ := registry.Get("w1")
	assert.Equal(t, "hospital", w.AssignmentTag, "no worker may be touched")
}

func TestEvict_LeavesForeignTagAlone(t *testing.T) {
	field, registry := setupField(t, workforce.Worker{ID: "w1", JobClassification: "miner", Efficiency: 100})
	require.NoError(t, field.SetSlot(0, "w1"))
	require.NoError(t, registry.SetAssignment("w1", "alchemy"))

	id, evicted := field.Evict(0, registry)

	assert.True(t, evicted)
	assert.Equal(t, "w1", id)
	w, _ := registry.Get("w1")
	assert.Equal(t, "alchemy", w.AssignmentTag)
}

func TestReservoir_SelfHealsCorruptValues(t *testing.T) {
	field, _ := setupField(t)

	assert.True(t, field.RestoreState([2]string{}, math.NaN()))
	assert.Equal(t, 0.0, field.ReservoirLoad())

	assert.True(t, field.RestoreState([2]string{}, 999))
	assert.Equal(t, 200.0, field.ReservoirLoad())

	assert.False(t, field.RestoreState([2]string{}, 50))
}

func TestWithdraw_BoundedByReservoir(t *testing.T) {
	field, _ := setupField(t)
	field.RestoreState([2]string{}, 25)

	assert.Equal(t, 25.0, field.Withdraw(40))
	assert.Equal(t, 0.0, field.ReservoirLoad())
	assert.Equal(t, 0.0, field.Withdraw(10))
	assert.Equal(t, 0.0, field.Withdraw(-5))
}

func TestSetSlot_RejectsOutOfRange(t *testing.T) {
	field, _ := setupField(t)

	err := field.SetSlot(2, "w1")

	assert.True(t, shared.IsRejection(err, shared.ReasonInvalidSlot))
	assert.Equal(t, -1, field.SlotOf("w1"))
}
