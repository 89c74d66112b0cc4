package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

func newMiner(t *testing.T, id string, efficiency float64) workforce.Worker {
	t.Helper()
	w, err := workforce.NewWorker(id, "Miner "+id, "miner", efficiency)
	require.NoError(t, err)
	return w
}

func TestNewWorker_Validation(t *testing.T) {
	_, err := workforce.NewWorker("", "x", "miner", 10)
	assert.Error(t, err)

	_, err = workforce.NewWorker("w1", "x", "", 10)
	assert.Error(t, err)

	_, err = workforce.NewWorker("w1", "x", "miner", -1)
	assert.Error(t, err)
}

func TestWorker_Eligible(t *testing.T) {
	w := workforce.Worker{ID: "w1", Efficiency: 50}
	assert.True(t, w.Eligible())

	w.StrikeDaysOwed = 2
	assert.False(t, w.Eligible())

	w.StrikeDaysOwed = 0
	w.Injured = true
	assert.False(t, w.Eligible())
}

func TestRegistry_AddRejectsDuplicates(t *testing.T) {
	registry, err := workforce.NewRegistry(newMiner(t, "w1", 50))
	require.NoError(t, err)

	err = registry.Add(newMiner(t, "w1", 80))
	assert.Error(t, err)
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	registry, err := workforce.NewRegistry(newMiner(t, "w1", 50))
	require.NoError(t, err)

	w, ok := registry.Get("w1")
	require.True(t, ok)
	w.AssignmentTag = "tampered"

	stored, _ := registry.Get("w1")
	assert.Empty(t, stored.AssignmentTag)
}

func TestRegistry_AssignmentLifecycle(t *testing.T) {
	// Arrange
	registry, err := workforce.NewRegistry(newMiner(t, "w1", 50))
	require.NoError(t, err)

	// Act
	require.NoError(t, registry.SetAssignment("w1", "mining:stone"))

	// Assert
	w, _ := registry.Get("w1")
	assert.Equal(t, "mining:stone", w.AssignmentTag)
	assert.True(t, w.IsAssigned())

	assert.True(t, registry.ClearAssignment("w1"))
	assert.False(t, registry.ClearAssignment("w1"), "second clear is a no-op")
	assert.False(t, registry.ClearAssignment("ghost"))

	var notFound *workforce.ErrWorkerNotFound
	assert.ErrorAs(t, registry.SetAssignment("ghost", "x"), &notFound)
}

func TestRegistry_ConditionHooks(t *testing.T) {
	registry, err := workforce.NewRegistry(newMiner(t, "w1", 50))
	require.NoError(t, err)

	require.NoError(t, registry.SetStrikeDays("w1", 3))
	require.NoError(t, registry.SetInjured("w1", true))
	assert.Error(t, registry.SetStrikeDays("w1", -1))

	w, _ := registry.Get("w1")
	assert.Equal(t, 3, w.StrikeDaysOwed)
	assert.True(t, w.Injured)
	assert.False(t, w.Eligible())
}

func TestRegistry_RemoveKeepsOrder(t *testing.T) {
	registry, err := workforce.NewRegistry(newMiner(t, "a", 1), newMiner(t, "b", 2), newMiner(t, "c", 3))
	require.NoError(t, err)

	assert.True(t, registry.Remove("b"))
	assert.False(t, registry.Remove("b"))

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[1].ID)
}

func TestRegistry_ReplaceDropsDuplicates(t *testing.T) {
	registry, err := workforce.NewRegistry(newMiner(t, "old", 1))
	require.NoError(t, err)

	first := newMiner(t, "a", 1)
	second := newMiner(t, "a", 9)
	dropped := registry.Replace([]workforce.Worker{first, second, newMiner(t, "b", 2)})

	assert.Equal(t, 1, dropped)
	_, ok := registry.Get("old")
	assert.False(t, ok)
	a, _ := registry.Get("a")
	assert.Equal(t, 1.0, a.Efficiency)
	assert.Len(t, registry.All(), 2)
}
