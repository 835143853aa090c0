package facility_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/domain/facility"
)

func TestFuelBuffer_BurnKeepsSlotQuantitiesInStep(t *testing.T) {
	// Arrange
	buf := facility.NewFuelBuffer(2, 100, 10, nil)
	require.NoError(t, buf.Load("coal", 3, 20))

	// Act
	drawn := buf.Burn(25)

	// Assert
	assert.InDelta(t, 25.0, drawn, 1e-9)
	head, ok := buf.HeadSlot()
	require.True(t, ok)
	assert.Equal(t, 2, head.Quantity)
	assert.InDelta(t, 35.0, head.RemainingEnergy, 1e-9)
	assert.InDelta(t, 0.25, head.BurnProgress(), 1e-9)
}

func TestFuelBuffer_CloneIsIndependent(t *testing.T) {
	buf := facility.NewFuelBuffer(1, 100, 10, []string{"chemical"})
	require.NoError(t, buf.Load("coal", 2, 20))

	clone := buf.Clone()
	clone.Burn(40)

	assert.Equal(t, 40.0, buf.TotalEnergy())
	assert.True(t, clone.IsEmpty())
	assert.True(t, buf.Accepts("chemical"))
	assert.False(t, buf.Accepts("nuclear"))
}

func TestRestoreFuelBuffer(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("recomputes totals and quantities from slot energy", func(t *testing.T) {
		buf, err := facility.RestoreFuelBuffer(2, 100, 10, nil, []facility.FuelSlot{
			{ItemID: "coal", Quantity: 99, RemainingEnergy: 30, EnergyPerUnit: 20},
			{ItemID: "wood", Quantity: 1, RemainingEnergy: 0, EnergyPerUnit: 5},
		}, now)

		require.NoError(t, err)
		assert.Equal(t, 30.0, buf.TotalEnergy())
		assert.Len(t, buf.Slots(), 1)
		assert.Equal(t, 2, buf.Slots()[0].Quantity)
		assert.Equal(t, now, buf.LastUpdate())
	})

	t.Run("rejects energy above capacity", func(t *testing.T) {
		_, err := facility.RestoreFuelBuffer(1, 10, 1, nil, []facility.FuelSlot{
			{ItemID: "coal", RemainingEnergy: 30, EnergyPerUnit: 20},
		}, now)

		var invalid *facility.ErrInvalidFuelSlot
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("rejects more slots than allowed", func(t *testing.T) {
		_, err := facility.RestoreFuelBuffer(1, 100, 1, nil, []facility.FuelSlot{
			{ItemID: "coal", RemainingEnergy: 20, EnergyPerUnit: 20},
			{ItemID: "wood", RemainingEnergy: 5, EnergyPerUnit: 5},
		}, now)

		assert.Error(t, err)
	})
}

func TestFacility_CloneAndLifecycle(t *testing.T) {
	f := facility.New("a-1", "assembler", 0)
	f.SetRecipe("gear")
	f.Fuel = facility.NewFuelBuffer(1, 10, 1, nil)

	clone := f.Clone()
	clone.Production.Progress = 0.7
	clone.Stop()

	assert.Equal(t, 1, f.Count)
	assert.Equal(t, 0.0, f.Production.Progress)
	assert.Equal(t, facility.StatusRunning, f.Status)
	assert.NotSame(t, f.Fuel, clone.Fuel)
	assert.True(t, clone.IsStopped())

	clone.Start()
	assert.Equal(t, facility.StatusRunning, clone.Status)

	clone.SetRecipe("")
	assert.False(t, clone.HasRecipe())
}
