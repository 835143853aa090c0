package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	// Act
	out := runCLI(t, "classify", "iron-gear-wheel")

	// Assert
	assert.Contains(t, out, "iron-gear-wheel")
	assert.Contains(t, out, "CRAFTABLE")
}

func TestClassifyCommand_UnknownRecipe(t *testing.T) {
	// Arrange
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"classify", "warp-drive"})

	// Act
	err := root.Execute()

	// Assert
	assert.ErrorContains(t, err, "unknown recipe")
}

func TestPlanCommand_ExecutesCraft(t *testing.T) {
	// Act
	out := runCLI(t, "plan", "wooden-chest", "--stock", "wood=4", "--plain", "--execute")

	// Assert
	assert.Contains(t, out, "wooden-chest x1")
	assert.Contains(t, out, "wood need 4, have 4")
	assert.Contains(t, out, "wooden-chest x1 in inventory")
}

func TestPowerCommand(t *testing.T) {
	// Act
	out := runCLI(t, "power", "--place", "solar-panel=2", "--place", "assembling-machine")

	// Assert
	assert.Contains(t, out, "SURPLUS")
	assert.Contains(t, out, "Generation:   120 kW")
	assert.Contains(t, out, "Demand:       75 kW")
}

func TestSimulateCommand_SmeltsIron(t *testing.T) {
	// Act
	out := runCLI(t, "simulate",
		"--place", "stone-furnace:iron-plate",
		"--stock", "coal=5,iron-ore=10",
		"--ticks", "4", "--every", "0")

	// Assert
	assert.Regexp(t, `iron-plate\s+1\n`, out)
	assert.Contains(t, out, "RUNNING")
}

func TestFuelCommand(t *testing.T) {
	// Act
	out := runCLI(t, "fuel", "stone-furnace", "--item", "coal", "--qty", "1")

	// Assert
	assert.Contains(t, out, "Energy:    4 MJ")
	assert.Contains(t, out, "Slots:     1")
}

func TestParsePlacements(t *testing.T) {
	tests := []struct {
		input   string
		want    placement
		wantErr bool
	}{
		{"solar-panel", placement{facilityType: "solar-panel", count: 1}, false},
		{"stone-furnace:iron-plate=3", placement{facilityType: "stone-furnace", recipeID: "iron-plate", count: 3}, false},
		{"lab=0", placement{}, true},
		{":iron-plate", placement{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePlacements([]string{tt.input})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestParseQuantities_SumsRepeats(t *testing.T) {
	// Act
	got, err := parseQuantities([]string{"coal=2", "coal=3", "wood=1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"coal": 5, "wood": 1}, got)
}
