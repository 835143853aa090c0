package crafting_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

func manual(id string, duration float64, out catalog.ItemAmount, in ...catalog.ItemAmount) catalog.Recipe {
	return catalog.Recipe{
		ID:       id,
		Category: "crafting",
		Duration: duration,
		Flags:    catalog.RecipeFlags{Manual: true},
		Inputs:   in,
		Outputs:  []catalog.ItemAmount{out},
	}
}

func amount(item string, qty int) catalog.ItemAmount {
	return catalog.ItemAmount{ItemID: item, Quantity: qty}
}

func newResolver(cat catalog.Catalog, opts crafting.Options) *crafting.Resolver {
	classifier := eligibility.NewClassifier(eligibility.DefaultConfig(), cat)
	return crafting.NewResolver(cat, classifier, opts, shared.NewMockClock(time.Time{}))
}

func stock(quantities map[string]int) *inventory.Snapshot {
	return inventory.NewSnapshot(quantities, nil, 0)
}

// A needs 2 B per unit, B is a raw material.
func simpleCatalog() *catalog.Static {
	return catalog.NewStatic(
		[]catalog.Item{{ID: "A"}, {ID: "B"}},
		[]catalog.Recipe{manual("make-A", 2, amount("A", 1), amount("B", 2))},
		nil,
	)
}

func TestResolve_ShortRawMaterialFailsWholeChain(t *testing.T) {
	// Arrange
	resolver := newResolver(simpleCatalog(), crafting.DefaultOptions())
	inv := stock(map[string]int{"B": 3})

	// Act
	analysis := resolver.Resolve("A", 5, inv)

	// Assert
	assert.Nil(t, analysis)
	assert.Equal(t, 3, inv.Quantity("B"))
}

func TestResolve_SufficientRawMaterialYieldsSingleTask(t *testing.T) {
	// Arrange
	resolver := newResolver(simpleCatalog(), crafting.DefaultOptions())
	inv := stock(map[string]int{"B": 10})

	// Act
	analysis := resolver.Resolve("A", 5, inv)

	// Assert
	require.NotNil(t, analysis)
	require.Len(t, analysis.Tasks, 1)
	assert.Empty(t, analysis.DependencyTasks())
	assert.Same(t, analysis.MainTask, analysis.Tasks[0])
	assert.Equal(t, 5, analysis.MainTask.Quantity())
	assert.Equal(t, 5, analysis.MainTask.CreditQuantity())
	assert.Equal(t, "", analysis.MainTask.PredecessorID())
	assert.Equal(t, map[string]int{"B": 10}, analysis.RawRequirements)
	assert.Equal(t, []inventory.Adjustment{{ItemID: "B", Delta: -10}}, analysis.CommitAdjustments())
	assert.InDelta(t, 10.0, analysis.TotalDuration, 1e-9)

	require.Len(t, analysis.Dependencies, 1)
	dep := analysis.Dependencies[0]
	assert.Equal(t, "B", dep.ItemID)
	assert.Equal(t, 10, dep.Required)
	assert.Equal(t, 0, dep.Shortage)
	assert.True(t, dep.ManualEligible)
	assert.Equal(t, eligibility.CategoryRawMaterial, dep.Category)
}

func TestResolve_RejectsNonPositiveQuantityAndUncraftableItems(t *testing.T) {
	resolver := newResolver(simpleCatalog(), crafting.DefaultOptions())
	inv := stock(map[string]int{"B": 100})

	assert.Nil(t, resolver.Resolve("A", 0, inv))
	assert.Nil(t, resolver.Resolve("A", -1, inv))
	assert.Nil(t, resolver.Resolve("B", 1, inv))
	assert.Nil(t, resolver.Resolve("unknown", 1, inv))
}

// circuit = 1 plate + 3 cable; cable ×2 = 1 copper; plates and copper are raw.
func circuitCatalog() *catalog.Static {
	return catalog.NewStatic(
		[]catalog.Item{{ID: "circuit"}, {ID: "cable"}, {ID: "plate"}, {ID: "copper"}},
		[]catalog.Recipe{
			manual("circuit", 0.5, amount("circuit", 1), amount("plate", 1), amount("cable", 3)),
			manual("cable", 0.5, amount("cable", 2), amount("copper", 1)),
		},
		nil,
	)
}

func TestResolve_ShortIntermediateEmitsDependencyTask(t *testing.T) {
	// Arrange
	resolver := newResolver(circuitCatalog(), crafting.DefaultOptions())
	inv := stock(map[string]int{"plate": 2, "copper": 10, "cable": 1})

	// Act
	analysis := resolver.Resolve("circuit", 2, inv)

	// Assert
	require.NotNil(t, analysis)
	require.Len(t, analysis.Tasks, 2)

	cableTask := analysis.Tasks[0]
	assert.Equal(t, "cable", cableTask.TargetItem())
	assert.Equal(t, 3, cableTask.Quantity())
	assert.Equal(t, 6, cableTask.OutputQuantity())
	assert.Equal(t, 1, cableTask.CreditQuantity())
	assert.Equal(t, cableTask.ID(), analysis.MainTask.PredecessorID())

	assert.Equal(t, map[string]int{"plate": 2, "copper": 3}, analysis.RawRequirements)
	assert.ElementsMatch(t, []inventory.Adjustment{
		{ItemID: "plate", Delta: -2},
		{ItemID: "cable", Delta: -1},
		{ItemID: "copper", Delta: -3},
	}, analysis.CommitAdjustments())
	assert.InDelta(t, 0.5*2+0.5*3, analysis.TotalDuration, 1e-9)

	require.Len(t, analysis.Dependencies, 2)
	assert.Equal(t, 5, analysis.Dependencies[1].Shortage)
	assert.Equal(t, eligibility.CategoryCraftable, analysis.Dependencies[1].Category)
}

func TestResolve_ManualEfficiencyDividesDuration(t *testing.T) {
	// Arrange
	resolver := newResolver(simpleCatalog(), crafting.Options{ManualEfficiency: 2, MaxDepth: 8})

	// Act
	analysis := resolver.Resolve("A", 5, stock(map[string]int{"B": 10}))

	// Assert
	require.NotNil(t, analysis)
	assert.InDelta(t, 5.0, analysis.TotalDuration, 1e-9)
}

func TestResolve_MinedItemsAreUnlimited(t *testing.T) {
	// Arrange
	cat := catalog.NewStatic(
		[]catalog.Item{{ID: "brick"}, {ID: "stone"}},
		[]catalog.Recipe{
			manual("brick", 1, amount("brick", 1), amount("stone", 2)),
			{ID: "mine-stone", Category: "mining", Duration: 1, Flags: catalog.RecipeFlags{Mining: true, Manual: true},
				Outputs: []catalog.ItemAmount{amount("stone", 1)}},
		},
		nil,
	)
	resolver := newResolver(cat, crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("brick", 2, stock(map[string]int{"stone": 1}))

	// Assert
	require.NotNil(t, analysis)
	require.Len(t, analysis.Tasks, 2)
	assert.Equal(t, "mine-stone", analysis.Tasks[0].RecipeID())
	assert.Equal(t, 3, analysis.Tasks[0].Quantity())
	assert.Equal(t, []inventory.Adjustment{{ItemID: "stone", Delta: -1}}, analysis.CommitAdjustments())
	assert.Empty(t, analysis.RawRequirements)
}

func TestBestRecipe_PrefersMiningThenNonRecycling(t *testing.T) {
	// Arrange
	cat := catalog.NewStatic(
		[]catalog.Item{{ID: "iron"}, {ID: "scrap"}, {ID: "gear"}},
		[]catalog.Recipe{
			{ID: "recycle-iron", Category: "crafting", Duration: 1, Flags: catalog.RecipeFlags{Recycling: true},
				Inputs: []catalog.ItemAmount{amount("scrap", 1)}, Outputs: []catalog.ItemAmount{amount("iron", 1)}},
			manual("iron-from-gear", 1, amount("iron", 2), amount("gear", 1)),
			{ID: "mine-iron", Category: "mining", Duration: 1, Flags: catalog.RecipeFlags{Mining: true},
				Outputs: []catalog.ItemAmount{amount("iron", 1)}},
		},
		nil,
	)
	allowRecycling := eligibility.Config{ManualCategories: []string{"crafting", "mining"}, AllowProducerless: true}
	resolver := crafting.NewResolver(cat, eligibility.NewClassifier(allowRecycling, cat), crafting.DefaultOptions(), nil)

	// Act
	best, ok := resolver.BestRecipe("iron")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "mine-iron", best.ID)
}

// countingCatalog counts recipe lookups to prove resolution stays bounded.
type countingCatalog struct {
	*catalog.Static
	lookups int
}

func (c *countingCatalog) RecipesProducing(itemID string) []*catalog.Recipe {
	c.lookups++
	return c.Static.RecipesProducing(itemID)
}

func TestResolve_TerminatesOnCyclicRecipeGraph(t *testing.T) {
	// Arrange: X needs Y, Y needs Z, Z needs X. No natural base case.
	cat := &countingCatalog{Static: catalog.NewStatic(
		[]catalog.Item{{ID: "X"}, {ID: "Y"}, {ID: "Z"}},
		[]catalog.Recipe{
			manual("X", 1, amount("X", 1), amount("Y", 1)),
			manual("Y", 1, amount("Y", 1), amount("Z", 1)),
			manual("Z", 1, amount("Z", 1), amount("X", 1)),
		},
		nil,
	)}
	resolver := newResolver(cat, crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("X", 1, stock(nil))

	// Assert
	assert.Nil(t, analysis)
	assert.LessOrEqual(t, cat.lookups, 3*3)
}

func TestResolve_CycleWithStockedLeafResolves(t *testing.T) {
	// Arrange
	cat := catalog.NewStatic(
		[]catalog.Item{{ID: "X"}, {ID: "Y"}},
		[]catalog.Recipe{
			manual("X", 1, amount("X", 1), amount("Y", 1)),
			manual("Y", 1, amount("Y", 1), amount("X", 1)),
		},
		nil,
	)
	resolver := newResolver(cat, crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("X", 1, stock(map[string]int{"X": 1}))

	// Assert
	require.NotNil(t, analysis)
	assert.Equal(t, map[string]int{"X": 1}, analysis.RawRequirements)
	assert.Len(t, analysis.Tasks, 2)
}

func TestResolve_DepthBoundTreatsDeepItemsAsLeaves(t *testing.T) {
	// Arrange: a five-level chain with only the bottom item stocked
	cat := catalog.NewStatic(
		[]catalog.Item{{ID: "L0"}, {ID: "L1"}, {ID: "L2"}, {ID: "L3"}, {ID: "L4"}},
		[]catalog.Recipe{
			manual("L0", 1, amount("L0", 1), amount("L1", 1)),
			manual("L1", 1, amount("L1", 1), amount("L2", 1)),
			manual("L2", 1, amount("L2", 1), amount("L3", 1)),
			manual("L3", 1, amount("L3", 1), amount("L4", 1)),
		},
		nil,
	)
	shallow := newResolver(cat, crafting.Options{ManualEfficiency: 1, MaxDepth: 2})
	deep := newResolver(cat, crafting.DefaultOptions())
	inv := stock(map[string]int{"L4": 1})

	// Act & Assert
	assert.Nil(t, shallow.Resolve("L0", 1, inv))
	analysis := deep.Resolve("L0", 1, inv)
	require.NotNil(t, analysis)
	assert.Equal(t, map[string]int{"L4": 1}, analysis.RawRequirements)
}

// layeredCatalog builds a diamond lattice: top needs one of each item in
// layer 1, every item of layer i needs one of each item in layer i+1, and the
// bottom layer needs the raw material R.
func layeredCatalog(layers int) (*catalog.Static, int) {
	items := []catalog.Item{{ID: "top"}, {ID: "R"}}
	layerItems := func(i int) (string, string) {
		return fmt.Sprintf("L%d-a", i), fmt.Sprintf("L%d-b", i)
	}
	a, b := layerItems(1)
	recipes := []catalog.Recipe{manual("top", 1, amount("top", 1), amount(a, 1), amount(b, 1))}
	for i := 1; i <= layers; i++ {
		a, b := layerItems(i)
		items = append(items, catalog.Item{ID: a}, catalog.Item{ID: b})
		var inputs []catalog.ItemAmount
		if i == layers {
			inputs = []catalog.ItemAmount{amount("R", 1)}
		} else {
			nextA, nextB := layerItems(i + 1)
			inputs = []catalog.ItemAmount{amount(nextA, 1), amount(nextB, 1)}
		}
		recipes = append(recipes,
			manual(a, 1, amount(a, 1), inputs...),
			manual(b, 1, amount(b, 1), inputs...),
		)
	}
	return catalog.NewStatic(items, recipes, nil), len(items)
}

func TestResolve_SharedIntermediatesAreLookedUpOnce(t *testing.T) {
	// Arrange: 20 layers would take about 4^20 lookups if shared items were
	// expanded once per path.
	static, distinct := layeredCatalog(20)
	cat := &countingCatalog{Static: static}
	resolver := newResolver(cat, crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("top", 1, stock(map[string]int{"R": 1 << 30}))

	// Assert
	require.NotNil(t, analysis)
	assert.LessOrEqual(t, cat.lookups, 2*distinct)
	assert.Equal(t, map[string]int{"R": 1 << 20}, analysis.RawRequirements)
	assert.Len(t, analysis.Tasks, 2*20+1)

	// Every task comes after the tasks crafting its inputs
	position := make(map[string]int, len(analysis.Tasks))
	for i, task := range analysis.Tasks {
		position[task.TargetItem()] = i
	}
	for i := 1; i < 20; i++ {
		assert.Less(t, position[fmt.Sprintf("L%d-a", i+1)], position[fmt.Sprintf("L%d-a", i)])
		assert.Less(t, position[fmt.Sprintf("L%d-b", i+1)], position[fmt.Sprintf("L%d-b", i)])
	}
}

func TestResolve_StockSpentBySiblingBranchIsCrafted(t *testing.T) {
	// Arrange: M needs 1 X and 2 G, X needs 2 G, G needs 1 R. The 2 G on hand
	// cover only half of the chain's G demand.
	cat := catalog.NewStatic(
		[]catalog.Item{{ID: "M"}, {ID: "X"}, {ID: "G"}, {ID: "R"}},
		[]catalog.Recipe{
			manual("make-M", 1, amount("M", 1), amount("X", 1), amount("G", 2)),
			manual("make-X", 1, amount("X", 1), amount("G", 2)),
			manual("make-G", 1, amount("G", 1), amount("R", 1)),
		},
		nil,
	)
	resolver := newResolver(cat, crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("M", 1, stock(map[string]int{"G": 2, "R": 10}))

	// Assert
	require.NotNil(t, analysis)
	assert.ElementsMatch(t, []inventory.Adjustment{
		{ItemID: "G", Delta: -2},
		{ItemID: "R", Delta: -2},
	}, analysis.CommitAdjustments())

	require.Len(t, analysis.Tasks, 3)
	assert.Equal(t, "make-G", analysis.Tasks[0].RecipeID())
	assert.Equal(t, 2, analysis.Tasks[0].Quantity())
	assert.Equal(t, 0, analysis.Tasks[0].CreditQuantity())
	assert.Equal(t, "make-X", analysis.Tasks[1].RecipeID())
	assert.Equal(t, analysis.Tasks[0].ID(), analysis.Tasks[1].PredecessorID())
	assert.Equal(t, analysis.Tasks[1].ID(), analysis.MainTask.PredecessorID())
	assert.InDelta(t, 4.0, analysis.TotalDuration, 1e-9)

	require.Len(t, analysis.Dependencies, 2)
	assert.Equal(t, "G", analysis.Dependencies[1].ItemID)
	assert.Equal(t, 2, analysis.Dependencies[1].Required)
	assert.Equal(t, 0, analysis.Dependencies[1].Available)
	assert.Equal(t, 2, analysis.Dependencies[1].Shortage)
}

func TestResolve_StockedIntermediatesAreUsedBeforeRecursing(t *testing.T) {
	// Arrange: the cables are on hand, so no copper is needed
	resolver := newResolver(circuitCatalog(), crafting.DefaultOptions())

	// Act
	analysis := resolver.Resolve("circuit", 1, stock(map[string]int{"plate": 1, "cable": 3}))

	// Assert
	require.NotNil(t, analysis)
	require.Len(t, analysis.Tasks, 1)
	assert.Equal(t, map[string]int{"plate": 1}, analysis.RawRequirements)
	assert.ElementsMatch(t, []inventory.Adjustment{
		{ItemID: "plate", Delta: -1},
		{ItemID: "cable", Delta: -3},
	}, analysis.CommitAdjustments())
	assert.Zero(t, analysis.Dependencies[1].Shortage)
}
