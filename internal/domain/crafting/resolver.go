package crafting

import (
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/eligibility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
	"github.com/andrescamacho/factorycore/pkg/utils"
)

// Options tune resolution
type Options struct {
	// ManualEfficiency divides recipe durations for hand crafting
	ManualEfficiency float64
	// MaxDepth bounds recursion below the requested item
	MaxDepth int
}

// DefaultOptions returns the standard resolver tuning
func DefaultOptions() Options {
	return Options{ManualEfficiency: 1.0, MaxDepth: 32}
}

// Resolver turns a manual craft request into an ordered, feasible task chain
type Resolver struct {
	catalog   catalog.Catalog
	validator eligibility.Validator
	options   Options
	clock     shared.Clock
}

// NewResolver creates a resolver
func NewResolver(cat catalog.Catalog, validator eligibility.Validator, options Options, clock shared.Clock) *Resolver {
	if options.ManualEfficiency <= 0 {
		options.ManualEfficiency = 1.0
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultOptions().MaxDepth
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Resolver{catalog: cat, validator: validator, options: options, clock: clock}
}

// BestRecipe picks the manual recipe for an item: mining first, then any
// non-recycling recipe, then the first eligible one.
func (r *Resolver) BestRecipe(itemID string) (*catalog.Recipe, bool) {
	var firstEligible, firstNonRecycling *catalog.Recipe
	for _, recipe := range r.catalog.RecipesProducing(itemID) {
		if recipe.OutputQuantity(itemID) <= 0 || !r.validator.Validate(recipe).Eligible {
			continue
		}
		if recipe.Flags.Mining {
			return recipe, true
		}
		if firstNonRecycling == nil && !recipe.Flags.Recycling {
			firstNonRecycling = recipe
		}
		if firstEligible == nil {
			firstEligible = recipe
		}
	}
	if firstNonRecycling != nil {
		return firstNonRecycling, true
	}
	return firstEligible, firstEligible != nil
}

// Resolve plans crafting qty units of itemID against a read-only inventory.
// It returns nil when no eligible recipe exists or any raw material is short;
// in that case nothing should be committed. The inventory is never mutated.
//
// Every item below the request is looked up and settled once, so resolution
// is linear in the number of distinct items even on shared or cyclic graphs.
func (r *Resolver) Resolve(itemID string, qty int, inv inventory.Reader) *ChainAnalysis {
	if qty <= 0 || inv == nil {
		return nil
	}
	agg := newAggregation(r, inv)
	recipe, ok := agg.recipeFor(itemID)
	if !ok {
		return nil
	}
	runs := utils.CeilDiv(qty, recipe.OutputQuantity(itemID))
	if runs <= 0 {
		return nil
	}

	if !agg.run(itemID, recipe, runs) {
		return nil
	}

	analysis := &ChainAnalysis{
		ItemID:          itemID,
		Quantity:        qty,
		Recipe:          recipe,
		RawRequirements: agg.raw,
		Consumption:     agg.consumption(),
		Dependencies:    agg.directDependencies(itemID, recipe, runs),
	}

	predecessor := ""
	for _, id := range agg.craftOrder(itemID) {
		n := agg.nodes[id]
		out := n.recipe.OutputQuantity(id)
		task := NewTask(
			n.recipe.ID, id,
			n.runs, n.runs*out, n.runs*out-n.uncovered,
			r.taskDuration(n.recipe, n.runs),
			predecessor, r.clock,
		)
		analysis.Tasks = append(analysis.Tasks, task)
		predecessor = task.ID()
	}

	out := recipe.OutputQuantity(itemID)
	analysis.MainTask = NewTask(
		recipe.ID, itemID,
		runs, runs*out, runs*out,
		r.taskDuration(recipe, runs),
		predecessor, r.clock,
	)
	analysis.Tasks = append(analysis.Tasks, analysis.MainTask)

	for _, t := range analysis.Tasks {
		analysis.TotalDuration += t.Duration()
	}
	return analysis
}

func (r *Resolver) taskDuration(recipe *catalog.Recipe, runs int) float64 {
	return recipe.Duration * float64(runs) / r.options.ManualEfficiency
}

// node is one item of the chain. Leaves have no recipe and are drawn from
// stock only; demand beyond stock on a crafted node becomes runs.
type node struct {
	recipe    *catalog.Recipe
	demand    int
	uncovered int
	runs      int
	// cyclic holds inputs that lead back onto the discovery path
	cyclic map[string]bool
}

func (n *node) expands() bool {
	return n.recipe != nil && !n.recipe.Flags.Mining
}

// aggregation settles the recipe graph below the requested item. Items are
// discovered depth first with one global visited set, then demand is pushed
// top-down in reverse post-order so every item is settled after all of its
// consumers. Stock is drawn before an item is crafted, so intermediates on
// hand are used instead of being re-crafted.
type aggregation struct {
	resolver *Resolver
	inv      inventory.Reader

	recipes   map[string]*catalog.Recipe
	nodes     map[string]*node
	postorder []string
	onPath    map[string]bool

	taken map[string]int
	order []string
	raw   map[string]int
	short bool
}

func newAggregation(r *Resolver, inv inventory.Reader) *aggregation {
	return &aggregation{
		resolver: r,
		inv:      inv,
		recipes:  make(map[string]*catalog.Recipe),
		nodes:    make(map[string]*node),
		onPath:   make(map[string]bool),
		taken:    make(map[string]int),
		raw:      make(map[string]int),
	}
}

// recipeFor memoizes BestRecipe for the duration of one resolution
func (a *aggregation) recipeFor(itemID string) (*catalog.Recipe, bool) {
	if recipe, seen := a.recipes[itemID]; seen {
		return recipe, recipe != nil
	}
	recipe, ok := a.resolver.BestRecipe(itemID)
	if !ok {
		recipe = nil
	}
	a.recipes[itemID] = recipe
	return recipe, ok
}

func (a *aggregation) run(rootID string, recipe *catalog.Recipe, runs int) bool {
	a.nodes[rootID] = &node{recipe: recipe, runs: runs}
	a.discover(rootID, 0)

	for i := len(a.postorder) - 1; i >= 0 && !a.short; i-- {
		id := a.postorder[i]
		n := a.nodes[id]
		if id != rootID {
			a.settle(id, n)
		}
		if n.runs > 0 && n.expands() {
			a.propagate(n)
		}
	}
	return !a.short
}

func (a *aggregation) discover(itemID string, depth int) {
	n := a.nodes[itemID]
	a.onPath[itemID] = true
	if n.expands() {
		for _, in := range n.recipe.Inputs {
			if a.onPath[in.ItemID] {
				if n.cyclic == nil {
					n.cyclic = make(map[string]bool)
				}
				n.cyclic[in.ItemID] = true
				continue
			}
			if _, seen := a.nodes[in.ItemID]; seen {
				continue
			}
			a.nodes[in.ItemID] = a.newNode(in.ItemID, depth+1)
			a.discover(in.ItemID, depth+1)
		}
	}
	delete(a.onPath, itemID)
	a.postorder = append(a.postorder, itemID)
}

func (a *aggregation) newNode(itemID string, depth int) *node {
	if depth > a.resolver.options.MaxDepth {
		return &node{}
	}
	recipe, _ := a.recipeFor(itemID)
	return &node{recipe: recipe}
}

func (a *aggregation) settle(itemID string, n *node) {
	if n.demand <= 0 {
		return
	}
	if n.recipe == nil {
		a.takeLeaf(itemID, n.demand)
		return
	}
	n.uncovered = n.demand - a.take(itemID, n.demand)
	if n.uncovered > 0 {
		// Mined items beyond stock are gathered by hand and never block a chain.
		n.runs = utils.CeilDiv(n.uncovered, n.recipe.OutputQuantity(itemID))
	}
}

func (a *aggregation) propagate(n *node) {
	for _, in := range catalog.Scale(n.recipe.Inputs, n.runs) {
		if n.cyclic[in.ItemID] {
			a.takeLeaf(in.ItemID, in.Quantity)
			continue
		}
		a.nodes[in.ItemID].demand += in.Quantity
	}
}

func (a *aggregation) takeLeaf(itemID string, need int) {
	a.raw[itemID] += need
	if a.take(itemID, need) < need {
		a.short = true
	}
}

func (a *aggregation) take(itemID string, need int) int {
	available := a.inv.Quantity(itemID) - a.taken[itemID]
	got := min(max(available, 0), need)
	if got > 0 {
		if a.taken[itemID] == 0 {
			a.order = append(a.order, itemID)
		}
		a.taken[itemID] += got
	}
	return got
}

// craftOrder lists the crafted items below the root, dependencies first
func (a *aggregation) craftOrder(rootID string) []string {
	var ids []string
	for _, id := range a.postorder {
		if id != rootID && a.nodes[id].runs > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// directDependencies reports each input of the requested recipe. The
// shortage is the part of the requirement the chain crafts or gathers after
// stock shared with sibling branches has been drawn.
func (a *aggregation) directDependencies(rootID string, recipe *catalog.Recipe, runs int) []Dependency {
	required := make(map[string]int)
	var order []string
	for _, in := range catalog.Scale(recipe.Inputs, runs) {
		if _, seen := required[in.ItemID]; !seen {
			order = append(order, in.ItemID)
		}
		required[in.ItemID] += in.Quantity
	}

	root := a.nodes[rootID]
	deps := make([]Dependency, 0, len(order))
	for _, id := range order {
		shortage := 0
		if n, ok := a.nodes[id]; ok && !root.cyclic[id] {
			shortage = min(required[id], n.uncovered)
		}
		dep := Dependency{
			ItemID:    id,
			Required:  required[id],
			Available: required[id] - shortage,
			Shortage:  shortage,
		}
		verdict := a.resolver.validator.ClassifyItem(id)
		dep.Category = verdict.Category
		if sub, ok := a.recipeFor(id); ok {
			dep.Recipe = sub
			dep.ManualEligible = true
		} else {
			dep.ManualEligible = verdict.Category == eligibility.CategoryRawMaterial
		}
		deps = append(deps, dep)
	}
	return deps
}

func (a *aggregation) consumption() []catalog.ItemAmount {
	out := make([]catalog.ItemAmount, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, catalog.ItemAmount{ItemID: id, Quantity: a.taken[id]})
	}
	return out
}
