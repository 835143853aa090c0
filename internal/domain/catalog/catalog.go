package catalog

import "sort"

// Catalog is the read-only metadata oracle consumed by the simulation.
// Lookups of unknown ids report ok=false or an empty slice, never an error.
type Catalog interface {
	RecipesProducing(itemID string) []*Recipe
	RecipeByID(id string) (*Recipe, bool)
	Item(id string) (*Item, bool)
	Facility(facilityType string) (*FacilitySpec, bool)
	FuelItems() []*Item
}

// Static is an immutable in-memory Catalog
type Static struct {
	items      map[string]*Item
	recipes    map[string]*Recipe
	facilities map[string]*FacilitySpec
	byOutput   map[string][]*Recipe
	fuels      []*Item
}

// NewStatic indexes the given metadata. Recipe order is preserved in
// RecipesProducing so "first eligible" selection is deterministic.
func NewStatic(items []Item, recipes []Recipe, facilities []FacilitySpec) *Static {
	c := &Static{
		items:      make(map[string]*Item, len(items)),
		recipes:    make(map[string]*Recipe, len(recipes)),
		facilities: make(map[string]*FacilitySpec, len(facilities)),
		byOutput:   make(map[string][]*Recipe),
	}

	for i := range items {
		item := items[i]
		c.items[item.ID] = &item
		if item.IsFuel() {
			c.fuels = append(c.fuels, &item)
		}
	}
	sort.Slice(c.fuels, func(i, j int) bool { return c.fuels[i].ID < c.fuels[j].ID })

	for i := range recipes {
		recipe := recipes[i]
		c.recipes[recipe.ID] = &recipe
		seen := make(map[string]bool, len(recipe.Outputs))
		for _, out := range recipe.Outputs {
			if seen[out.ItemID] {
				continue
			}
			seen[out.ItemID] = true
			c.byOutput[out.ItemID] = append(c.byOutput[out.ItemID], &recipe)
		}
	}

	for i := range facilities {
		spec := facilities[i]
		c.facilities[spec.Type] = &spec
	}

	return c
}

func (c *Static) RecipesProducing(itemID string) []*Recipe {
	return c.byOutput[itemID]
}

func (c *Static) RecipeByID(id string) (*Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

func (c *Static) Item(id string) (*Item, bool) {
	i, ok := c.items[id]
	return i, ok
}

func (c *Static) Facility(facilityType string) (*FacilitySpec, bool) {
	f, ok := c.facilities[facilityType]
	return f, ok
}

func (c *Static) FuelItems() []*Item {
	return c.fuels
}

// Items returns every item id in sorted order
func (c *Static) Items() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FacilityTypes returns every facility type in sorted order
func (c *Static) FacilityTypes() []string {
	types := make([]string, 0, len(c.facilities))
	for t := range c.facilities {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// RecipeIDs returns every recipe id in sorted order
func (c *Static) RecipeIDs() []string {
	ids := make([]string, 0, len(c.recipes))
	for id := range c.recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
