package catalog

// Fuel categories used by the standard data set
const (
	FuelCategoryChemical = "chemical"
	FuelCategoryNuclear  = "nuclear"
)

// Standard returns the built-in demo catalog used by the daemon and CLI
func Standard() *Static {
	return NewStatic(standardItems(), standardRecipes(), standardFacilities())
}

func standardItems() []Item {
	return []Item{
		{ID: "wood", Kind: ItemKindSolid, Category: "raw-resource", StackCapacity: 100, FuelValue: 2000, FuelCategory: FuelCategoryChemical},
		{ID: "coal", Kind: ItemKindSolid, Category: "raw-resource", StackCapacity: 50, FuelValue: 4000, FuelCategory: FuelCategoryChemical},
		{ID: "solid-fuel", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 50, FuelValue: 12000, FuelCategory: FuelCategoryChemical},
		{ID: "uranium-fuel-cell", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 50, FuelValue: 8000000, FuelCategory: FuelCategoryNuclear},
		{ID: "stone", Kind: ItemKindSolid, Category: "raw-resource", StackCapacity: 50},
		{ID: "iron-ore", Kind: ItemKindSolid, Category: "raw-resource", StackCapacity: 50},
		{ID: "copper-ore", Kind: ItemKindSolid, Category: "raw-resource", StackCapacity: 50},
		{ID: "iron-plate", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 100},
		{ID: "copper-plate", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 100},
		{ID: "stone-brick", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 100},
		{ID: "iron-gear-wheel", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 100},
		{ID: "copper-cable", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 200},
		{ID: "electronic-circuit", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 200},
		{ID: "wooden-chest", Kind: ItemKindSolid, Category: "storage", StackCapacity: 50},
		{ID: "water", Kind: ItemKindFluid, Category: "fluid"},
		{ID: "steam", Kind: ItemKindFluid, Category: "fluid"},
		{ID: "petroleum-gas", Kind: ItemKindFluid, Category: "fluid"},
		{ID: "sulfur", Kind: ItemKindSolid, Category: "intermediate-product", StackCapacity: 50},
	}
}

func standardRecipes() []Recipe {
	drills := []string{"burner-mining-drill", "electric-mining-drill"}
	furnaces := []string{"stone-furnace", "electric-furnace"}
	assemblers := []string{"assembling-machine"}

	mine := func(id, item string, duration float64) Recipe {
		return Recipe{
			ID:        id,
			Category:  "mining",
			Outputs:   []ItemAmount{{ItemID: item, Quantity: 1}},
			Duration:  duration,
			Flags:     RecipeFlags{Mining: true, Manual: true},
			Producers: drills,
		}
	}

	return []Recipe{
		mine("mine-iron-ore", "iron-ore", 1),
		mine("mine-copper-ore", "copper-ore", 1),
		mine("mine-stone", "stone", 1),
		mine("mine-coal", "coal", 1),
		{
			ID: "iron-plate", Category: "smelting", Duration: 3.2, Producers: furnaces,
			Inputs:  []ItemAmount{{ItemID: "iron-ore", Quantity: 1}},
			Outputs: []ItemAmount{{ItemID: "iron-plate", Quantity: 1}},
		},
		{
			ID: "copper-plate", Category: "smelting", Duration: 3.2, Producers: furnaces,
			Inputs:  []ItemAmount{{ItemID: "copper-ore", Quantity: 1}},
			Outputs: []ItemAmount{{ItemID: "copper-plate", Quantity: 1}},
		},
		{
			ID: "stone-brick", Category: "smelting", Duration: 3.2, Producers: furnaces,
			Inputs:  []ItemAmount{{ItemID: "stone", Quantity: 2}},
			Outputs: []ItemAmount{{ItemID: "stone-brick", Quantity: 1}},
		},
		{
			ID: "iron-gear-wheel", Category: "crafting", Duration: 0.5, Producers: assemblers,
			Flags:   RecipeFlags{Manual: true},
			Inputs:  []ItemAmount{{ItemID: "iron-plate", Quantity: 2}},
			Outputs: []ItemAmount{{ItemID: "iron-gear-wheel", Quantity: 1}},
		},
		{
			ID: "copper-cable", Category: "crafting", Duration: 0.5, Producers: assemblers,
			Flags:   RecipeFlags{Manual: true},
			Inputs:  []ItemAmount{{ItemID: "copper-plate", Quantity: 1}},
			Outputs: []ItemAmount{{ItemID: "copper-cable", Quantity: 2}},
		},
		{
			ID: "electronic-circuit", Category: "crafting", Duration: 0.5, Producers: assemblers,
			Flags: RecipeFlags{Manual: true},
			Inputs: []ItemAmount{
				{ItemID: "iron-plate", Quantity: 1},
				{ItemID: "copper-cable", Quantity: 3},
			},
			Outputs: []ItemAmount{{ItemID: "electronic-circuit", Quantity: 1}},
		},
		{
			ID: "wooden-chest", Category: "recycling-or-hand-crafting", Duration: 0.5, Producers: assemblers,
			Flags:   RecipeFlags{Manual: true},
			Inputs:  []ItemAmount{{ItemID: "wood", Quantity: 2}},
			Outputs: []ItemAmount{{ItemID: "wooden-chest", Quantity: 1}},
		},
		{
			ID: "iron-gear-wheel-recycling", Category: "recycling", Duration: 0.03, Producers: []string{"recycler"},
			Flags:   RecipeFlags{Recycling: true},
			Inputs:  []ItemAmount{{ItemID: "iron-gear-wheel", Quantity: 1}},
			Outputs: []ItemAmount{{ItemID: "iron-plate", Quantity: 1}},
		},
		{
			ID: "solid-fuel-from-petroleum-gas", Category: "chemistry", Duration: 2, Producers: []string{"chemical-plant"},
			Inputs:  []ItemAmount{{ItemID: "petroleum-gas", Quantity: 20}},
			Outputs: []ItemAmount{{ItemID: "solid-fuel", Quantity: 1}},
		},
		{
			ID: "sulfur", Category: "chemistry", Duration: 1, Producers: []string{"chemical-plant"},
			Inputs: []ItemAmount{
				{ItemID: "water", Quantity: 30},
				{ItemID: "petroleum-gas", Quantity: 30},
			},
			Outputs: []ItemAmount{{ItemID: "sulfur", Quantity: 2}},
		},
	}
}

func standardFacilities() []FacilitySpec {
	chemical := []string{FuelCategoryChemical}

	return []FacilitySpec{
		{Type: "steam-engine", Category: "power", PowerRole: PowerRoleGenerator, Generator: GeneratorThroughput,
			PowerOutput: 900, ThroughputItem: "steam", RequiredThroughput: 30},
		{Type: "solar-panel", Category: "power", PowerRole: PowerRoleGenerator, Generator: GeneratorSolar, PowerOutput: 60},
		{Type: "burner-generator", Category: "power", PowerRole: PowerRoleGenerator, Generator: GeneratorFixed, PowerOutput: 900,
			Fuel: &FuelSpec{MaxSlots: 1, ConsumptionRate: 900, Categories: chemical}},
		{Type: "assembling-machine", Category: "production", PowerRole: PowerRoleConsumer, PowerDraw: 75},
		{Type: "electric-furnace", Category: "production", PowerRole: PowerRoleConsumer, PowerDraw: 180},
		{Type: "chemical-plant", Category: "production", PowerRole: PowerRoleConsumer, PowerDraw: 210},
		{Type: "recycler", Category: "production", PowerRole: PowerRoleConsumer, PowerDraw: 180},
		{Type: "electric-mining-drill", Category: "mining", PowerRole: PowerRoleConsumer, PowerDraw: 90},
		{Type: "lab", Category: "research", PowerRole: PowerRoleConsumer, PowerDraw: 60},
		{Type: "stone-furnace", Category: "production", PowerRole: PowerRoleNone, Burner: true,
			Fuel: &FuelSpec{MaxSlots: 1, ConsumptionRate: 90, Categories: chemical}},
		{Type: "burner-mining-drill", Category: "mining", PowerRole: PowerRoleNone, Burner: true,
			Fuel: &FuelSpec{MaxSlots: 1, ConsumptionRate: 150, MaxEnergy: 8000, Categories: chemical}},
	}
}
