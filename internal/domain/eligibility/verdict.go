package eligibility

// Category is the coarse classification of an item for manual crafting
type Category string

const (
	CategoryRawMaterial Category = "RAW_MATERIAL"
	CategoryCraftable   Category = "CRAFTABLE"
	CategoryRestricted  Category = "RESTRICTED"
)

// Reason codes
const (
	ReasonDeniedItem          = "denied_item"
	ReasonAllowedItem         = "allowed_item"
	ReasonRestrictedCategory  = "restricted_category"
	ReasonSpecialCategory     = "special_category"
	ReasonCategoryNotManual   = "category_not_manual"
	ReasonMining              = "mining"
	ReasonRecycling           = "recycling"
	ReasonFluidInput          = "fluid_input"
	ReasonRestrictedItem      = "restricted_item"
	ReasonRestrictedProducers = "restricted_producers"
	ReasonStrictProducers     = "strict_producers"
	ReasonNoProducers         = "no_producers"
	ReasonAllowedCategory     = "allowed_category"
	ReasonDisallowedCategory  = "disallowed_category"
	ReasonNoRecipes           = "no_recipes"
	ReasonNoRecipe            = "no_recipe"
)

// Verdict is the classifier's decision for one recipe
type Verdict struct {
	Eligible bool
	Reason   string
	Category Category
}

func craftable(reason string) Verdict {
	return Verdict{Eligible: true, Reason: reason, Category: CategoryCraftable}
}

func restricted(reason string) Verdict {
	return Verdict{Eligible: false, Reason: reason, Category: CategoryRestricted}
}

func rawMaterial(reason string) Verdict {
	return Verdict{Eligible: true, Reason: reason, Category: CategoryRawMaterial}
}
