package catalog

// RecipeFlags are the boolean traits a recipe can carry
type RecipeFlags struct {
	Mining    bool
	Manual    bool
	Recycling bool
	Locked    bool
}

// Recipe converts inputs into outputs over Duration seconds.
// Inputs and Outputs keep declaration order; the first output is the primary output.
type Recipe struct {
	ID        string
	Category  string
	Inputs    []ItemAmount
	Outputs   []ItemAmount
	Duration  float64
	Flags     RecipeFlags
	Producers []string
}

// PrimaryOutput returns the first declared output
func (r *Recipe) PrimaryOutput() (ItemAmount, bool) {
	if r == nil || len(r.Outputs) == 0 {
		return ItemAmount{}, false
	}
	return r.Outputs[0], true
}

// OutputQuantity returns how many units of itemID one run produces
func (r *Recipe) OutputQuantity(itemID string) int {
	total := 0
	for _, out := range r.Outputs {
		if out.ItemID == itemID {
			total += out.Quantity
		}
	}
	return total
}

// InputQuantity returns how many units of itemID one run consumes
func (r *Recipe) InputQuantity(itemID string) int {
	total := 0
	for _, in := range r.Inputs {
		if in.ItemID == itemID {
			total += in.Quantity
		}
	}
	return total
}

// HasProducer reports whether facilityType may run this recipe
func (r *Recipe) HasProducer(facilityType string) bool {
	for _, p := range r.Producers {
		if p == facilityType {
			return true
		}
	}
	return false
}
