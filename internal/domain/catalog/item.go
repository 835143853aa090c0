package catalog

// ItemKind distinguishes items held in slots from items carried in pipes
type ItemKind string

const (
	ItemKindSolid ItemKind = "solid"
	ItemKindFluid ItemKind = "fluid"
)

// Item is read-only item metadata
type Item struct {
	ID            string
	Kind          ItemKind
	Category      string
	StackCapacity int

	// FuelValue is the energy released by burning one unit (kJ). Zero for non-fuels.
	FuelValue    float64
	FuelCategory string
}

// IsFuel reports whether the item can be burned in a fuel buffer
func (i *Item) IsFuel() bool {
	return i != nil && i.FuelValue > 0
}

// IsFluid reports whether the item is a fluid
func (i *Item) IsFluid() bool {
	return i != nil && i.Kind == ItemKindFluid
}

// ItemAmount pairs an item with a quantity
type ItemAmount struct {
	ItemID   string
	Quantity int
}

// Scale returns a copy of amounts with every quantity multiplied by factor
func Scale(amounts []ItemAmount, factor int) []ItemAmount {
	scaled := make([]ItemAmount, len(amounts))
	for i, a := range amounts {
		scaled[i] = ItemAmount{ItemID: a.ItemID, Quantity: a.Quantity * factor}
	}
	return scaled
}
