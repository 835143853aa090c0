package fuel

import "fmt"

// ErrNotFuel is returned when loading an item without a fuel value
type ErrNotFuel struct {
	ItemID string
}

func (e *ErrNotFuel) Error() string {
	return fmt.Sprintf("item %s is not a fuel", e.ItemID)
}

// ErrIncompatibleFuel is returned when a facility does not burn the item's fuel category
type ErrIncompatibleFuel struct {
	ItemID       string
	Category     string
	FacilityType string
}

func (e *ErrIncompatibleFuel) Error() string {
	return fmt.Sprintf("%s cannot burn %s (fuel category %q)", e.FacilityType, e.ItemID, e.Category)
}

// ErrNoFuelBuffer is returned when fueling a facility type that does not burn fuel
type ErrNoFuelBuffer struct {
	FacilityType string
}

func (e *ErrNoFuelBuffer) Error() string {
	return fmt.Sprintf("facility type %s has no fuel buffer", e.FacilityType)
}
