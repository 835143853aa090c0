package simulation

import (
	"errors"
	"fmt"
)

// ErrCraftInfeasible is returned when a craft request cannot be satisfied
// from current inventory
var ErrCraftInfeasible = errors.New("craft request is not feasible with current inventory")

// ErrInsufficientStock is returned when a player action needs more of an item
// than inventory holds
type ErrInsufficientStock struct {
	ItemID    string
	Requested int
	Available int
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient %s: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}

// ErrUnknownFacilityType is returned when placing a facility type the catalog does not define
type ErrUnknownFacilityType struct {
	FacilityType string
}

func (e *ErrUnknownFacilityType) Error() string {
	return fmt.Sprintf("unknown facility type: %s", e.FacilityType)
}
