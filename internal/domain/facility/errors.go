package facility

import "fmt"

// ErrFuelSlotsFull is returned when a new fuel item needs a slot and none is free
type ErrFuelSlotsFull struct {
	ItemID   string
	MaxSlots int
}

func (e *ErrFuelSlotsFull) Error() string {
	return fmt.Sprintf("cannot load %s: all %d fuel slots are occupied", e.ItemID, e.MaxSlots)
}

// ErrFuelOverflow is returned when loading fuel would exceed the buffer's max energy
type ErrFuelOverflow struct {
	ItemID    string
	Requested float64
	Free      float64
}

func (e *ErrFuelOverflow) Error() string {
	return fmt.Sprintf("cannot load %s: needs %.1f kJ of space, %.1f kJ free", e.ItemID, e.Requested, e.Free)
}

// ErrInvalidFuelSlot is returned when restoring a buffer from data that breaks its invariants
type ErrInvalidFuelSlot struct {
	Index  int
	Reason string
}

func (e *ErrInvalidFuelSlot) Error() string {
	return fmt.Sprintf("invalid fuel slot %d: %s", e.Index, e.Reason)
}

// ErrFacilityNotFound is returned when an action names a facility that is not placed
type ErrFacilityNotFound struct {
	FacilityID string
}

func (e *ErrFacilityNotFound) Error() string {
	return fmt.Sprintf("facility not found: %s", e.FacilityID)
}

// ErrRecipeNotSupported is returned when a recipe cannot run in a facility type
type ErrRecipeNotSupported struct {
	RecipeID     string
	FacilityType string
}

func (e *ErrRecipeNotSupported) Error() string {
	return fmt.Sprintf("recipe %s cannot be produced by %s", e.RecipeID, e.FacilityType)
}
