package facility

import (
	"math"
	"time"
)

// energyEpsilon absorbs float residue when a slot is drained to zero
const energyEpsilon = 1e-9

// FuelSlot holds a stack of one fuel item. Quantity counts the units not yet
// fully burned, including the one currently burning.
type FuelSlot struct {
	ItemID          string
	Quantity        int
	RemainingEnergy float64
	EnergyPerUnit   float64
}

// BurnProgress returns the burned fraction of the unit currently burning
func (s FuelSlot) BurnProgress() float64 {
	if s.EnergyPerUnit <= 0 || s.Quantity <= 0 {
		return 0
	}
	current := s.RemainingEnergy - float64(s.Quantity-1)*s.EnergyPerUnit
	progress := 1 - current/s.EnergyPerUnit
	return math.Max(0, math.Min(1, progress))
}

// FuelBuffer is a facility's combustion energy reservoir.
//
// Invariants:
// - totalEnergy is always the sum of slot energies, recomputed after every mutation
// - totalEnergy never exceeds maxEnergy
// - len(slots) never exceeds maxSlots and no slot is empty
type FuelBuffer struct {
	slots           []FuelSlot
	maxSlots        int
	totalEnergy     float64
	maxEnergy       float64
	consumptionRate float64
	categories      []string
	lastUpdate      time.Time
}

// NewFuelBuffer creates an empty buffer
func NewFuelBuffer(maxSlots int, maxEnergy, consumptionRate float64, categories []string) *FuelBuffer {
	if maxSlots < 1 {
		maxSlots = 1
	}
	return &FuelBuffer{
		maxSlots:        maxSlots,
		maxEnergy:       maxEnergy,
		consumptionRate: consumptionRate,
		categories:      append([]string(nil), categories...),
	}
}

// RestoreFuelBuffer rebuilds a buffer from persisted slots, rejecting data that
// would break the buffer invariants
func RestoreFuelBuffer(
	maxSlots int,
	maxEnergy, consumptionRate float64,
	categories []string,
	slots []FuelSlot,
	lastUpdate time.Time,
) (*FuelBuffer, error) {
	b := NewFuelBuffer(maxSlots, maxEnergy, consumptionRate, categories)
	b.lastUpdate = lastUpdate

	for i, slot := range slots {
		if slot.RemainingEnergy <= energyEpsilon {
			continue
		}
		if slot.EnergyPerUnit <= 0 {
			return nil, &ErrInvalidFuelSlot{Index: i, Reason: "energy per unit must be positive"}
		}
		if len(b.slots) == b.maxSlots {
			return nil, &ErrInvalidFuelSlot{Index: i, Reason: "exceeds slot count"}
		}
		slot.Quantity = unitsFor(slot.RemainingEnergy, slot.EnergyPerUnit)
		b.slots = append(b.slots, slot)
	}

	b.recalculate()
	if b.totalEnergy > b.maxEnergy+energyEpsilon {
		return nil, &ErrInvalidFuelSlot{Index: len(slots) - 1, Reason: "total energy exceeds buffer capacity"}
	}
	return b, nil
}

// Getters

func (b *FuelBuffer) MaxSlots() int            { return b.maxSlots }
func (b *FuelBuffer) TotalEnergy() float64     { return b.totalEnergy }
func (b *FuelBuffer) MaxEnergy() float64       { return b.maxEnergy }
func (b *FuelBuffer) ConsumptionRate() float64 { return b.consumptionRate }
func (b *FuelBuffer) LastUpdate() time.Time    { return b.lastUpdate }

// Categories returns the accepted fuel categories (empty accepts all)
func (b *FuelBuffer) Categories() []string {
	return append([]string(nil), b.categories...)
}

// Slots returns a copy of the slots in burn order
func (b *FuelBuffer) Slots() []FuelSlot {
	return append([]FuelSlot(nil), b.slots...)
}

// HeadSlot returns the slot currently burning
func (b *FuelBuffer) HeadSlot() (FuelSlot, bool) {
	if len(b.slots) == 0 {
		return FuelSlot{}, false
	}
	return b.slots[0], true
}

// FreeEnergy returns how much more energy the buffer can hold
func (b *FuelBuffer) FreeEnergy() float64 {
	return math.Max(0, b.maxEnergy-b.totalEnergy)
}

// IsEmpty reports whether no energy is left
func (b *FuelBuffer) IsEmpty() bool {
	return b == nil || b.totalEnergy <= energyEpsilon
}

// IsFull reports whether the buffer is at max energy
func (b *FuelBuffer) IsFull() bool {
	return b != nil && b.totalEnergy >= b.maxEnergy-energyEpsilon
}

// FillRatio returns totalEnergy/maxEnergy in [0,1]
func (b *FuelBuffer) FillRatio() float64 {
	if b == nil || b.maxEnergy <= 0 {
		return 0
	}
	return math.Min(1, b.totalEnergy/b.maxEnergy)
}

// Accepts reports whether fuel of the given category may be loaded
func (b *FuelBuffer) Accepts(category string) bool {
	if len(b.categories) == 0 {
		return true
	}
	for _, c := range b.categories {
		if c == category {
			return true
		}
	}
	return false
}

// Load adds qty units of an item, merging into an existing slot of the same
// item or taking a free slot
func (b *FuelBuffer) Load(itemID string, qty int, energyPerUnit float64) error {
	if qty <= 0 {
		return nil
	}
	energy := float64(qty) * energyPerUnit
	if energy > b.FreeEnergy()+energyEpsilon {
		return &ErrFuelOverflow{ItemID: itemID, Requested: energy, Free: b.FreeEnergy()}
	}

	merged := false
	for i := range b.slots {
		if b.slots[i].ItemID == itemID {
			b.slots[i].Quantity += qty
			b.slots[i].RemainingEnergy += energy
			merged = true
			break
		}
	}
	if !merged {
		if len(b.slots) >= b.maxSlots {
			return &ErrFuelSlotsFull{ItemID: itemID, MaxSlots: b.maxSlots}
		}
		b.slots = append(b.slots, FuelSlot{
			ItemID:          itemID,
			Quantity:        qty,
			RemainingEnergy: energy,
			EnergyPerUnit:   energyPerUnit,
		})
	}

	b.recalculate()
	return nil
}

// Burn draws up to amount energy from the slots in FIFO order, removing
// emptied slots. It returns the energy actually drawn, which is less than
// amount when the buffer runs dry. Partial draws are kept.
func (b *FuelBuffer) Burn(amount float64) float64 {
	drawn := 0.0
	for amount-drawn > energyEpsilon && len(b.slots) > 0 {
		head := &b.slots[0]
		take := math.Min(head.RemainingEnergy, amount-drawn)
		head.RemainingEnergy -= take
		drawn += take

		if head.RemainingEnergy <= energyEpsilon {
			b.slots = b.slots[1:]
			continue
		}
		head.Quantity = unitsFor(head.RemainingEnergy, head.EnergyPerUnit)
	}

	b.recalculate()
	return drawn
}

// Touch records the time of the last consumption update
func (b *FuelBuffer) Touch(t time.Time) {
	b.lastUpdate = t
}

// Clone returns a deep copy
func (b *FuelBuffer) Clone() *FuelBuffer {
	if b == nil {
		return nil
	}
	c := *b
	c.slots = append([]FuelSlot(nil), b.slots...)
	c.categories = append([]string(nil), b.categories...)
	return &c
}

func (b *FuelBuffer) recalculate() {
	total := 0.0
	for _, s := range b.slots {
		total += s.RemainingEnergy
	}
	b.totalEnergy = total
}

func unitsFor(remaining, perUnit float64) int {
	if perUnit <= 0 {
		return 0
	}
	return int(math.Ceil(remaining/perUnit - energyEpsilon))
}
