package fuel

import (
	"math"
	"sort"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

const insufficientEpsilon = 1e-9

// Consumption is the outcome of one consumption update
type Consumption struct {
	Requested    float64
	Consumed     float64
	Insufficient bool
}

// Simulator models combustion buffers: sizing, burning, loading and refueling
type Simulator struct {
	catalog catalog.Catalog
	clock   shared.Clock
	config  Config
}

// NewSimulator creates a fuel simulator
func NewSimulator(cat catalog.Catalog, clock shared.Clock, config Config) *Simulator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Simulator{catalog: cat, clock: clock, config: config}
}

// InitializeFuelBuffer builds an empty buffer from facility metadata.
// Returns nil for facility types that do not burn fuel.
func (s *Simulator) InitializeFuelBuffer(facilityType string) *facility.FuelBuffer {
	spec, ok := s.catalog.Facility(facilityType)
	if !ok || !spec.UsesFuel() {
		return nil
	}

	maxEnergy := spec.Fuel.MaxEnergy
	if maxEnergy <= 0 {
		maxEnergy = spec.Fuel.ConsumptionRate * s.config.BufferSeconds
	}

	buf := facility.NewFuelBuffer(spec.Fuel.MaxSlots, maxEnergy, spec.Fuel.ConsumptionRate, spec.Fuel.Categories)
	buf.Touch(s.clock.Now())
	return buf
}

// UpdateFuelConsumption burns rate×dt×efficiency energy per unit of the
// facility while it produces. Stopped or idle facilities draw nothing. When the
// buffer runs dry the partial draw is kept and Insufficient is set.
func (s *Simulator) UpdateFuelConsumption(f *facility.Facility, dt float64, producing bool) Consumption {
	if f == nil || f.Fuel == nil {
		return Consumption{}
	}
	f.Fuel.Touch(s.clock.Now())

	if dt <= 0 || f.IsStopped() || !producing {
		return Consumption{}
	}

	efficiency := math.Max(0, math.Min(1, f.Efficiency))
	required := f.Fuel.ConsumptionRate() * dt * efficiency * float64(max(f.Count, 1))
	if required <= 0 {
		return Consumption{}
	}

	consumed := f.Fuel.Burn(required)
	return Consumption{
		Requested:    required,
		Consumed:     consumed,
		Insufficient: consumed < required-insufficientEpsilon,
	}
}

// AddFuel loads qty units of itemID into buf on behalf of facilityType
func (s *Simulator) AddFuel(buf *facility.FuelBuffer, itemID string, qty int, facilityType string) error {
	if buf == nil {
		return &ErrNoFuelBuffer{FacilityType: facilityType}
	}
	item, ok := s.catalog.Item(itemID)
	if !ok || !item.IsFuel() {
		return &ErrNotFuel{ItemID: itemID}
	}
	if !s.compatible(buf, item, facilityType) {
		return &ErrIncompatibleFuel{ItemID: itemID, Category: item.FuelCategory, FacilityType: facilityType}
	}
	return buf.Load(itemID, qty, item.FuelValue)
}

// AutoRefuel loads the first compatible in-stock fuel from the priority list
// when the buffer is below the refuel threshold. The returned adjustment is
// the inventory withdrawal the caller must commit.
func (s *Simulator) AutoRefuel(f *facility.Facility, inv inventory.Reader) (inventory.Adjustment, bool) {
	if f == nil || f.Fuel == nil || f.IsStopped() {
		return inventory.Adjustment{}, false
	}
	buf := f.Fuel
	if buf.FillRatio() >= s.config.RefuelThreshold {
		return inventory.Adjustment{}, false
	}

	for _, itemID := range s.PriorityFor(f.Type) {
		item, ok := s.catalog.Item(itemID)
		if !ok || !item.IsFuel() || !s.compatible(buf, item, f.Type) {
			continue
		}
		stock := inv.Quantity(itemID)
		if stock <= 0 {
			continue
		}
		fit := int(math.Floor(buf.FreeEnergy()/item.FuelValue + insufficientEpsilon))
		qty := min(stock, fit)
		if qty <= 0 {
			continue
		}
		if err := buf.Load(itemID, qty, item.FuelValue); err != nil {
			continue
		}
		return inventory.Adjustment{ItemID: itemID, Delta: -qty}, true
	}
	return inventory.Adjustment{}, false
}

// PriorityFor returns the fuel order for a facility type: the configured
// override if present, else compatible fuels by descending energy density.
func (s *Simulator) PriorityFor(facilityType string) []string {
	if custom, ok := s.config.Priorities[facilityType]; ok && len(custom) > 0 {
		return custom
	}

	spec, _ := s.catalog.Facility(facilityType)
	var fuels []*catalog.Item
	for _, item := range s.catalog.FuelItems() {
		if spec != nil && spec.Fuel != nil && !spec.Fuel.AcceptsCategory(item.FuelCategory) {
			continue
		}
		fuels = append(fuels, item)
	}
	sort.SliceStable(fuels, func(i, j int) bool {
		if fuels[i].FuelValue != fuels[j].FuelValue {
			return fuels[i].FuelValue > fuels[j].FuelValue
		}
		return fuels[i].ID < fuels[j].ID
	})

	ids := make([]string, len(fuels))
	for i, item := range fuels {
		ids[i] = item.ID
	}
	return ids
}

// GetFuelStatus derives the display status of a buffer
func (s *Simulator) GetFuelStatus(buf *facility.FuelBuffer) Status {
	return GetFuelStatus(buf)
}

func (s *Simulator) compatible(buf *facility.FuelBuffer, item *catalog.Item, facilityType string) bool {
	if !buf.Accepts(item.FuelCategory) {
		return false
	}
	if spec, ok := s.catalog.Facility(facilityType); ok && spec.Fuel != nil {
		return spec.Fuel.AcceptsCategory(item.FuelCategory)
	}
	return true
}
