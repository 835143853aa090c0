package inventory

// Snapshot is an immutable start-of-tick view of inventory
type Snapshot struct {
	quantities      map[string]int
	capacities      map[string]int
	defaultCapacity int
}

// NewSnapshot copies the given maps. A defaultCapacity <= 0 means unlimited.
func NewSnapshot(quantities, capacities map[string]int, defaultCapacity int) *Snapshot {
	s := &Snapshot{
		quantities:      make(map[string]int, len(quantities)),
		capacities:      make(map[string]int, len(capacities)),
		defaultCapacity: defaultCapacity,
	}
	for k, v := range quantities {
		s.quantities[k] = v
	}
	for k, v := range capacities {
		s.capacities[k] = v
	}
	return s
}

// Quantity returns the held amount; unknown items hold zero
func (s *Snapshot) Quantity(itemID string) int {
	if s == nil {
		return 0
	}
	return s.quantities[itemID]
}

// Capacity returns the item cap, falling back to the default
func (s *Snapshot) Capacity(itemID string) int {
	if s == nil {
		return Unlimited
	}
	if c, ok := s.capacities[itemID]; ok && c > 0 {
		return c
	}
	if s.defaultCapacity > 0 {
		return s.defaultCapacity
	}
	return Unlimited
}

// Items returns a copy of all non-zero quantities
func (s *Snapshot) Items() map[string]int {
	out := make(map[string]int, len(s.quantities))
	for k, v := range s.quantities {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Apply returns a new snapshot with the adjustments applied and clamped.
// Stores use it to compute the post-commit state.
func (s *Snapshot) Apply(adjustments []Adjustment) *Snapshot {
	next := NewSnapshot(s.quantities, s.capacities, s.defaultCapacity)
	for _, adj := range adjustments {
		next.quantities[adj.ItemID] = Clamp(next.quantities[adj.ItemID]+adj.Delta, next.Capacity(adj.ItemID))
	}
	return next
}
