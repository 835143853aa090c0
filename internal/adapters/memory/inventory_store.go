package memory

import (
	"context"
	"sync"

	"github.com/andrescamacho/factorycore/internal/domain/inventory"
)

// InventoryStore is an in-process inventory.Store used by the CLI and tests
type InventoryStore struct {
	mu         sync.RWMutex
	state      *inventory.Snapshot
	capacities map[string]int
	defaultCap int
	batches    int
}

// NewInventoryStore creates a store seeded with quantities. A defaultCapacity
// <= 0 leaves items without an explicit cap unlimited.
func NewInventoryStore(quantities, capacities map[string]int, defaultCapacity int) *InventoryStore {
	caps := make(map[string]int, len(capacities))
	for k, v := range capacities {
		caps[k] = v
	}
	return &InventoryStore{
		state:      inventory.NewSnapshot(quantities, caps, defaultCapacity),
		capacities: caps,
		defaultCap: defaultCapacity,
	}
}

// Snapshot implements inventory.Store. Snapshots are immutable so the
// current state is returned as is.
func (s *InventoryStore) Snapshot(ctx context.Context) (*inventory.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

// BatchAdjust implements inventory.Store
func (s *InventoryStore) BatchAdjust(ctx context.Context, adjustments []inventory.Adjustment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Apply(inventory.Merge(adjustments))
	s.batches++
	return nil
}

// Quantity returns the current amount of one item
func (s *InventoryStore) Quantity(itemID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Quantity(itemID)
}

// Set overwrites the amount of one item, clamped to its capacity
func (s *InventoryStore) Set(itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.state.Items()
	items[itemID] = inventory.Clamp(quantity, s.state.Capacity(itemID))
	s.state = inventory.NewSnapshot(items, s.capacities, s.defaultCap)
}

// Items returns all non-zero quantities
func (s *InventoryStore) Items() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Items()
}

// BatchCount returns how many BatchAdjust calls have committed
func (s *InventoryStore) BatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches
}
