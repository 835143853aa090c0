package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// GormInventoryStore implements inventory.Store using GORM
type GormInventoryStore struct {
	db              *gorm.DB
	defaultCapacity int
	clock           shared.Clock
}

// NewGormInventoryStore creates a new GORM inventory store. Items without a
// stored capacity use defaultCapacity; <= 0 means unlimited.
func NewGormInventoryStore(db *gorm.DB, defaultCapacity int, clock shared.Clock) *GormInventoryStore {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormInventoryStore{db: db, defaultCapacity: defaultCapacity, clock: clock}
}

// Snapshot reads every inventory row
func (s *GormInventoryStore) Snapshot(ctx context.Context) (*inventory.Snapshot, error) {
	var models []InventoryItemModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	quantities := make(map[string]int, len(models))
	capacities := make(map[string]int)
	for _, m := range models {
		quantities[m.ItemID] = m.Quantity
		if m.Capacity > 0 {
			capacities[m.ItemID] = m.Capacity
		}
	}
	return inventory.NewSnapshot(quantities, capacities, s.defaultCapacity), nil
}

// BatchAdjust applies all adjustments in one transaction, clamping each item
// to [0, capacity]
func (s *GormInventoryStore) BatchAdjust(ctx context.Context, adjustments []inventory.Adjustment) error {
	merged := inventory.Merge(adjustments)
	if len(merged) == 0 {
		return nil
	}
	now := s.clock.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range merged {
			model, err := s.findOrNew(tx, adj.ItemID)
			if err != nil {
				return err
			}
			model.Quantity = inventory.Clamp(model.Quantity+adj.Delta, s.capacityOf(model))
			model.UpdatedAt = now
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("failed to adjust %s: %w", adj.ItemID, err)
			}
		}
		return nil
	})
}

// Seed overwrites item quantities, e.g. with a starting inventory
func (s *GormInventoryStore) Seed(ctx context.Context, quantities map[string]int) error {
	now := s.clock.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for itemID, qty := range quantities {
			model, err := s.findOrNew(tx, itemID)
			if err != nil {
				return err
			}
			model.Quantity = inventory.Clamp(qty, s.capacityOf(model))
			model.UpdatedAt = now
			if err := tx.Save(model).Error; err != nil {
				return fmt.Errorf("failed to seed %s: %w", itemID, err)
			}
		}
		return nil
	})
}

// SetCapacity stores a per-item capacity; <= 0 reverts to the default
func (s *GormInventoryStore) SetCapacity(ctx context.Context, itemID string, capacity int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model, err := s.findOrNew(tx, itemID)
		if err != nil {
			return err
		}
		model.Capacity = max(capacity, 0)
		model.Quantity = inventory.Clamp(model.Quantity, s.capacityOf(model))
		model.UpdatedAt = s.clock.Now()
		return tx.Save(model).Error
	})
}

// IsEmpty reports whether no inventory rows exist yet
func (s *GormInventoryStore) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&InventoryItemModel{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count inventory: %w", err)
	}
	return count == 0, nil
}

func (s *GormInventoryStore) findOrNew(tx *gorm.DB, itemID string) (*InventoryItemModel, error) {
	var model InventoryItemModel
	err := tx.Where("item_id = ?", itemID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InventoryItemModel{ItemID: itemID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", itemID, err)
	}
	return &model, nil
}

func (s *GormInventoryStore) capacityOf(model *InventoryItemModel) int {
	if model.Capacity > 0 {
		return model.Capacity
	}
	if s.defaultCapacity > 0 {
		return s.defaultCapacity
	}
	return inventory.Unlimited
}

// Ensure the store satisfies the port at compile time
var _ inventory.Store = (*GormInventoryStore)(nil)
