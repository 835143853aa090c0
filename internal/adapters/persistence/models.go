package persistence

import (
	"time"
)

// InventoryItemModel represents the inventory_items table
type InventoryItemModel struct {
	ItemID    string    `gorm:"column:item_id;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	Capacity  int       `gorm:"column:capacity;not null;default:0"` // 0 falls back to the store default
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// FacilityModel represents the facilities table
type FacilityModel struct {
	ID         string  `gorm:"column:id;primaryKey"`
	Position   int     `gorm:"column:position;not null;index"`
	Type       string  `gorm:"column:type;not null"`
	Count      int     `gorm:"column:count;not null;default:1"`
	Status     string  `gorm:"column:status;not null"`
	Efficiency float64 `gorm:"column:efficiency;not null;default:1"`
	RecipeID   string  `gorm:"column:recipe_id"`
	Progress   float64 `gorm:"column:progress;not null;default:0"`

	// Fuel buffer, present when HasFuel is set
	HasFuel        bool       `gorm:"column:has_fuel;not null;default:false"`
	FuelMaxSlots   int        `gorm:"column:fuel_max_slots"`
	FuelMaxEnergy  float64    `gorm:"column:fuel_max_energy"`
	FuelRate       float64    `gorm:"column:fuel_rate"`
	FuelCategories string     `gorm:"column:fuel_categories;type:text"` // JSON array as text
	FuelSlots      string     `gorm:"column:fuel_slots;type:text"`      // JSON array as text
	FuelUpdatedAt  *time.Time `gorm:"column:fuel_updated_at"`
	SavedAt        time.Time  `gorm:"column:saved_at;not null"`
}

func (FacilityModel) TableName() string {
	return "facilities"
}

// fuelSlotRecord is the JSON form of one fuel slot
type fuelSlotRecord struct {
	ItemID          string  `json:"item_id"`
	Quantity        int     `json:"quantity"`
	RemainingEnergy float64 `json:"remaining_energy"`
	EnergyPerUnit   float64 `json:"energy_per_unit"`
}
