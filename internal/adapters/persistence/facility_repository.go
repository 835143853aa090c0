package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// GormFacilityRepository implements facility.Repository using GORM.
// A save replaces the whole layout so the table always mirrors the last
// committed tick.
type GormFacilityRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormFacilityRepository creates a new GORM facility repository
func NewGormFacilityRepository(db *gorm.DB, clock shared.Clock) *GormFacilityRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormFacilityRepository{db: db, clock: clock}
}

// Save replaces the persisted layout with facilities
func (r *GormFacilityRepository) Save(ctx context.Context, facilities []*facility.Facility) error {
	models := make([]FacilityModel, 0, len(facilities))
	for i, f := range facilities {
		model, err := r.facilityToModel(f, i)
		if err != nil {
			return fmt.Errorf("failed to convert facility %s: %w", f.ID, err)
		}
		models = append(models, *model)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&FacilityModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear facilities: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("failed to save facilities: %w", err)
		}
		return nil
	})
}

// Load returns the persisted layout in placement order
func (r *GormFacilityRepository) Load(ctx context.Context) ([]*facility.Facility, error) {
	var models []FacilityModel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load facilities: %w", err)
	}

	facilities := make([]*facility.Facility, 0, len(models))
	for i := range models {
		f, err := r.modelToFacility(&models[i])
		if err != nil {
			return nil, fmt.Errorf("invalid facility %s in database: %w", models[i].ID, err)
		}
		facilities = append(facilities, f)
	}
	return facilities, nil
}

func (r *GormFacilityRepository) facilityToModel(f *facility.Facility, position int) (*FacilityModel, error) {
	model := &FacilityModel{
		ID:         f.ID,
		Position:   position,
		Type:       f.Type,
		Count:      f.Count,
		Status:     string(f.Status),
		Efficiency: f.Efficiency,
		RecipeID:   f.RecipeID(),
		SavedAt:    r.clock.Now(),
	}
	if f.Production != nil {
		model.Progress = f.Production.Progress
	}

	if f.Fuel != nil {
		categories, err := json.Marshal(f.Fuel.Categories())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fuel categories: %w", err)
		}

		slots := f.Fuel.Slots()
		records := make([]fuelSlotRecord, len(slots))
		for i, s := range slots {
			records[i] = fuelSlotRecord{
				ItemID:          s.ItemID,
				Quantity:        s.Quantity,
				RemainingEnergy: s.RemainingEnergy,
				EnergyPerUnit:   s.EnergyPerUnit,
			}
		}
		slotsJSON, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fuel slots: %w", err)
		}

		lastUpdate := f.Fuel.LastUpdate()
		model.HasFuel = true
		model.FuelMaxSlots = f.Fuel.MaxSlots()
		model.FuelMaxEnergy = f.Fuel.MaxEnergy()
		model.FuelRate = f.Fuel.ConsumptionRate()
		model.FuelCategories = string(categories)
		model.FuelSlots = string(slotsJSON)
		if !lastUpdate.IsZero() {
			model.FuelUpdatedAt = &lastUpdate
		}
	}
	return model, nil
}

func (r *GormFacilityRepository) modelToFacility(model *FacilityModel) (*facility.Facility, error) {
	f := facility.New(model.ID, model.Type, model.Count)
	f.Status = facility.Status(model.Status)
	f.Efficiency = model.Efficiency
	if model.RecipeID != "" {
		f.Production = &facility.ProductionState{RecipeID: model.RecipeID, Progress: model.Progress}
	}

	if !model.HasFuel {
		return f, nil
	}

	var categories []string
	if model.FuelCategories != "" {
		if err := json.Unmarshal([]byte(model.FuelCategories), &categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fuel categories: %w", err)
		}
	}
	var records []fuelSlotRecord
	if model.FuelSlots != "" {
		if err := json.Unmarshal([]byte(model.FuelSlots), &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fuel slots: %w", err)
		}
	}
	slots := make([]facility.FuelSlot, len(records))
	for i, rec := range records {
		slots[i] = facility.FuelSlot{
			ItemID:          rec.ItemID,
			Quantity:        rec.Quantity,
			RemainingEnergy: rec.RemainingEnergy,
			EnergyPerUnit:   rec.EnergyPerUnit,
		}
	}

	buf, err := facility.RestoreFuelBuffer(model.FuelMaxSlots, model.FuelMaxEnergy, model.FuelRate, categories, slots, derefTime(model.FuelUpdatedAt))
	if err != nil {
		return nil, err
	}
	f.Fuel = buf
	return f, nil
}

// Ensure the repository satisfies the port at compile time
var _ facility.Repository = (*GormFacilityRepository)(nil)
