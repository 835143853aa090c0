package simulation

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorycore/internal/application/common"
)

// GetPowerBalanceQuery - Query for the power balance of the current layout
type GetPowerBalanceQuery struct{}

// GetFuelStatusQuery - Query for a facility's fuel buffer
type GetFuelStatusQuery struct {
	FacilityID string `json:"facility_id"`
}

// ListFacilitiesQuery - Query for all placed facilities
type ListFacilitiesQuery struct{}

// ListCraftableQuery - Query for unlocked items that can be hand-crafted
type ListCraftableQuery struct {
	ItemIDs  []string
	Unlocked UnlockOracle
}

// QueryHandler - Handles the read-only simulation queries
type QueryHandler struct {
	driver *Driver
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(driver *Driver) *QueryHandler {
	return &QueryHandler{driver: driver}
}

// Handle answers any of the simulation queries
func (h *QueryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	switch q := request.(type) {
	case *GetPowerBalanceQuery:
		balance := h.driver.PowerBalance()
		return &balance, nil
	case *GetFuelStatusQuery:
		status, err := h.driver.FuelStatus(q.FacilityID)
		if err != nil {
			return nil, err
		}
		return &status, nil
	case *ListFacilitiesQuery:
		return h.driver.Facilities(), nil
	case *ListCraftableQuery:
		return h.driver.CraftableItems(q.ItemIDs, q.Unlocked), nil
	default:
		return nil, fmt.Errorf("invalid request type %T", request)
	}
}
