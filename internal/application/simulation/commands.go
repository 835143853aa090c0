package simulation

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
)

// PlaceFacilityCommand - Command to place facilities of one type
type PlaceFacilityCommand struct {
	FacilityType string `json:"facility_type"`
	Count        int    `json:"count"`
	RecipeID     string `json:"recipe_id,omitempty"`
}

// PlaceFacilityResponse - Response from place facility command
type PlaceFacilityResponse struct {
	Facility *facility.Facility
}

// PlaceFacilityHandler - Handles place facility commands
type PlaceFacilityHandler struct {
	driver *Driver
}

// NewPlaceFacilityHandler creates a new place facility handler
func NewPlaceFacilityHandler(driver *Driver) *PlaceFacilityHandler {
	return &PlaceFacilityHandler{driver: driver}
}

// Handle places the facility and optionally assigns its recipe
func (h *PlaceFacilityHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlaceFacilityCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	f, err := h.driver.AddFacility(ctx, cmd.FacilityType, cmd.Count)
	if err != nil {
		return nil, err
	}
	if cmd.RecipeID != "" {
		if err := h.driver.SetRecipe(ctx, f.ID, cmd.RecipeID); err != nil {
			// Roll the placement back so a bad recipe leaves no half-configured facility
			_ = h.driver.RemoveFacility(ctx, f.ID)
			return nil, err
		}
		f, err = h.driver.Facility(f.ID)
		if err != nil {
			return nil, err
		}
	}
	return &PlaceFacilityResponse{Facility: f}, nil
}

// FacilityAction names a player action on a placed facility
type FacilityAction string

const (
	FacilityActionStart     FacilityAction = "start"
	FacilityActionStop      FacilityAction = "stop"
	FacilityActionRemove    FacilityAction = "remove"
	FacilityActionSetRecipe FacilityAction = "set-recipe"
	FacilityActionAddFuel   FacilityAction = "add-fuel"
)

// FacilityActionCommand - Command to act on one placed facility
type FacilityActionCommand struct {
	FacilityID string         `json:"facility_id"`
	Action     FacilityAction `json:"action"`
	RecipeID   string         `json:"recipe_id,omitempty"` // set-recipe
	ItemID     string         `json:"item_id,omitempty"`   // add-fuel
	Quantity   int            `json:"quantity,omitempty"`  // add-fuel
}

// FacilityActionHandler - Handles facility action commands
type FacilityActionHandler struct {
	driver *Driver
}

// NewFacilityActionHandler creates a new facility action handler
func NewFacilityActionHandler(driver *Driver) *FacilityActionHandler {
	return &FacilityActionHandler{driver: driver}
}

// Handle executes the facility action
func (h *FacilityActionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FacilityActionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var err error
	switch cmd.Action {
	case FacilityActionStart:
		err = h.driver.StartFacility(ctx, cmd.FacilityID)
	case FacilityActionStop:
		err = h.driver.StopFacility(ctx, cmd.FacilityID)
	case FacilityActionRemove:
		return nil, h.driver.RemoveFacility(ctx, cmd.FacilityID)
	case FacilityActionSetRecipe:
		err = h.driver.SetRecipe(ctx, cmd.FacilityID, cmd.RecipeID)
	case FacilityActionAddFuel:
		err = h.driver.AddFuel(ctx, cmd.FacilityID, cmd.ItemID, cmd.Quantity)
	default:
		return nil, fmt.Errorf("unknown facility action %q", cmd.Action)
	}
	if err != nil {
		return nil, err
	}
	f, err := h.driver.Facility(cmd.FacilityID)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// RequestCraftCommand - Command to hand-craft an item
type RequestCraftCommand struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// RequestCraftHandler - Handles craft requests
type RequestCraftHandler struct {
	driver *Driver
}

// NewRequestCraftHandler creates a new craft request handler
func NewRequestCraftHandler(driver *Driver) *RequestCraftHandler {
	return &RequestCraftHandler{driver: driver}
}

// Handle resolves and queues the craft; the response is the chain analysis
func (h *RequestCraftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RequestCraftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	analysis, err := h.driver.RequestCraft(ctx, cmd.ItemID, cmd.Quantity)
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// CancelCraftCommand - Command to cancel a queued crafting task
type CancelCraftCommand struct {
	TaskID string `json:"task_id"`
}

// CancelCraftResponse - Response from cancel craft command
type CancelCraftResponse struct {
	CancelledTaskIDs []string
}

// CancelCraftHandler - Handles craft cancellations
type CancelCraftHandler struct {
	driver *Driver
}

// NewCancelCraftHandler creates a new cancel craft handler
func NewCancelCraftHandler(driver *Driver) *CancelCraftHandler {
	return &CancelCraftHandler{driver: driver}
}

// Handle cancels the task and its successors
func (h *CancelCraftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CancelCraftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	ids, err := h.driver.CancelCraft(ctx, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	return &CancelCraftResponse{CancelledTaskIDs: ids}, nil
}

// RunTicksCommand - Command to run a fixed number of ticks back to back
type RunTicksCommand struct {
	Ticks   int
	Elapsed float64
}

// RunTicksResponse - Response from run ticks command
type RunTicksResponse struct {
	Reports []*TickReport
	Queue   []*crafting.Task
}

// RunTicksHandler - Handles run ticks commands
type RunTicksHandler struct {
	driver *Driver
}

// NewRunTicksHandler creates a new run ticks handler
func NewRunTicksHandler(driver *Driver) *RunTicksHandler {
	return &RunTicksHandler{driver: driver}
}

// Handle runs the ticks, stopping at the first failed commit or when ctx is done
func (h *RunTicksHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunTicksCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Ticks <= 0 || cmd.Elapsed <= 0 {
		return nil, fmt.Errorf("ticks and elapsed must be positive")
	}

	response := &RunTicksResponse{}
	for i := 0; i < cmd.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return response, err
		}
		report, err := h.driver.Tick(ctx, cmd.Elapsed)
		if err != nil {
			return response, fmt.Errorf("tick %d failed: %w", i+1, err)
		}
		response.Reports = append(response.Reports, report)
	}
	response.Queue = h.driver.CraftQueue()
	return response, nil
}
