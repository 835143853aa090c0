package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/fuel"
	"github.com/andrescamacho/factorycore/internal/domain/power"
)

// Action kinds accepted from clients
const (
	ActionPlace      = "place"
	ActionFacility   = "facility"
	ActionCraft      = "craft"
	ActionCancel     = "cancel"
	ActionPower      = "power"
	ActionFuel       = "fuel"
	ActionFacilities = "facilities"
)

// Action is a player request read from a websocket client
type Action struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply answers exactly one Action
type Reply struct {
	ID     string      `json:"id,omitempty"`
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type craftResult struct {
	ItemID          string                `json:"item_id"`
	Quantity        int                   `json:"quantity"`
	RawRequirements map[string]int        `json:"raw_requirements"`
	TotalDuration   float64               `json:"total_duration"`
	Tasks           []simulation.TaskView `json:"tasks"`
}

type fuelResult struct {
	TotalEnergy    float64 `json:"total_energy"`
	MaxEnergy      float64 `json:"max_energy"`
	SlotCount      int     `json:"slot_count"`
	FillPercentage float64 `json:"fill_percentage"`
	BurnProgress   float64 `json:"burn_progress"`
	// -1 when the facility draws nothing
	EstimatedRunTime float64 `json:"estimated_run_time"`
}

func dispatch(ctx context.Context, mediator common.Mediator, action Action) Reply {
	request, err := decodeRequest(action)
	if err != nil {
		return Reply{ID: action.ID, OK: false, Error: err.Error()}
	}

	response, err := mediator.Send(ctx, request)
	if err != nil {
		return Reply{ID: action.ID, OK: false, Error: err.Error()}
	}
	return Reply{ID: action.ID, OK: true, Result: encodeResult(request, response)}
}

func decodeRequest(action Action) (common.Request, error) {
	var request common.Request
	switch action.Type {
	case ActionPlace:
		request = &simulation.PlaceFacilityCommand{Count: 1}
	case ActionFacility:
		request = &simulation.FacilityActionCommand{}
	case ActionCraft:
		request = &simulation.RequestCraftCommand{Quantity: 1}
	case ActionCancel:
		request = &simulation.CancelCraftCommand{}
	case ActionPower:
		return &simulation.GetPowerBalanceQuery{}, nil
	case ActionFuel:
		request = &simulation.GetFuelStatusQuery{}
	case ActionFacilities:
		return &simulation.ListFacilitiesQuery{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", action.Type)
	}

	if len(action.Payload) == 0 {
		return nil, fmt.Errorf("action %q requires a payload", action.Type)
	}
	if err := json.Unmarshal(action.Payload, request); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", action.Type, err)
	}
	return request, nil
}

func encodeResult(request common.Request, response common.Response) interface{} {
	switch r := response.(type) {
	case *simulation.PlaceFacilityResponse:
		return simulation.NewFacilityView(r.Facility)
	case *facility.Facility:
		return simulation.NewFacilityView(r)
	case []*facility.Facility:
		views := make([]simulation.FacilityView, 0, len(r))
		for _, f := range r {
			views = append(views, simulation.NewFacilityView(f))
		}
		return views
	case *crafting.ChainAnalysis:
		return craftResult{
			ItemID:          r.ItemID,
			Quantity:        r.Quantity,
			RawRequirements: r.RawRequirements,
			TotalDuration:   r.TotalDuration,
			Tasks:           simulation.NewTaskViews(r.Tasks),
		}
	case *simulation.CancelCraftResponse:
		return r.CancelledTaskIDs
	case *power.Balance:
		return r
	case *fuel.Status:
		runTime := r.EstimatedRunTime
		if math.IsInf(runTime, 0) {
			runTime = -1
		}
		return fuelResult{
			TotalEnergy:      r.TotalEnergy,
			MaxEnergy:        r.MaxEnergy,
			SlotCount:        r.SlotCount,
			FillPercentage:   r.FillPercentage,
			BurnProgress:     r.BurnProgress,
			EstimatedRunTime: runTime,
		}
	case nil:
		if cmd, ok := request.(*simulation.FacilityActionCommand); ok {
			return map[string]string{"removed": cmd.FacilityID}
		}
		return nil
	default:
		return r
	}
}
