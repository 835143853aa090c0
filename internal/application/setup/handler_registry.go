package setup

import (
	"reflect"

	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
)

// HandlerRegistry holds the application dependencies used to build handlers
type HandlerRegistry struct {
	driver *simulation.Driver
}

// NewHandlerRegistry creates a new handler registry for a driver
func NewHandlerRegistry(driver *simulation.Driver) *HandlerRegistry {
	return &HandlerRegistry{driver: driver}
}

// RegisterSimulationHandlers registers every simulation command and query handler
//
// This method registers:
//   - PlaceFacilityCommand → PlaceFacilityHandler
//   - FacilityActionCommand → FacilityActionHandler (start, stop, remove, set-recipe, add-fuel)
//   - RequestCraftCommand → RequestCraftHandler
//   - CancelCraftCommand → CancelCraftHandler
//   - RunTicksCommand → RunTicksHandler
//   - GetPowerBalanceQuery, GetFuelStatusQuery, ListFacilitiesQuery, ListCraftableQuery → QueryHandler
func (r *HandlerRegistry) RegisterSimulationHandlers(m common.Mediator) error {
	handlers := []struct {
		request common.Request
		handler common.RequestHandler
	}{
		{&simulation.PlaceFacilityCommand{}, simulation.NewPlaceFacilityHandler(r.driver)},
		{&simulation.FacilityActionCommand{}, simulation.NewFacilityActionHandler(r.driver)},
		{&simulation.RequestCraftCommand{}, simulation.NewRequestCraftHandler(r.driver)},
		{&simulation.CancelCraftCommand{}, simulation.NewCancelCraftHandler(r.driver)},
		{&simulation.RunTicksCommand{}, simulation.NewRunTicksHandler(r.driver)},
	}

	queries := simulation.NewQueryHandler(r.driver)
	for _, q := range []common.Request{
		&simulation.GetPowerBalanceQuery{},
		&simulation.GetFuelStatusQuery{},
		&simulation.ListFacilitiesQuery{},
		&simulation.ListCraftableQuery{},
	} {
		handlers = append(handlers, struct {
			request common.Request
			handler common.RequestHandler
		}{q, queries})
	}

	for _, h := range handlers {
		if err := m.Register(reflect.TypeOf(h.request), h.handler); err != nil {
			return err
		}
	}
	return nil
}

// CreateConfiguredMediator creates a mediator with all handlers registered
func (r *HandlerRegistry) CreateConfiguredMediator() (common.Mediator, error) {
	m := common.NewMediator()
	if err := r.RegisterSimulationHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}
