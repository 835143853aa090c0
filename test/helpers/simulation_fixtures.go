package helpers

import (
	"time"

	"github.com/andrescamacho/factorycore/internal/adapters/memory"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/setup"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/shared"
)

// SimulationFixture bundles a driver over the standard catalog with its
// in-memory inventory and a controllable clock
type SimulationFixture struct {
	Catalog *catalog.Static
	Store   *memory.InventoryStore
	Clock   *shared.MockClock
	Driver  *simulation.Driver
}

// NewSimulationFixture builds a driver seeded with the given stock. Store may
// be nil to use an unbounded in-memory inventory.
func NewSimulationFixture(stock map[string]int, store inventory.Store) *SimulationFixture {
	cat := catalog.Standard()
	clock := shared.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mem := memory.NewInventoryStore(stock, nil, 0)
	if store == nil {
		store = mem
	}

	driver, _, err := setup.BuildDriver(cat, store, clock, setup.DefaultDriverOptions())
	if err != nil {
		panic(err)
	}

	return &SimulationFixture{Catalog: cat, Store: mem, Clock: clock, Driver: driver}
}

// Mediator returns a mediator with every simulation handler registered
func (f *SimulationFixture) Mediator() (common.Mediator, error) {
	return setup.NewHandlerRegistry(f.Driver).CreateConfiguredMediator()
}
