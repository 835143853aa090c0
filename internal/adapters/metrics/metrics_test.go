package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/adapters/metrics"
	"github.com/andrescamacho/factorycore/internal/application/common"
	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/catalog"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/inventory"
	"github.com/andrescamacho/factorycore/internal/domain/power"
	"github.com/andrescamacho/factorycore/internal/domain/production"
)

func valueOf(t *testing.T, metric prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metric.Write(&m))
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func seriesCount(t *testing.T, names ...string) int {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	count := 0
	for _, family := range families {
		if wanted[family.GetName()] {
			count += len(family.GetMetric())
		}
	}
	return count
}

func sampleReport() *simulation.TickReport {
	return &simulation.TickReport{
		Tick:     7,
		Elapsed:  1,
		Duration: 2 * time.Millisecond,
		Power: simulation.PowerView{
			Generation:        900000,
			Demand:            450000,
			SatisfactionRatio: 1,
			Status:            power.StatusSurplus,
			ByCategory:        map[string]float64{"assembler": 450000},
		},
		Cycles: []production.CycleEvent{{
			FacilityID: "f-1",
			RecipeID:   "iron-gear-wheel",
			Multiplier: 2,
			Produced:   []catalog.ItemAmount{{ItemID: "iron-gear-wheel", Quantity: 2}},
		}},
		Transitions:  []production.Transition{{FacilityID: "f-2", From: facility.StatusRunning, To: facility.StatusNoFuel}},
		Refuels:      []inventory.Adjustment{{ItemID: "coal", Delta: -3}},
		FuelConsumed: 1500,
		Faults:       []string{"f-3: boom"},
		Facilities: []simulation.FacilityView{
			{ID: "f-1", Count: 2, Status: facility.StatusRunning},
			{ID: "f-2", Count: 1, Status: facility.StatusNoFuel},
		},
	}
}

func TestSimulationMetricsCollector_RecordTick(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewSimulationMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RecordTick(sampleReport())
	collector.RecordTickFailure("commit")
	collector.RecordCraftRequest("iron-chest", false)

	// Assert
	count := seriesCount(t,
		"factorycore_simulation_ticks_total",
		"factorycore_simulation_production_cycles_total",
		"factorycore_simulation_facilities",
	)
	assert.Equal(t, 1+1+len(facility.AllStatuses), count)
}

func TestSimulationMetricsCollector_Values(t *testing.T) {
	// Arrange
	collector := metrics.NewSimulationMetricsCollector()
	report := sampleReport()

	// Act
	collector.RecordTick(report)
	collector.RecordTick(report)

	// Assert
	assert.Equal(t, 2.0, valueOf(t, collector.CyclesCounter("iron-gear-wheel")))
	assert.Equal(t, 6.0, valueOf(t, collector.RefuelCounter("coal")))
	assert.Equal(t, 1.0, valueOf(t, collector.PowerStatusGauge(power.StatusSurplus)))
	assert.Equal(t, 0.0, valueOf(t, collector.PowerStatusGauge(power.StatusDeficit)))
}

func TestRegister_NoRegistryIsNoOp(t *testing.T) {
	// Arrange
	metrics.Registry = nil
	collector := metrics.NewCommandMetricsCollector()

	// Act
	err := collector.Register()

	// Assert
	assert.NoError(t, err)
	assert.False(t, metrics.IsEnabled())
}

type pingQuery struct{}

func TestPrometheusMiddleware_RecordsCommandName(t *testing.T) {
	// Arrange
	collector := metrics.NewCommandMetricsCollector()
	m := common.NewMediator()
	m.Use(metrics.PrometheusMiddleware(collector))
	require.NoError(t, common.RegisterHandler[*pingQuery](m, common.HandlerFunc(func(context.Context, common.Request) (common.Response, error) {
		return "ok", nil
	})))

	// Act
	_, err := m.Send(context.Background(), &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.0, valueOf(t, collector.CommandsCounter("pingQuery", true)))
}
