package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/power"
)

// SimulationMetricsCollector records per-tick simulation telemetry
type SimulationMetricsCollector struct {
	// Tick metrics
	ticksTotal          prometheus.Counter
	tickDurationSeconds prometheus.Histogram
	tickFailuresTotal   *prometheus.CounterVec
	faultsTotal         prometheus.Counter

	// Power metrics
	powerGenerationWatts prometheus.Gauge
	powerDemandWatts     prometheus.Gauge
	powerSatisfaction    prometheus.Gauge
	powerStatus          *prometheus.GaugeVec
	powerByCategory      *prometheus.GaugeVec

	// Production metrics
	cyclesTotal       *prometheus.CounterVec
	itemsProduced     *prometheus.CounterVec
	transitionsTotal  *prometheus.CounterVec
	facilitiesByState *prometheus.GaugeVec

	// Fuel metrics
	fuelConsumedJoules prometheus.Counter
	refuelItemsTotal   *prometheus.CounterVec

	// Crafting metrics
	craftRequestsTotal *prometheus.CounterVec
	craftsCompleted    prometheus.Counter
}

var _ simulation.MetricsRecorder = (*SimulationMetricsCollector)(nil)

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Total committed simulation ticks",
		}),
		tickDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock time spent computing a tick",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		tickFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_failures_total",
				Help:      "Ticks discarded before commit, by stage",
			},
			[]string{"reason"},
		),
		faultsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "faults_total",
			Help:      "Facility updates skipped because they panicked",
		}),

		powerGenerationWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "power_generation_watts",
			Help:      "Potential generation in the last tick",
		}),
		powerDemandWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "power_demand_watts",
			Help:      "Total consumer demand in the last tick",
		}),
		powerSatisfaction: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "power_satisfaction_ratio",
			Help:      "Fraction of demand met in the last tick",
		}),
		powerStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "power_status",
				Help:      "1 for the current grid status, 0 otherwise",
			},
			[]string{"status"},
		),
		powerByCategory: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "power_demand_by_category_watts",
				Help:      "Consumer demand grouped by facility category",
			},
			[]string{"category"},
		),

		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_cycles_total",
				Help:      "Completed recipe cycles by recipe",
			},
			[]string{"recipe"},
		),
		itemsProduced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items_produced_total",
				Help:      "Items credited to inventory by production",
			},
			[]string{"item"},
		),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "facility_transitions_total",
				Help:      "Facility status changes by target status",
			},
			[]string{"to"},
		),
		facilitiesByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "facilities",
				Help:      "Placed facility units by status",
			},
			[]string{"status"},
		),

		fuelConsumedJoules: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fuel_consumed_joules_total",
			Help:      "Fuel energy burned by all facilities",
		}),
		refuelItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refuel_items_total",
				Help:      "Fuel items pulled from inventory by auto-refuel",
			},
			[]string{"item"},
		),

		craftRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "craft_requests_total",
				Help:      "Craft requests by outcome",
			},
			[]string{"item", "accepted"},
		),
		craftsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "craft_tasks_completed_total",
			Help:      "Hand-craft tasks that finished and credited their output",
		}),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return register(
		c.ticksTotal,
		c.tickDurationSeconds,
		c.tickFailuresTotal,
		c.faultsTotal,
		c.powerGenerationWatts,
		c.powerDemandWatts,
		c.powerSatisfaction,
		c.powerStatus,
		c.powerByCategory,
		c.cyclesTotal,
		c.itemsProduced,
		c.transitionsTotal,
		c.facilitiesByState,
		c.fuelConsumedJoules,
		c.refuelItemsTotal,
		c.craftRequestsTotal,
		c.craftsCompleted,
	)
}

// RecordTick implements simulation.MetricsRecorder
func (c *SimulationMetricsCollector) RecordTick(report *simulation.TickReport) {
	c.ticksTotal.Inc()
	c.tickDurationSeconds.Observe(report.Duration.Seconds())
	c.faultsTotal.Add(float64(len(report.Faults)))

	c.powerGenerationWatts.Set(report.Power.Generation)
	c.powerDemandWatts.Set(report.Power.Demand)
	c.powerSatisfaction.Set(report.Power.SatisfactionRatio)
	for _, status := range []power.Status{power.StatusSurplus, power.StatusBalanced, power.StatusDeficit} {
		value := 0.0
		if status == report.Power.Status {
			value = 1
		}
		c.powerStatus.WithLabelValues(string(status)).Set(value)
	}
	c.powerByCategory.Reset()
	for category, watts := range report.Power.ByCategory {
		c.powerByCategory.WithLabelValues(category).Set(watts)
	}

	for _, cycle := range report.Cycles {
		c.cyclesTotal.WithLabelValues(cycle.RecipeID).Add(float64(cycle.Multiplier))
		for _, out := range cycle.Produced {
			c.itemsProduced.WithLabelValues(out.ItemID).Add(float64(out.Quantity))
		}
	}
	for _, tr := range report.Transitions {
		c.transitionsTotal.WithLabelValues(string(tr.To)).Inc()
	}

	counts := report.StatusCounts()
	for _, status := range facility.AllStatuses {
		c.facilitiesByState.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	c.fuelConsumedJoules.Add(report.FuelConsumed)
	for _, refuel := range report.Refuels {
		// Refuels are recorded as inventory debits
		c.refuelItemsTotal.WithLabelValues(refuel.ItemID).Add(float64(-refuel.Delta))
	}
	c.craftsCompleted.Add(float64(len(report.CompletedTasks)))
}

// RecordTickFailure implements simulation.MetricsRecorder
func (c *SimulationMetricsCollector) RecordTickFailure(reason string) {
	c.tickFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordCraftRequest implements simulation.MetricsRecorder
func (c *SimulationMetricsCollector) RecordCraftRequest(itemID string, accepted bool) {
	c.craftRequestsTotal.WithLabelValues(itemID, strconv.FormatBool(accepted)).Inc()
}

// CyclesCounter returns the cycle counter for a recipe
func (c *SimulationMetricsCollector) CyclesCounter(recipeID string) prometheus.Counter {
	return c.cyclesTotal.WithLabelValues(recipeID)
}

// RefuelCounter returns the refuel counter for a fuel item
func (c *SimulationMetricsCollector) RefuelCounter(itemID string) prometheus.Counter {
	return c.refuelItemsTotal.WithLabelValues(itemID)
}

// PowerStatusGauge returns the indicator gauge for a grid status
func (c *SimulationMetricsCollector) PowerStatusGauge(status power.Status) prometheus.Gauge {
	return c.powerStatus.WithLabelValues(string(status))
}
