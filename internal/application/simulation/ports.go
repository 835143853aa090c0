package simulation

import (
	"time"

	"github.com/andrescamacho/factorycore/internal/domain/facility"
	"github.com/andrescamacho/factorycore/internal/domain/power"
)

// MetricsRecorder receives simulation telemetry
type MetricsRecorder interface {
	RecordTick(report *TickReport)
	RecordTickFailure(reason string)
	RecordCraftRequest(itemID string, accepted bool)
}

// ReportPublisher fans tick reports out to live clients
type ReportPublisher interface {
	Publish(report *TickReport)
}

// UnlockOracle reports whether the player has unlocked an item
type UnlockOracle func(itemID string) bool

// EnvironmentFunc supplies daylight and throughput for the power step
type EnvironmentFunc func(now time.Time, facilities []*facility.Facility) power.Environment

type noOpMetrics struct{}

func (noOpMetrics) RecordTick(*TickReport)          {}
func (noOpMetrics) RecordTickFailure(string)        {}
func (noOpMetrics) RecordCraftRequest(string, bool) {}
