package fuel

import (
	"math"

	"github.com/andrescamacho/factorycore/internal/domain/facility"
)

// Status is a display snapshot of a fuel buffer
type Status struct {
	TotalEnergy    float64
	MaxEnergy      float64
	SlotCount      int
	IsEmpty        bool
	IsFull         bool
	FillPercentage float64 // 0-100
	// BurnProgress is the burned fraction of the unit at the head of the queue
	BurnProgress float64
	// EstimatedRunTime is seconds of production left at the rated draw, +Inf when the rate is zero
	EstimatedRunTime float64
}

// GetFuelStatus derives the buffer status. It does not mutate the buffer.
func GetFuelStatus(buf *facility.FuelBuffer) Status {
	if buf == nil {
		return Status{IsEmpty: true}
	}

	status := Status{
		TotalEnergy:    buf.TotalEnergy(),
		MaxEnergy:      buf.MaxEnergy(),
		SlotCount:      len(buf.Slots()),
		IsEmpty:        buf.IsEmpty(),
		IsFull:         buf.IsFull(),
		FillPercentage: buf.FillRatio() * 100,
	}
	if head, ok := buf.HeadSlot(); ok {
		status.BurnProgress = head.BurnProgress()
	}
	if rate := buf.ConsumptionRate(); rate > 0 {
		status.EstimatedRunTime = buf.TotalEnergy() / rate
	} else {
		status.EstimatedRunTime = math.Inf(1)
	}
	return status
}
