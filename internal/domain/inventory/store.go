package inventory

import "context"

// Unlimited is the capacity reported for items without a configured cap
const Unlimited = int(^uint(0) >> 1)

// Adjustment is a signed change to one item's quantity
type Adjustment struct {
	ItemID string
	Delta  int
}

// Reader is the read side of inventory used inside a tick
type Reader interface {
	Quantity(itemID string) int
	Capacity(itemID string) int
}

// Store is the single-writer inventory port.
// BatchAdjust applies all adjustments atomically, clamping each result to [0, capacity].
type Store interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	BatchAdjust(ctx context.Context, adjustments []Adjustment) error
}

// Merge collapses adjustments into one net delta per item, keeping first-touch order
// and dropping items whose deltas cancel out.
func Merge(adjustments []Adjustment) []Adjustment {
	index := make(map[string]int, len(adjustments))
	merged := make([]Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.ItemID == "" || adj.Delta == 0 {
			continue
		}
		if i, ok := index[adj.ItemID]; ok {
			merged[i].Delta += adj.Delta
			continue
		}
		index[adj.ItemID] = len(merged)
		merged = append(merged, adj)
	}

	result := merged[:0]
	for _, adj := range merged {
		if adj.Delta != 0 {
			result = append(result, adj)
		}
	}
	return result
}

// Clamp bounds a post-adjustment quantity to [0, capacity]
func Clamp(quantity, capacity int) int {
	if quantity < 0 {
		return 0
	}
	if capacity >= 0 && quantity > capacity {
		return capacity
	}
	return quantity
}
