package inventory

// Ledger records the inventory effects of one tick against a frozen snapshot.
//
// Debits are visible immediately so facilities later in the tick cannot spend
// the same units twice. Credits are not visible to Available: output produced
// this tick becomes usable only after the batch commits. FreeSpace counts
// pending credits so two facilities cannot overfill the same item.
type Ledger struct {
	base    Reader
	debits  map[string]int
	credits map[string]int
	entries []Adjustment
}

// NewLedger starts an empty ledger over base
func NewLedger(base Reader) *Ledger {
	return &Ledger{
		base:    base,
		debits:  make(map[string]int),
		credits: make(map[string]int),
	}
}

// Quantity implements Reader and reports units still available for debit
func (l *Ledger) Quantity(itemID string) int {
	return l.Available(itemID)
}

// Capacity implements Reader
func (l *Ledger) Capacity(itemID string) int {
	return l.base.Capacity(itemID)
}

// Available returns snapshot quantity minus pending debits
func (l *Ledger) Available(itemID string) int {
	available := l.base.Quantity(itemID) - l.debits[itemID]
	if available < 0 {
		return 0
	}
	return available
}

// FreeSpace returns how many more units of itemID may be credited this tick
func (l *Ledger) FreeSpace(itemID string) int {
	capacity := l.base.Capacity(itemID)
	if capacity == Unlimited {
		return Unlimited
	}
	free := capacity - l.base.Quantity(itemID) - l.credits[itemID]
	if free < 0 {
		return 0
	}
	return free
}

// Debit reserves qty units. It returns false and records nothing when short.
func (l *Ledger) Debit(itemID string, qty int) bool {
	if qty <= 0 {
		return true
	}
	if l.Available(itemID) < qty {
		return false
	}
	l.debits[itemID] += qty
	l.entries = append(l.entries, Adjustment{ItemID: itemID, Delta: -qty})
	return true
}

// Credit records qty incoming units. It returns false and records nothing when
// the item would overflow its capacity.
func (l *Ledger) Credit(itemID string, qty int) bool {
	if qty <= 0 {
		return true
	}
	if l.FreeSpace(itemID) < qty {
		return false
	}
	l.credits[itemID] += qty
	l.entries = append(l.entries, Adjustment{ItemID: itemID, Delta: qty})
	return true
}

// Force records an adjustment without availability checks. The store clamps it.
func (l *Ledger) Force(adj Adjustment) {
	if adj.Delta == 0 {
		return
	}
	if adj.Delta < 0 {
		l.debits[adj.ItemID] += -adj.Delta
	} else {
		l.credits[adj.ItemID] += adj.Delta
	}
	l.entries = append(l.entries, adj)
}

// Entries returns the recorded adjustments in the order they were made
func (l *Ledger) Entries() []Adjustment {
	out := make([]Adjustment, len(l.entries))
	copy(out, l.entries)
	return out
}

// Adjustments returns the net per-item effect, ready for Store.BatchAdjust
func (l *Ledger) Adjustments() []Adjustment {
	return Merge(l.entries)
}

// Mark returns a position that Rollback can return to
func (l *Ledger) Mark() int {
	return len(l.entries)
}

// Rollback discards every entry recorded after mark
func (l *Ledger) Rollback(mark int) {
	if mark < 0 || mark >= len(l.entries) {
		return
	}
	for _, adj := range l.entries[mark:] {
		if adj.Delta < 0 {
			l.debits[adj.ItemID] -= -adj.Delta
		} else {
			l.credits[adj.ItemID] -= adj.Delta
		}
	}
	l.entries = l.entries[:mark]
}
