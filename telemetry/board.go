package telemetry

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/types"
	"github.com/evdnx/zonerecovery/zone"
)

// CycleStatus is the latest known state of one strategy's cycle.
type CycleStatus struct {
	Strategy   string          `json:"strategy"`
	Symbol     string          `json:"symbol"`
	Active     bool            `json:"active"`
	CycleID    string          `json:"cycle_id,omitempty"`
	Direction  types.Side      `json:"direction,omitempty"`
	Steps      int             `json:"steps"`
	LastPrice  decimal.Decimal `json:"last_price"`
	Profit     decimal.Decimal `json:"profit"`
	LastReason zone.Reason     `json:"last_reason,omitempty"`
	Closed     int             `json:"cycles_closed"`
	Updated    time.Time       `json:"updated"`
}

// Board folds cycle events into per-strategy status rows. It is safe to
// read from HTTP handlers while the engine publishes into it.
type Board struct {
	mu   sync.RWMutex
	rows map[string]*CycleStatus
}

func NewBoard() *Board {
	return &Board{rows: make(map[string]*CycleStatus)}
}

func (b *Board) OnCycleEvent(ev zone.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	row, ok := b.rows[ev.Strategy]
	if !ok {
		row = &CycleStatus{Strategy: ev.Strategy}
		b.rows[ev.Strategy] = row
	}
	row.Symbol = ev.Symbol
	row.LastPrice = ev.Price
	row.Profit = ev.Profit
	row.Updated = ev.Time

	switch ev.Kind {
	case zone.EventCycleStarted:
		row.Active = true
		row.CycleID = ev.CycleID
		row.Direction = ev.Side
		row.Steps = 1
	case zone.EventStepAdded:
		row.Steps = ev.StepIndex
	case zone.EventCycleClosed:
		row.Active = false
		row.Steps = 0
		row.LastReason = ev.Reason
		row.Closed++
	}
}

// Statuses returns a copy of every row, ordered by strategy name.
func (b *Board) Statuses() []CycleStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]CycleStatus, 0, len(b.rows))
	for _, row := range b.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}
