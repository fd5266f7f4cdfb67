package zone

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/types"
)

type EventKind string

const (
	EventCycleStarted EventKind = "cycle_started"
	EventStepAdded    EventKind = "step_added"
	EventCycleClosed  EventKind = "cycle_closed"
)

// Event describes one state transition of a controller.
type Event struct {
	Kind      EventKind       `json:"kind"`
	Strategy  string          `json:"strategy"`
	Symbol    string          `json:"symbol"`
	CycleID   string          `json:"cycle_id"`
	StepIndex int             `json:"step,omitempty"`
	Side      types.Side      `json:"side,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Profit    decimal.Decimal `json:"profit"`
	Reason    Reason          `json:"reason,omitempty"`
	Time      time.Time       `json:"time"`
}

// Listener receives controller events synchronously, on the caller's
// goroutine. Implementations must not call back into the controller.
type Listener interface {
	OnCycleEvent(ev Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ev Event)

func (f ListenerFunc) OnCycleEvent(ev Event) { f(ev) }
