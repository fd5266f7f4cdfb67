package zone

import (
	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/ticks"
)

// Step is one executed market order of a cycle. Never mutated after append.
type Step struct {
	Buy    bool            `json:"buy"`
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

func (s Step) sign() decimal.Decimal {
	if s.Buy {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// Ledger is the append-only list of steps of the current cycle.
type Ledger struct {
	steps []Step
}

func (l *Ledger) Append(s Step) { l.steps = append(l.steps, s) }

func (l *Ledger) Clear() { l.steps = nil }

func (l *Ledger) Len() int { return len(l.steps) }

// Last returns the most recent step, if any.
func (l *Ledger) Last() (Step, bool) {
	if len(l.steps) == 0 {
		return Step{}, false
	}
	return l.steps[len(l.steps)-1], true
}

// Steps returns a copy of the ledger in execution order.
func (l *Ledger) Steps() []Step {
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}

// Sum is the net signed volume: buys count positive, sells negative.
func (l *Ledger) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.steps {
		total = total.Add(s.sign().Mul(s.Volume))
	}
	return total
}

// CycleProfit marks every step to price and sums the signed money results.
// Steps are valued one by one (hedging view), not netted by average price.
func (l *Ledger) CycleProfit(price, tickSize, tickValue decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.steps {
		pl := ticks.ToMoney(price.Sub(s.Price), tickSize, tickValue, s.Volume)
		total = total.Add(s.sign().Mul(pl))
	}
	return total
}
