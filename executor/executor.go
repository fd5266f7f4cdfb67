package executor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/ticks"
	"github.com/evdnx/zonerecovery/types"
)

// Executor is the order-routing and account surface a strategy trades through.
type Executor interface {
	Submit(o types.Order) (types.Fill, error)
	CancelAllResting(symbol string) error
	// Balance and Equity may return zero when no reading is available.
	Balance() decimal.Decimal
	Equity() decimal.Decimal
	Position(symbol string) (qty decimal.Decimal, avgPrice decimal.Decimal)
}

var ErrNonPositiveQty = errors.New("paper executor: qty must be positive")

// Very simple paper‑trader – perfect fills at the order's reference price,
// no slippage, one netted position per symbol.
type PaperExecutor struct {
	mu        sync.Mutex
	tickSize  decimal.Decimal
	tickValue decimal.Decimal
	balance   decimal.Decimal
	positions map[string]decimal.Decimal // signed qty (positive = long)
	avgPrice  map[string]decimal.Decimal
	marks     map[string]decimal.Decimal
	cancels   int
	now       func() time.Time
}

func NewPaperExecutor(startBalance, tickSize, tickValue decimal.Decimal) *PaperExecutor {
	return &PaperExecutor{
		tickSize:  tickSize,
		tickValue: tickValue,
		balance:   startBalance,
		positions: make(map[string]decimal.Decimal),
		avgPrice:  make(map[string]decimal.Decimal),
		marks:     make(map[string]decimal.Decimal),
		now:       time.Now,
	}
}

// Mark records the latest price of symbol for floating equity.
func (p *PaperExecutor) Mark(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
}

func (p *PaperExecutor) Submit(o types.Order) (types.Fill, error) {
	if !o.Qty.IsPositive() {
		return types.Fill{}, ErrNonPositiveQty
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	signed := o.Qty
	if o.Side == types.Sell {
		signed = signed.Neg()
	}
	pos := p.positions[o.Symbol]
	avg := p.avgPrice[o.Symbol]

	switch {
	case pos.IsZero() || pos.Sign() == signed.Sign():
		// opening or adding: volume-weighted average price
		newPos := pos.Add(signed)
		avg = avg.Mul(pos.Abs()).Add(o.Price.Mul(o.Qty)).Div(newPos.Abs())
		pos = newPos
	default:
		closing := decimal.Min(pos.Abs(), o.Qty)
		delta := o.Price.Sub(avg)
		if pos.IsNegative() {
			delta = delta.Neg()
		}
		p.balance = p.balance.Add(ticks.ToMoney(delta, p.tickSize, p.tickValue, closing))
		pos = pos.Add(signed)
		switch {
		case pos.IsZero():
			avg = decimal.Zero
		case pos.Sign() == signed.Sign():
			// flipped through zero; the remainder opens at the fill price
			avg = o.Price
		}
	}
	p.positions[o.Symbol] = pos
	p.avgPrice[o.Symbol] = avg
	p.marks[o.Symbol] = o.Price

	return types.Fill{
		ID:     uuid.New().String(),
		Symbol: o.Symbol,
		Side:   o.Side,
		Qty:    o.Qty,
		Price:  o.Price,
		Time:   p.now().UTC(),
	}, nil
}

// CancelAllResting is a no-op: paper fills are immediate, nothing rests.
func (p *PaperExecutor) CancelAllResting(symbol string) error {
	p.mu.Lock()
	p.cancels++
	p.mu.Unlock()
	return nil
}

func (p *PaperExecutor) Balance() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

// Equity is balance plus the floating P&L of every open position at its last mark.
func (p *PaperExecutor) Equity() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	eq := p.balance
	for sym, qty := range p.positions {
		if qty.IsZero() {
			continue
		}
		mark, ok := p.marks[sym]
		if !ok {
			continue
		}
		eq = eq.Add(ticks.ToMoney(mark.Sub(p.avgPrice[sym]), p.tickSize, p.tickValue, qty))
	}
	return eq
}

func (p *PaperExecutor) Position(sym string) (decimal.Decimal, decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions[sym], p.avgPrice[sym]
}
