package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/types"
)

// MockExecutor implements the Executor interface in‑memory. Orders fill at
// their reference price; balance and equity are whatever the test sets.
type MockExecutor struct {
	mu         sync.RWMutex
	balance    decimal.Decimal
	equity     decimal.Decimal
	positions  map[string]decimal.Decimal // qty (signed)
	orders     []types.Order              // captured for assertions
	cancels    int
	failNext   error
	failCancel error
}

// NewMockExecutor creates a fresh executor whose balance and equity both
// start at startEquity.
func NewMockExecutor(startEquity float64) *MockExecutor {
	eq := decimal.NewFromFloat(startEquity)
	return &MockExecutor{
		balance:   eq,
		equity:    eq,
		positions: make(map[string]decimal.Decimal),
	}
}

// Submit records the order and fills it at o.Price.
func (m *MockExecutor) Submit(o types.Order) (types.Fill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return types.Fill{}, err
	}
	if o.Side == types.Buy {
		m.positions[o.Symbol] = m.positions[o.Symbol].Add(o.Qty)
	} else {
		m.positions[o.Symbol] = m.positions[o.Symbol].Sub(o.Qty)
	}
	m.orders = append(m.orders, o)
	return types.Fill{
		ID:     fmt.Sprintf("mock-%d", len(m.orders)),
		Symbol: o.Symbol,
		Side:   o.Side,
		Qty:    o.Qty,
		Price:  o.Price,
		Time:   time.Unix(int64(len(m.orders)), 0).UTC(),
	}, nil
}

// FailNext makes the next Submit return err without recording the order.
func (m *MockExecutor) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// FailCancel makes every CancelAllResting call return err (nil restores).
func (m *MockExecutor) FailCancel(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failCancel = err
}

func (m *MockExecutor) CancelAllResting(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
	return m.failCancel
}

// Cancels returns how many times CancelAllResting was called.
func (m *MockExecutor) Cancels() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cancels
}

func (m *MockExecutor) Balance() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance
}

func (m *MockExecutor) Equity() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.equity
}

func (m *MockExecutor) SetBalance(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = decimal.NewFromFloat(v)
}

func (m *MockExecutor) SetEquity(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equity = decimal.NewFromFloat(v)
}

// Position returns the signed qty for a symbol; the mock does not track an
// average price.
func (m *MockExecutor) Position(symbol string) (decimal.Decimal, decimal.Decimal) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[symbol], decimal.Zero
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}
