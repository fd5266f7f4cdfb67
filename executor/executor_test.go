package executor

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newEURUSD() *PaperExecutor {
	return NewPaperExecutor(dec("10000"), dec("0.0001"), dec("10"))
}

func TestPaperExecutor_SubmitAndPosition(t *testing.T) {
	ex := newEURUSD()

	fill, err := ex.Submit(types.Order{Symbol: "EURUSD", Side: types.Buy, Qty: dec("1"), Price: dec("1.2000")})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if fill.ID == "" || !fill.Price.Equal(dec("1.2")) {
		t.Fatalf("unexpected fill: %+v", fill)
	}
	qty, avg := ex.Position("EURUSD")
	if !qty.Equal(dec("1")) || !avg.Equal(dec("1.2")) {
		t.Fatalf("unexpected position: qty=%s avg=%s", qty, avg)
	}
	if !ex.Balance().Equal(dec("10000")) {
		t.Fatalf("opening a position must not touch balance, got %s", ex.Balance())
	}
}

func TestPaperExecutor_FloatingEquity(t *testing.T) {
	ex := newEURUSD()
	if _, err := ex.Submit(types.Order{Symbol: "EURUSD", Side: types.Buy, Qty: dec("2"), Price: dec("1.2000")}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	ex.Mark("EURUSD", dec("1.2010"))
	// 10 ticks * 10 * 2 lots
	if got := ex.Equity(); !got.Equal(dec("10200")) {
		t.Fatalf("expected equity 10200, got %s", got)
	}
}

func TestPaperExecutor_RealizesOnReduceAndFlip(t *testing.T) {
	ex := newEURUSD()
	if _, err := ex.Submit(types.Order{Symbol: "EURUSD", Side: types.Sell, Qty: dec("1"), Price: dec("1.2000")}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	// buy 3 at a lower price: closes the short at +50 ticks, opens 2 long
	if _, err := ex.Submit(types.Order{Symbol: "EURUSD", Side: types.Buy, Qty: dec("3"), Price: dec("1.1950")}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got := ex.Balance(); !got.Equal(dec("10500")) {
		t.Fatalf("expected balance 10500 after realizing 500, got %s", got)
	}
	qty, avg := ex.Position("EURUSD")
	if !qty.Equal(dec("2")) || !avg.Equal(dec("1.195")) {
		t.Fatalf("unexpected position after flip: qty=%s avg=%s", qty, avg)
	}
}

func TestPaperExecutor_RejectsZeroQty(t *testing.T) {
	ex := newEURUSD()
	if _, err := ex.Submit(types.Order{Symbol: "EURUSD", Side: types.Buy, Qty: decimal.Zero, Price: dec("1.2")}); err == nil {
		t.Fatal("expected error for zero qty")
	}
}
