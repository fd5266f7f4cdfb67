package zone

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerSumAndProfitSignConvention(t *testing.T) {
	var l Ledger
	l.Append(Step{Buy: true, Price: dec("1.2000"), Volume: dec("1")})
	l.Append(Step{Buy: false, Price: dec("1.1990"), Volume: dec("2")})

	if got := l.Sum(); !got.Equal(dec("-1")) {
		t.Fatalf("expected net volume -1, got %s", got)
	}
	// buy leg +500, sell leg -1200 as price rose above both fills
	got := l.CycleProfit(dec("1.2050"), dec("0.0001"), dec("10"))
	if !got.Equal(dec("-700")) {
		t.Fatalf("expected cycle profit -700, got %s", got)
	}
}

func TestLedgerProfitWithoutTickMetadata(t *testing.T) {
	var l Ledger
	l.Append(Step{Buy: true, Price: dec("1.2"), Volume: dec("1")})
	if got := l.CycleProfit(dec("1.3"), dec("0.0001"), decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero profit without tick value, got %s", got)
	}
}

func TestLedgerStepsIsACopy(t *testing.T) {
	var l Ledger
	l.Append(Step{Buy: true, Price: dec("1"), Volume: dec("1")})
	steps := l.Steps()
	steps[0].Volume = dec("99")
	last, ok := l.Last()
	if !ok || !last.Volume.Equal(dec("1")) {
		t.Fatalf("ledger mutated through Steps() copy: %+v", last)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger after Clear, got %d", l.Len())
	}
	if _, ok := l.Last(); ok {
		t.Fatal("Last on empty ledger must report false")
	}
}
