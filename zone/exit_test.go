package zone

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExitEvaluator(t *testing.T) {
	base := dec("1.2000")

	cases := []struct {
		name     string
		eval     ExitEvaluator
		in       ExitInput
		want     Reason
		wantPeak string
	}{
		{
			name: "long zone take-profit at boundary",
			eval: ExitEvaluator{TakeProfitOffset: dec("0.0020")},
			in:   ExitInput{Long: true, BasePrice: base, Price: dec("1.2020")},
			want: ReasonZoneTakeProfit,
		},
		{
			name: "short zone take-profit",
			eval: ExitEvaluator{TakeProfitOffset: dec("0.0020")},
			in:   ExitInput{Long: false, BasePrice: base, Price: dec("1.1979")},
			want: ReasonZoneTakeProfit,
		},
		{
			name: "zero offset disables zone take-profit",
			eval: ExitEvaluator{},
			in:   ExitInput{Long: true, BasePrice: base, Price: dec("5")},
			want: ReasonNone,
		},
		{
			name: "money take-profit",
			eval: ExitEvaluator{Policy: ExitPolicy{MoneyTakeProfit: dec("40")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("40")},
			want: ReasonMoneyTakeProfit,
		},
		{
			name: "percent take-profit",
			eval: ExitEvaluator{Policy: ExitPolicy{PercentTakeProfit: dec("1")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("100"), Balance: dec("10000")},
			want: ReasonPercentTakeProfit,
		},
		{
			name: "percent take-profit skipped without balance",
			eval: ExitEvaluator{Policy: ExitPolicy{PercentTakeProfit: dec("1")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("100")},
			want: ReasonNone,
		},
		{
			name: "equity stop",
			eval: ExitEvaluator{Policy: ExitPolicy{EquityStop: true, EquityRiskPercent: dec("5")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("-500"), EquityHigh: dec("10000")},
			want: ReasonEquityStop,
		},
		{
			name: "equity stop off in variant without it",
			eval: ExitEvaluator{Policy: ExitPolicy{EquityRiskPercent: dec("5")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("-5000"), EquityHigh: dec("10000")},
			want: ReasonNone,
		},
		{
			name: "trailing giveback from carried peak",
			eval: ExitEvaluator{Policy: ExitPolicy{TrailingStart: dec("50"), TrailingGiveback: dec("30")}},
			in:   ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("50"), PeakProfit: dec("80")},
			want: ReasonTrailingGiveback,
		},
		{
			name:     "trailing raises peak above start",
			eval:     ExitEvaluator{Policy: ExitPolicy{TrailingStart: dec("50"), TrailingGiveback: dec("30")}},
			in:       ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("90"), PeakProfit: dec("80")},
			want:     ReasonNone,
			wantPeak: "90",
		},
		{
			name:     "trailing peak untouched below start",
			eval:     ExitEvaluator{Policy: ExitPolicy{TrailingStart: dec("50"), TrailingGiveback: dec("30")}},
			in:       ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("20")},
			want:     ReasonNone,
			wantPeak: "0",
		},
		{
			name:     "disabled trailing pins peak at zero",
			eval:     ExitEvaluator{Policy: ExitPolicy{TrailingStart: dec("50")}},
			in:       ExitInput{Long: true, BasePrice: base, Price: base, Profit: dec("500"), PeakProfit: dec("10")},
			want:     ReasonNone,
			wantPeak: "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.eval.Evaluate(tc.in)
			if got.Reason != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got.Reason)
			}
			if tc.wantPeak != "" && !got.PeakProfit.Equal(dec(tc.wantPeak)) {
				t.Fatalf("expected peak %s, got %s", tc.wantPeak, got.PeakProfit)
			}
		})
	}
}

func TestExitPriorityZoneBeforeTrailing(t *testing.T) {
	eval := ExitEvaluator{
		TakeProfitOffset: dec("0.0030"),
		Policy:           ExitPolicy{TrailingStart: dec("50"), TrailingGiveback: dec("100")},
	}
	in := ExitInput{
		Long:       true,
		BasePrice:  dec("1.2000"),
		Price:      dec("1.2030"),
		Profit:     dec("-500"),
		PeakProfit: dec("100"),
	}
	if got := eval.Evaluate(in).Reason; got != ReasonZoneTakeProfit {
		t.Fatalf("expected zone take-profit to win, got %q", got)
	}

	eval.TakeProfitOffset = decimal.Zero
	if got := eval.Evaluate(in).Reason; got != ReasonTrailingGiveback {
		t.Fatalf("expected trailing giveback once zone take-profit is off, got %q", got)
	}
}

func TestExitPriorityMoneyBeforePercent(t *testing.T) {
	eval := ExitEvaluator{Policy: ExitPolicy{MoneyTakeProfit: dec("10"), PercentTakeProfit: dec("0.1")}}
	in := ExitInput{Long: true, BasePrice: dec("1"), Price: dec("1"), Profit: dec("20"), Balance: dec("10000")}
	if got := eval.Evaluate(in).Reason; got != ReasonMoneyTakeProfit {
		t.Fatalf("expected money take-profit first, got %q", got)
	}
}
