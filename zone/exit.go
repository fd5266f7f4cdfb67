package zone

import "github.com/shopspring/decimal"

// Reason names the criterion that liquidated a cycle.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonZoneTakeProfit    Reason = "zone_take_profit"
	ReasonMoneyTakeProfit   Reason = "money_take_profit"
	ReasonPercentTakeProfit Reason = "percent_take_profit"
	ReasonEquityStop        Reason = "equity_stop"
	ReasonTrailingGiveback  Reason = "trailing_giveback"
	ReasonManual            Reason = "manual"
)

var hundred = decimal.NewFromInt(100)

// ExitPolicy holds the money-denominated exit thresholds. A zero (or
// negative) threshold disables its criterion.
type ExitPolicy struct {
	MoneyTakeProfit   decimal.Decimal
	PercentTakeProfit decimal.Decimal
	TrailingStart     decimal.Decimal
	TrailingGiveback  decimal.Decimal
	EquityRiskPercent decimal.Decimal
	// EquityStop turns on the equity-high drawdown criterion.
	EquityStop bool
}

// ExitEvaluator arbitrates the exit criteria of an active cycle.
type ExitEvaluator struct {
	// TakeProfitOffset is the zone take-profit distance from the base price
	// as an absolute price offset.
	TakeProfitOffset decimal.Decimal
	Policy           ExitPolicy
}

// ExitInput is the per-tick snapshot every criterion reads.
type ExitInput struct {
	Long       bool
	BasePrice  decimal.Decimal
	Price      decimal.Decimal
	Profit     decimal.Decimal
	Balance    decimal.Decimal
	PeakProfit decimal.Decimal
	EquityHigh decimal.Decimal
}

// Decision is the outcome of one evaluation. PeakProfit is the trailing
// peak to carry into the next tick when no criterion fired.
type Decision struct {
	Reason     Reason
	PeakProfit decimal.Decimal
}

func (d Decision) Close() bool { return d.Reason != ReasonNone }

// Evaluate checks the criteria in priority order and returns the first hit:
//
//  1. zone take-profit
//  2. money take-profit
//  3. percent-of-balance take-profit
//  4. equity stop (only when enabled)
//  5. trailing giveback
func (e ExitEvaluator) Evaluate(in ExitInput) Decision {
	switch {
	case e.zoneTakeProfit(in):
		return Decision{Reason: ReasonZoneTakeProfit, PeakProfit: in.PeakProfit}
	case e.moneyTakeProfit(in):
		return Decision{Reason: ReasonMoneyTakeProfit, PeakProfit: in.PeakProfit}
	case e.percentTakeProfit(in):
		return Decision{Reason: ReasonPercentTakeProfit, PeakProfit: in.PeakProfit}
	case e.equityStop(in):
		return Decision{Reason: ReasonEquityStop, PeakProfit: in.PeakProfit}
	case e.trailingGiveback(in):
		return Decision{Reason: ReasonTrailingGiveback, PeakProfit: in.PeakProfit}
	}
	return Decision{PeakProfit: e.nextPeak(in)}
}

func (e ExitEvaluator) zoneTakeProfit(in ExitInput) bool {
	if !e.TakeProfitOffset.IsPositive() {
		return false
	}
	if in.Long {
		return in.Price.GreaterThanOrEqual(in.BasePrice.Add(e.TakeProfitOffset))
	}
	return in.Price.LessThanOrEqual(in.BasePrice.Sub(e.TakeProfitOffset))
}

func (e ExitEvaluator) moneyTakeProfit(in ExitInput) bool {
	target := e.Policy.MoneyTakeProfit
	return target.IsPositive() && in.Profit.GreaterThanOrEqual(target)
}

// percentTakeProfit is skipped when no balance reading is available.
func (e ExitEvaluator) percentTakeProfit(in ExitInput) bool {
	pct := e.Policy.PercentTakeProfit
	if !pct.IsPositive() || !in.Balance.IsPositive() {
		return false
	}
	return in.Profit.GreaterThanOrEqual(in.Balance.Mul(pct).Div(hundred))
}

func (e ExitEvaluator) equityStop(in ExitInput) bool {
	risk := e.Policy.EquityRiskPercent
	if !e.Policy.EquityStop || !risk.IsPositive() || !in.EquityHigh.IsPositive() {
		return false
	}
	if !in.Profit.IsNegative() {
		return false
	}
	return in.Profit.Abs().GreaterThanOrEqual(in.EquityHigh.Mul(risk).Div(hundred))
}

func (e ExitEvaluator) trailingEnabled() bool { return e.Policy.TrailingGiveback.IsPositive() }

// trailingGiveback fires on the peak carried in from earlier ticks; the peak
// itself is only raised after the check (see nextPeak).
func (e ExitEvaluator) trailingGiveback(in ExitInput) bool {
	if !e.trailingEnabled() || !in.PeakProfit.IsPositive() {
		return false
	}
	return in.PeakProfit.Sub(in.Profit).GreaterThanOrEqual(e.Policy.TrailingGiveback)
}

func (e ExitEvaluator) nextPeak(in ExitInput) decimal.Decimal {
	if !e.trailingEnabled() {
		return decimal.Zero
	}
	if in.Profit.GreaterThanOrEqual(e.Policy.TrailingStart) {
		return decimal.Max(in.PeakProfit, in.Profit)
	}
	return in.PeakProfit
}
