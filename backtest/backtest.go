package backtest

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/strategy"
	"github.com/evdnx/zonerecovery/zone"
)

var ErrNoCandles = errors.New("backtest: no candles")

// Account is the paper book the runner marks to each close.
type Account interface {
	Mark(symbol string, price decimal.Decimal)
	Balance() decimal.Decimal
	Equity() decimal.Decimal
}

// Report summarises one replay.
type Report struct {
	Bars         int
	CyclesOpened int
	CyclesClosed int
	Wins         int
	Losses       int
	Reasons      map[zone.Reason]int
	Balance      decimal.Decimal
	Equity       decimal.Decimal
	MaxDrawdown  decimal.Decimal
}

// Runner replays candles through a strategy. Register it as (one of) the
// controller's listeners to have cycle outcomes counted in the report.
type Runner struct {
	Symbol   string
	Strategy strategy.BarProcessor
	Account  Account
	Log      logger.Logger

	// ProgressEvery logs a progress line every n bars; 0 disables it.
	ProgressEvery int

	report Report
}

func (r *Runner) OnCycleEvent(ev zone.Event) {
	switch ev.Kind {
	case zone.EventCycleStarted:
		r.report.CyclesOpened++
	case zone.EventCycleClosed:
		r.report.CyclesClosed++
		if r.report.Reasons == nil {
			r.report.Reasons = make(map[zone.Reason]int)
		}
		r.report.Reasons[ev.Reason]++
		if ev.Profit.IsPositive() {
			r.report.Wins++
		} else {
			r.report.Losses++
		}
	}
}

// Run feeds every candle to the strategy after marking the account to its
// close. Cancellation is checked between bars; the partial report is
// returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, candles []Candle) (Report, error) {
	if len(candles) == 0 {
		return Report{}, ErrNoCandles
	}
	log := r.Log
	if log == nil {
		log = logger.NewNop()
	}
	r.report = Report{Reasons: make(map[zone.Reason]int)}
	peak := decimal.Zero

	for i, c := range candles {
		if err := ctx.Err(); err != nil {
			log.Warn("backtest_cancelled", logger.Int("bar", i))
			return r.finish(), err
		}
		r.Account.Mark(r.Symbol, decimal.NewFromFloat(c.Close))
		r.Strategy.ProcessBar(c.High, c.Low, c.Close, c.Volume)
		r.report.Bars++

		eq := r.Account.Equity()
		if eq.GreaterThan(peak) {
			peak = eq
		}
		if dd := peak.Sub(eq); dd.GreaterThan(r.report.MaxDrawdown) {
			r.report.MaxDrawdown = dd
		}
		if r.ProgressEvery > 0 && (i+1)%r.ProgressEvery == 0 {
			log.Info("backtest_progress",
				logger.Int("bar", i+1),
				logger.Int("cycles_closed", r.report.CyclesClosed),
				logger.Stringer("equity", eq),
			)
		}
	}
	rep := r.finish()
	log.Info("backtest_complete",
		logger.Int("bars", rep.Bars),
		logger.Int("cycles_closed", rep.CyclesClosed),
		logger.Int("wins", rep.Wins),
		logger.Int("losses", rep.Losses),
		logger.Stringer("balance", rep.Balance),
		logger.Stringer("equity", rep.Equity),
	)
	return rep, nil
}

func (r *Runner) finish() Report {
	r.report.Balance = r.Account.Balance()
	r.report.Equity = r.Account.Equity()
	return r.report
}
