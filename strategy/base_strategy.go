package strategy

import (
	"github.com/evdnx/goti"
	"github.com/shopspring/decimal"

	"github.com/evdnx/zonerecovery/config"
	"github.com/evdnx/zonerecovery/executor"
	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/risk"
	"github.com/evdnx/zonerecovery/zone"
)

// BaseStrategy bundles the common dependencies and helpers.
type BaseStrategy struct {
	Exec   executor.Executor
	Log    logger.Logger
	Cfg    config.StrategyConfig
	Suite  *goti.IndicatorSuite
	Symbol string
	Cycle  *zone.Controller
	prices *priceBuffer
}

// NewBaseStrategy creates the indicator suite (using the supplied factory),
// validates the config and wires the cycle controller. name labels logs and
// metrics; equityStop selects the guarded exit set.
func NewBaseStrategy(name, symbol string, cfg config.StrategyConfig,
	exec executor.Executor,
	suiteFactory func() (*goti.IndicatorSuite, error),
	log logger.Logger, equityStop bool) (*BaseStrategy, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	suite, err := suiteFactory()
	if err != nil {
		return nil, err
	}
	policy, err := cyclePolicy(cfg, equityStop)
	if err != nil {
		return nil, err
	}
	inst := zone.Instrument{
		Symbol:    symbol,
		TickSize:  decimal.NewFromFloat(cfg.TickSize),
		TickValue: decimal.NewFromFloat(cfg.TickValue),
	}
	return &BaseStrategy{
		Exec:   exec,
		Log:    log,
		Cfg:    cfg,
		Suite:  suite,
		Symbol: symbol,
		Cycle:  zone.NewController(name, inst, policy, exec, exec, log),
		prices: newPriceBuffer(max(64, cfg.WarmupBars+1)),
	}, nil
}

// cyclePolicy translates the float config into the controller's policy.
func cyclePolicy(cfg config.StrategyConfig, equityStop bool) (zone.Policy, error) {
	mode, err := risk.ParseMode(cfg.VolumeMode)
	if err != nil {
		return zone.Policy{}, err
	}
	return zone.Policy{
		InitialVolume: decimal.NewFromFloat(cfg.InitialVolume),
		Volume: risk.Policy{
			Mode:      mode,
			Factor:    decimal.NewFromFloat(cfg.VolumeMultiplier),
			Increment: decimal.NewFromFloat(cfg.VolumeIncrement),
		},
		ZoneWidthTicks:      decimal.NewFromFloat(cfg.ZoneWidth),
		ZoneTakeProfitTicks: decimal.NewFromFloat(cfg.ZoneTakeProfit),
		MaxTrades:           cfg.MaxTrades,
		Exit: zone.ExitPolicy{
			MoneyTakeProfit:   decimal.NewFromFloat(cfg.MoneyTakeProfit),
			PercentTakeProfit: decimal.NewFromFloat(cfg.PercentTakeProfit),
			TrailingStart:     decimal.NewFromFloat(cfg.TrailingStart),
			TrailingGiveback:  decimal.NewFromFloat(cfg.TrailingGiveback),
			EquityRiskPercent: decimal.NewFromFloat(cfg.EquityRiskPercent),
			EquityStop:        equityStop,
		},
	}, nil
}

// step forwards close to the cycle controller. It reports true when the
// controller was idle before and after the update, i.e. the caller may
// consider opening a new cycle on this bar.
func (b *BaseStrategy) step(close float64) bool {
	price := decimal.NewFromFloat(close)
	wasActive := b.Cycle.Active()
	res, err := b.Cycle.OnPriceUpdate(price)
	if err != nil {
		b.Log.Error("cycle_update_failed",
			logger.String("symbol", b.Symbol),
			logger.Float64("price", close),
			logger.Err(err),
		)
		return false
	}
	return !wasActive && res.Action == zone.ActionNone && !b.Cycle.Active()
}

// openCycle starts a cycle in the given direction at close.
func (b *BaseStrategy) openCycle(long bool, close float64) {
	if err := b.Cycle.StartCycle(long, decimal.NewFromFloat(close)); err != nil {
		b.Log.Error("cycle_start_failed",
			logger.String("symbol", b.Symbol),
			logger.Bool("long", long),
			logger.Err(err),
		)
	}
}

func (b *BaseStrategy) recordPrice(close float64) {
	if b.prices != nil {
		b.prices.Add(close)
	}
}

func (b *BaseStrategy) bullishFallback() bool {
	if b.prices == nil || b.prices.Len() < 3 {
		return false
	}
	return b.prices.Trend() > 0 && b.prices.Slope() > 0
}

func (b *BaseStrategy) bearishFallback() bool {
	if b.prices == nil || b.prices.Len() < 3 {
		return false
	}
	return b.prices.Trend() < 0 && b.prices.Slope() < 0
}

func (b *BaseStrategy) hasHistory(n int) bool {
	if n <= 0 {
		return true
	}
	if b.prices == nil {
		return false
	}
	return b.prices.Len() >= n
}

// hmaTrend combines the HMA crossover with the price-buffer fallback:
// +1 bullish, -1 bearish, 0 when both or neither fire.
func (b *BaseStrategy) hmaTrend() int {
	bull := b.bullishFallback()
	if ok, err := b.Suite.GetHMA().IsBullishCrossover(); err == nil {
		bull = bull || ok
	}
	bear := b.bearishFallback()
	if ok, err := b.Suite.GetHMA().IsBearishCrossover(); err == nil {
		bear = bear || ok
	}
	switch {
	case bull && !bear:
		return 1
	case bear && !bull:
		return -1
	}
	return 0
}
