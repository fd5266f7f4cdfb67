package strategy

import (
	"github.com/evdnx/goti"

	"github.com/evdnx/zonerecovery/config"
	"github.com/evdnx/zonerecovery/executor"
	"github.com/evdnx/zonerecovery/logger"
)

// ZoneRecoveryGuard is ZoneRecovery with an ATSO confirmation on entry and
// the equity-risk stop enabled on the cycle.
type ZoneRecoveryGuard struct {
	*BaseStrategy
}

func NewZoneRecoveryGuard(symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*ZoneRecoveryGuard, error) {

	suiteFactory := func() (*goti.IndicatorSuite, error) {
		ic := goti.DefaultConfig()
		ic.ATSEMAperiod = 5
		return goti.NewIndicatorSuiteWithConfig(ic)
	}
	base, err := NewBaseStrategy("zone_recovery_guard", symbol, cfg, exec, suiteFactory, log, true)
	if err != nil {
		return nil, err
	}
	return &ZoneRecoveryGuard{BaseStrategy: base}, nil
}

func (g *ZoneRecoveryGuard) ProcessBar(high, low, close, volume float64) {
	suiteErr := g.Suite.Add(high, low, close, volume)
	if suiteErr != nil {
		g.Log.Warn("suite_add_error", logger.Err(suiteErr))
	}
	g.recordPrice(close)

	// Exits run on every bar; entries need a clean indicator update.
	if !g.step(close) || suiteErr != nil {
		return
	}
	if !g.hasHistory(g.Cfg.WarmupBars) {
		return
	}

	atBull := g.bullishFallback() || g.Suite.GetATSO().IsBullishCrossover()
	atBear := g.bearishFallback() || g.Suite.GetATSO().IsBearishCrossover()
	switch trend := g.hmaTrend(); {
	case trend == 1 && atBull && !atBear:
		g.openCycle(true, close)
	case trend == -1 && atBear && !atBull:
		g.openCycle(false, close)
	}
}
