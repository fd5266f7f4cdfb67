package strategy

import (
	"github.com/evdnx/goti"

	"github.com/evdnx/zonerecovery/config"
	"github.com/evdnx/zonerecovery/executor"
	"github.com/evdnx/zonerecovery/logger"
)

// ZoneRecovery opens a recovery cycle in the direction of an HMA crossover
// and lets the cycle controller hedge and unwind it. Exits A through D.
type ZoneRecovery struct {
	*BaseStrategy
}

// NewZoneRecovery builds the suite and wires the cycle controller.
func NewZoneRecovery(symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (*ZoneRecovery, error) {

	suiteFactory := func() (*goti.IndicatorSuite, error) {
		return goti.NewIndicatorSuiteWithConfig(goti.DefaultConfig())
	}
	base, err := NewBaseStrategy("zone_recovery", symbol, cfg, exec, suiteFactory, log, false)
	if err != nil {
		return nil, err
	}
	return &ZoneRecovery{BaseStrategy: base}, nil
}

// ProcessBar advances the cycle on close and, while idle, looks for a
// fresh trend to start the next one.
func (z *ZoneRecovery) ProcessBar(high, low, close, volume float64) {
	suiteErr := z.Suite.Add(high, low, close, volume)
	if suiteErr != nil {
		z.Log.Warn("suite_add_error", logger.Err(suiteErr))
	}
	z.recordPrice(close)

	// Exits run on every bar; entries need a clean indicator update.
	if !z.step(close) || suiteErr != nil {
		return
	}
	if !z.hasHistory(z.Cfg.WarmupBars) {
		return
	}
	switch z.hmaTrend() {
	case 1:
		z.openCycle(true, close)
	case -1:
		z.openCycle(false, close)
	}
}
