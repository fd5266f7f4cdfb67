package config

import (
	"errors"
	"fmt"

	"github.com/evdnx/zonerecovery/risk"
)

// StrategyConfig holds all tunable parameters of a zone recovery strategy.
// Distances are in ticks of the instrument; money amounts are in account
// currency. A zero threshold disables its exit criterion.
type StrategyConfig struct {
	// Instrument metadata
	TickSize  float64 // e.g. 0.0001 for a 4-digit FX pair
	TickValue float64 // money value of one tick per lot

	// Ladder
	InitialVolume    float64 // <= 0 keeps the strategy from ever opening a cycle
	VolumeMode       string  // "multiply" or "add"
	VolumeMultiplier float64 // used by "multiply", e.g. 2
	VolumeIncrement  float64 // used by "add"
	MaxTrades        int     // steps per cycle, initial step included

	// Zone geometry (ticks)
	ZoneWidth      float64 // <= 0 disables hedge steps
	ZoneTakeProfit float64 // 0 = disabled

	// Money exits
	MoneyTakeProfit   float64 // fixed currency amount
	PercentTakeProfit float64 // % of balance
	TrailingStart     float64 // profit at which the trailing peak starts to follow
	TrailingGiveback  float64 // allowed retracement from the peak; 0 = disabled
	EquityRiskPercent float64 // % of equity high; only used by the guarded variant

	// Trend filter
	WarmupBars int // bars of history before the first cycle may start
}

var (
	ErrNegativeTick       = errors.New("tick size and tick value cannot be negative")
	ErrNegativeThreshold  = errors.New("exit thresholds cannot be negative")
	ErrMaxTradesNegative  = errors.New("MaxTrades cannot be negative")
	ErrWarmupBarsNegative = errors.New("WarmupBars cannot be negative")
)

// Default returns a 4-digit FX setup: 0.1 lot doubling every 20 pips, zone
// take-profit at 40 pips, up to 8 steps.
func Default() StrategyConfig {
	return StrategyConfig{
		TickSize:          0.0001,
		TickValue:         10,
		InitialVolume:     0.1,
		VolumeMode:        "multiply",
		VolumeMultiplier:  2,
		MaxTrades:         8,
		ZoneWidth:         20,
		ZoneTakeProfit:    40,
		TrailingStart:     0,
		EquityRiskPercent: 20,
		WarmupBars:        15,
	}
}

// Validate rejects structurally invalid values. Non-positive InitialVolume
// or ZoneWidth are accepted and switch the matching feature off.
func (c *StrategyConfig) Validate() error {
	if c.TickSize < 0 || c.TickValue < 0 {
		return ErrNegativeTick
	}
	if _, err := risk.ParseMode(c.VolumeMode); err != nil {
		return fmt.Errorf("VolumeMode: %w", err)
	}
	if c.MaxTrades < 0 {
		return ErrMaxTradesNegative
	}
	if c.WarmupBars < 0 {
		return ErrWarmupBarsNegative
	}
	for name, v := range map[string]float64{
		"ZoneTakeProfit":    c.ZoneTakeProfit,
		"MoneyTakeProfit":   c.MoneyTakeProfit,
		"PercentTakeProfit": c.PercentTakeProfit,
		"TrailingStart":     c.TrailingStart,
		"TrailingGiveback":  c.TrailingGiveback,
		"EquityRiskPercent": c.EquityRiskPercent,
	} {
		if v < 0 {
			return fmt.Errorf("%s (%f): %w", name, v, ErrNegativeThreshold)
		}
	}
	if c.EquityRiskPercent > 100 {
		return fmt.Errorf("EquityRiskPercent (%f) must be <= 100", c.EquityRiskPercent)
	}
	return nil
}
