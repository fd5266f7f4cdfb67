package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given .env files (".env" when none is given) without
// overriding variables already set in the process. Missing files are not an
// error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// FromEnv overlays variables named prefix+KEY (e.g. ZR_ZONE_WIDTH) on top
// of Default. Unparseable values keep the default.
func FromEnv(prefix string) StrategyConfig {
	d := Default()
	return StrategyConfig{
		TickSize:          getEnvFloat(prefix+"TICK_SIZE", d.TickSize),
		TickValue:         getEnvFloat(prefix+"TICK_VALUE", d.TickValue),
		InitialVolume:     getEnvFloat(prefix+"INITIAL_VOLUME", d.InitialVolume),
		VolumeMode:        getEnv(prefix+"VOLUME_MODE", d.VolumeMode),
		VolumeMultiplier:  getEnvFloat(prefix+"VOLUME_MULTIPLIER", d.VolumeMultiplier),
		VolumeIncrement:   getEnvFloat(prefix+"VOLUME_INCREMENT", d.VolumeIncrement),
		MaxTrades:         getEnvInt(prefix+"MAX_TRADES", d.MaxTrades),
		ZoneWidth:         getEnvFloat(prefix+"ZONE_WIDTH", d.ZoneWidth),
		ZoneTakeProfit:    getEnvFloat(prefix+"ZONE_TAKE_PROFIT", d.ZoneTakeProfit),
		MoneyTakeProfit:   getEnvFloat(prefix+"MONEY_TAKE_PROFIT", d.MoneyTakeProfit),
		PercentTakeProfit: getEnvFloat(prefix+"PERCENT_TAKE_PROFIT", d.PercentTakeProfit),
		TrailingStart:     getEnvFloat(prefix+"TRAILING_START", d.TrailingStart),
		TrailingGiveback:  getEnvFloat(prefix+"TRAILING_GIVEBACK", d.TrailingGiveback),
		EquityRiskPercent: getEnvFloat(prefix+"EQUITY_RISK_PERCENT", d.EquityRiskPercent),
		WarmupBars:        getEnvInt(prefix+"WARMUP_BARS", d.WarmupBars),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
