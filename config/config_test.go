package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateSuccess(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateAcceptsDisabledFeatures(t *testing.T) {
	cfg := Default()
	cfg.InitialVolume = 0
	cfg.ZoneWidth = -5
	if err := cfg.Validate(); err != nil {
		t.Fatalf("non-positive volume/zone width must degrade, not fail: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *StrategyConfig)
		want   error
	}{
		{"negative tick size", func(c *StrategyConfig) { c.TickSize = -1 }, ErrNegativeTick},
		{"negative max trades", func(c *StrategyConfig) { c.MaxTrades = -1 }, ErrMaxTradesNegative},
		{"negative giveback", func(c *StrategyConfig) { c.TrailingGiveback = -1 }, ErrNegativeThreshold},
		{"negative warmup", func(c *StrategyConfig) { c.WarmupBars = -1 }, ErrWarmupBarsNegative},
		{"unknown volume mode", func(c *StrategyConfig) { c.VolumeMode = "fibonacci" }, nil},
		{"equity risk above 100", func(c *StrategyConfig) { c.EquityRiskPercent = 150 }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ZR_ZONE_WIDTH", "35")
	t.Setenv("ZR_VOLUME_MODE", "add")
	t.Setenv("ZR_MAX_TRADES", "4")
	t.Setenv("ZR_MONEY_TAKE_PROFIT", "not-a-number")

	cfg := FromEnv("ZR_")
	if cfg.ZoneWidth != 35 || cfg.VolumeMode != "add" || cfg.MaxTrades != 4 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.MoneyTakeProfit != Default().MoneyTakeProfit {
		t.Fatalf("bad value should keep default, got %v", cfg.MoneyTakeProfit)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zr.env")
	if err := os.WriteFile(path, []byte("ZR_TEST_TICK_VALUE=12.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ZR_TEST_TICK_VALUE") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := FromEnv("ZR_TEST_").TickValue; got != 12.5 {
		t.Fatalf("expected tick value 12.5 from .env, got %v", got)
	}
}
