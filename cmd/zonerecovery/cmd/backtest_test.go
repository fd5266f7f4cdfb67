package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evdnx/zonerecovery/config"
	"github.com/evdnx/zonerecovery/testutils"
)

func TestNewStrategy_Variants(t *testing.T) {
	exec := testutils.NewMockExecutor(10_000)
	for _, v := range []string{"recovery", "guard"} {
		s, cycle, err := newStrategy(v, "EURUSD", config.Default(), exec, testutils.NewMockLogger())
		if err != nil || s == nil || cycle == nil {
			t.Fatalf("variant %s: strat=%v cycle=%v err=%v", v, s, cycle, err)
		}
	}
	if _, _, err := newStrategy("martingale", "EURUSD", config.Default(), exec, testutils.NewMockLogger()); err == nil {
		t.Fatalf("expected unknown variant error")
	}
}

func TestBacktestCommand(t *testing.T) {
	dir := t.TempDir()
	var csv strings.Builder
	csv.WriteString("time,open,high,low,close,volume\n")
	for i := 1; i <= 55; i++ {
		p := 1.1000 + 0.0001*float64(i)
		fmt.Fprintf(&csv, "%d,%.4f,%.4f,%.4f,%.4f,1000\n", 1704067200+60*i, p, p+0.0002, p-0.0002, p)
	}
	path := filepath.Join(dir, "bars.csv")
	if err := os.WriteFile(path, []byte(csv.String()), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ZR_INITIAL_VOLUME", "1")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"backtest", "--csv", path, "--env", filepath.Join(dir, "none.env"),
		"--progress", "0", "--log-file", filepath.Join(dir, "zr.log")})
	if err := Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	for _, want := range []string{"bars            55", "cycles closed   1 (wins 1, losses 0)", "balance         10400.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}
