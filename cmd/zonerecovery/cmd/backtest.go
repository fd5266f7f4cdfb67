package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/evdnx/zonerecovery/backtest"
	"github.com/evdnx/zonerecovery/config"
	"github.com/evdnx/zonerecovery/executor"
	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/strategy"
	"github.com/evdnx/zonerecovery/telemetry"
	"github.com/evdnx/zonerecovery/zone"
)

var btFlags struct {
	csv      string
	variant  string
	symbol   string
	balance  float64
	listen   string
	hold     bool
	redis    string
	stream   string
	logFile  string
	progress int
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a candle CSV through a paper account",
	Long: `Replay a candle CSV through one of the zone recovery strategies.

Examples:
  zonerecovery backtest --csv eurusd_m1.csv
  zonerecovery backtest --csv eurusd_m1.csv --variant guard --listen :8080 --hold
  zonerecovery backtest --csv eurusd_m1.csv --redis 127.0.0.1:6379`,
	RunE: runBacktest,
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&btFlags.csv, "csv", "", "candle CSV (time,open,high,low,close,volume)")
	f.StringVar(&btFlags.variant, "variant", "recovery", "strategy variant: recovery|guard")
	f.StringVar(&btFlags.symbol, "symbol", "EURUSD", "instrument symbol")
	f.Float64Var(&btFlags.balance, "balance", 10_000, "starting paper balance")
	f.StringVar(&btFlags.listen, "listen", "", "serve /healthz, /metrics, /ws and /cycles on this address")
	f.BoolVar(&btFlags.hold, "hold", false, "keep serving after the replay until interrupted")
	f.StringVar(&btFlags.redis, "redis", "", "journal cycle events to this redis address")
	f.StringVar(&btFlags.stream, "stream", "zr:events", "redis stream name")
	f.StringVar(&btFlags.logFile, "log-file", "", "also write JSON logs to this rotating file")
	f.IntVar(&btFlags.progress, "progress", 1000, "log progress every n bars (0 disables)")
	_ = backtestCmd.MarkFlagRequired("csv")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(btFlags.logFile)
	if err != nil {
		return err
	}

	cfg := config.FromEnv("ZR_")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "config          %+v\n", cfg)
	}
	candles, err := backtest.LoadCSV(btFlags.csv)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}
	log.Info("backtest_loaded",
		logger.String("csv", btFlags.csv),
		logger.Int("bars", len(candles)),
		logger.String("variant", btFlags.variant),
	)

	paper := executor.NewPaperExecutor(decimal.NewFromFloat(btFlags.balance),
		decimal.NewFromFloat(cfg.TickSize), decimal.NewFromFloat(cfg.TickValue))
	strat, cycle, err := newStrategy(btFlags.variant, btFlags.symbol, cfg, paper, log)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Symbol:        btFlags.symbol,
		Strategy:      strat,
		Account:       paper,
		Log:           log,
		ProgressEvery: btFlags.progress,
	}
	board := telemetry.NewBoard()
	listeners := telemetry.Fanout{runner, board}

	if btFlags.redis != "" {
		rdb := redis.NewClient(&redis.Options{Addr: btFlags.redis})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis %s: %w", btFlags.redis, err)
		}
		listeners = append(listeners, telemetry.NewRedisJournal(rdb, btFlags.stream, 100_000, log))
	}

	var srv *http.Server
	if btFlags.listen != "" {
		hub := telemetry.NewHub(256, log)
		go hub.Run(ctx)
		listeners = append(listeners, hub)

		srv = &http.Server{
			Addr:              btFlags.listen,
			Handler:           telemetry.NewRouter(hub, board),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("http_listening", logger.String("addr", btFlags.listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http_server_failed", logger.Err(err))
			}
		}()
	}
	cycle.SetListener(listeners)

	rep, runErr := runner.Run(ctx, candles)
	printReport(cmd, rep)

	if srv != nil {
		if btFlags.hold && runErr == nil {
			log.Info("backtest_holding", logger.String("addr", btFlags.listen))
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http_shutdown_failed", logger.Err(err))
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func newLogger(path string) (logger.Logger, error) {
	if path == "" {
		return logger.NewZapLogger()
	}
	return logger.NewFileLogger(logger.FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 5,
		MaxAgeDays: 14,
	})
}

func newStrategy(variant, symbol string, cfg config.StrategyConfig,
	exec executor.Executor, log logger.Logger) (strategy.BarProcessor, *zone.Controller, error) {

	switch variant {
	case "recovery", "":
		s, err := strategy.NewZoneRecovery(symbol, cfg, exec, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Cycle, nil
	case "guard":
		s, err := strategy.NewZoneRecoveryGuard(symbol, cfg, exec, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Cycle, nil
	}
	return nil, nil, fmt.Errorf("unknown variant %q (want recovery|guard)", variant)
}

func printReport(cmd *cobra.Command, rep backtest.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bars            %d\n", rep.Bars)
	fmt.Fprintf(out, "cycles opened   %d\n", rep.CyclesOpened)
	fmt.Fprintf(out, "cycles closed   %d (wins %d, losses %d)\n", rep.CyclesClosed, rep.Wins, rep.Losses)
	reasons := make([]string, 0, len(rep.Reasons))
	for reason := range rep.Reasons {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(out, "  %-20s %d\n", reason, rep.Reasons[zone.Reason(reason)])
	}
	fmt.Fprintf(out, "balance         %s\n", rep.Balance.StringFixed(2))
	fmt.Fprintf(out, "equity          %s\n", rep.Equity.StringFixed(2))
	fmt.Fprintf(out, "max drawdown    %s\n", rep.MaxDrawdown.StringFixed(2))
}
