// Command zonerecovery replays candle files through the zone recovery
// strategies.
//
//	go run ./cmd/zonerecovery backtest --csv bars.csv --variant guard
package main

import (
	"os"

	"github.com/evdnx/zonerecovery/cmd/zonerecovery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
