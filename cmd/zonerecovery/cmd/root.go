package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evdnx/zonerecovery/config"
)

var (
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "zonerecovery",
	Short: "Zone recovery cycle engine",
	Long: `Zone recovery cycle engine.

Strategy settings are read from ZR_* environment variables, optionally
loaded from a .env file first.

Commands:
    backtest    replay a candle CSV through a paper account
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading ZR_* variables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(backtestCmd)
}

func initConfig() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}
