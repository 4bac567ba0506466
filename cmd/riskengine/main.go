package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "riskengine"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Version: version,
		Short:   "Tail-risk estimation and leverage caps for margined positions",
		Long: `riskengine estimates Liquidation and Insolvency Value-at-Risk for margined
derivative positions from historical margin, liquidation-threshold, and PnL
series, and converts the estimates into a recommended maximum leverage.

Positions, data files, and engine parameters come from a YAML configuration;
see config/positions.yaml for a worked example.`,
	}

	rootCmd.PersistentFlags().String("config", "config/positions.yaml", "Path to the configuration file")

	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newSweepCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
