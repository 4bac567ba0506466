package main

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/config"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/data"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
	ioutil "github.com/Voltz-Protocol/voltz-risk-engine/internal/io"
)

// estimateResult is the JSON shape written by --out.
type estimateResult struct {
	Position string              `json:"position"`
	Notional float64             `json:"notional"`
	PoolSize int                 `json:"pool_size"`
	Estimate risk.RiskEstimate   `json:"estimate"`
	Leverage risk.LeverageBounds `json:"leverage"`
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate VaR and leverage bounds for one position",
		Long: `Runs the full pipeline for a single configured position: series derivation,
block bootstrap, Gaussian VaR, and leverage conversion.`,
		RunE: runEstimate,
	}
	cmd.Flags().String("position", "", "Name of the configured position (defaults to the first)")
	cmd.Flags().Int("confidence", 0, "Confidence level override (95 or 99)")
	cmd.Flags().String("out", "", "Optional path for a JSON result file")
	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	pos := cfg.Positions[0]
	if name, _ := cmd.Flags().GetString("position"); name != "" {
		if pos, err = cfg.Position(name); err != nil {
			return err
		}
	}

	confidence := risk.Confidence(cfg.Engine.Confidence)
	if override, _ := cmd.Flags().GetInt("confidence"); override != 0 {
		confidence = risk.Confidence(override)
	}
	if _, err := confidence.ZScore(); err != nil {
		return err
	}

	raw, err := data.LoadSeries(pos.DataFile, data.Columns{
		Liquidation: pos.LiquidationColumn,
		Margin:      pos.MarginColumn,
		PnL:         pos.PnLColumn,
	})
	if err != nil {
		return fmt.Errorf("position %q: %w", pos.Name, err)
	}
	log.Info().Str("position", pos.Name).Int("samples", len(raw.Margin)).Msg("loaded position series")

	opts := []risk.Option{
		risk.WithReplicates(cfg.Engine.Replicates),
		risk.WithBootstrapSeed(cfg.Engine.BootstrapSeed),
	}
	if cfg.Engine.JitterSeed != 0 {
		opts = append(opts, risk.WithJitterSource(rand.New(rand.NewSource(cfg.Engine.JitterSeed))))
	}
	eng, err := risk.New(raw, pos.Notional, pos.PoolSize, opts...)
	if err != nil {
		return err
	}

	estimate, err := eng.ValueAtRisk(confidence, nil)
	if err != nil {
		return err
	}
	bounds, err := eng.Leverages(estimate)
	if err != nil {
		return err
	}

	log.Info().
		Str("position", pos.Name).
		Int("confidence", int(confidence)).
		Float64("lvar", estimate.LVaR).
		Float64("ivar", estimate.IVaR).
		Float64("liquidation_leverage", bounds.Liquidation).
		Float64("insolvency_leverage", bounds.Insolvency).
		Float64("recommended_leverage", bounds.Recommended).
		Msg("risk estimate")

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		result := estimateResult{
			Position: pos.Name,
			Notional: pos.Notional,
			PoolSize: pos.PoolSize,
			Estimate: estimate,
			Leverage: bounds,
		}
		if err := ioutil.WriteJSONAtomic(outPath, result); err != nil {
			return err
		}
		log.Info().Str("path", outPath).Msg("wrote estimate")
	}
	return nil
}
