package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/application/sweep"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/config"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/metrics"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/report"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the scenario grid and write a run summary",
		Long: `Evaluates every configured position across the scenario grid (confidence
levels, pool sizes, market stress factors) and writes JSON and CSV summaries
into the output directory.`,
		RunE: runSweep,
	}
	cmd.Flags().String("out-dir", "", "Output directory override")
	cmd.Flags().String("metrics-addr", "", "Optional address to expose Prometheus metrics while the sweep runs (e.g. :9090)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if override, _ := cmd.Flags().GetString("out-dir"); override != "" {
		outDir = override
	}

	sink := metrics.NewSweep()
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", sink.Handler())
		go func() {
			log.Info().Str("addr", addr).Msg("serving sweep metrics")
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	runner := sweep.NewRunner(cfg, sink, log.Logger)
	summary, err := runner.Run()
	if err != nil {
		return err
	}

	jsonPath, csvPath, err := report.Write(outDir, summary)
	if err != nil {
		return err
	}
	log.Info().
		Str("run_id", summary.RunID).
		Str("json", jsonPath).
		Str("csv", csvPath).
		Msg("wrote sweep summary")
	return nil
}
