package sweep

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/config"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
)

// writeSeriesFile produces a drifting synthetic position history on disk.
func writeSeriesFile(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(5))
	content := "liquidation_margin,margin_deposited,net_pnl\n"
	pnl := 0.0
	for i := 0; i < n; i++ {
		liq := 90 - 0.05*float64(i) + rng.Float64()
		pnl -= 0.04 + 0.2*rng.Float64()
		content += fmt.Sprintf("%.6f,100,%.6f\n", liq, pnl)
	}
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T, dataFile string) *config.Config {
	cfg := &config.Config{
		Positions: []config.PositionConfig{{
			Name:              "synthetic",
			DataFile:          dataFile,
			Notional:          1000,
			PoolSize:          0,
			LiquidationColumn: "liquidation_margin",
			MarginColumn:      "margin_deposited",
			PnLColumn:         "net_pnl",
		}},
		Engine: config.EngineConfig{
			Replicates:    50,
			BootstrapSeed: risk.DefaultBootstrapSeed,
			JitterSeed:    7,
			Confidence:    95,
		},
		Sweep: config.SweepConfig{
			Confidences:   []int{95, 99},
			StressFactors: []float64{0.5, 1.0, 2.0},
		},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunner_GridShape(t *testing.T) {
	cfg := testConfig(t, writeSeriesFile(t, 150))
	runner := NewRunner(cfg, nil, zerolog.Nop())

	summary, err := runner.Run()
	require.NoError(t, err)

	// 1 position x 3 stress factors x 1 pool size x 2 confidences
	assert.Equal(t, 6, summary.Scenarios)
	assert.Len(t, summary.Results, 6)
	assert.Equal(t, 0, summary.Failures)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestRunner_DeterministicWithFrozenSeeds(t *testing.T) {
	path := writeSeriesFile(t, 150)

	run := func() []Result {
		summary, err := NewRunner(testConfig(t, path), nil, zerolog.Nop()).Run()
		require.NoError(t, err)
		return summary.Results
	}

	assert.Equal(t, run(), run())
}

func TestRunner_HigherConfidenceNeverRaisesVaR(t *testing.T) {
	cfg := testConfig(t, writeSeriesFile(t, 150))
	cfg.Sweep.StressFactors = []float64{1.0}

	summary, err := NewRunner(cfg, nil, zerolog.Nop()).Run()
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)

	byConfidence := map[int]Result{}
	for _, res := range summary.Results {
		byConfidence[res.Confidence] = res
	}
	assert.LessOrEqual(t, byConfidence[99].LVaR, byConfidence[95].LVaR)
	assert.LessOrEqual(t, byConfidence[99].IVaR, byConfidence[95].IVaR)
}

func TestRunner_MissingDataFileFails(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))

	_, err := NewRunner(cfg, nil, zerolog.Nop()).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthetic")
}

func TestRunner_ScenarioFailureIsRecorded(t *testing.T) {
	// A zero baseline margin makes derivation fail; the sweep must record
	// the failure and keep the run alive.
	content := "liquidation_margin,margin_deposited,net_pnl\n90,0,0\n85,100,-5\n"
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := testConfig(t, path)
	cfg.Sweep.StressFactors = []float64{1.0}
	cfg.Sweep.Confidences = []int{95}

	summary, err := NewRunner(cfg, nil, zerolog.Nop()).Run()
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, 1, summary.Failures)
	assert.Contains(t, summary.Results[0].Error, "baseline margin")
}

func TestApplyStress(t *testing.T) {
	raw := risk.RawSeries{
		Liquidation: []float64{90, 80},
		Margin:      []float64{100, 100},
		PnL:         []float64{-10, -20},
	}

	stressed := applyStress(raw, 2.0)

	// Deviations from the baseline margin double; the margin itself holds.
	assert.Equal(t, []float64{80, 60}, stressed.Liquidation)
	assert.Equal(t, []float64{-20, -40}, stressed.PnL)
	assert.Equal(t, raw.Margin, stressed.Margin)

	assert.Equal(t, raw, applyStress(raw, 1.0))
}
