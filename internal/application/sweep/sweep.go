// Package sweep drives the risk engine across a grid of market scenarios and
// collects the leverage recommendations into a single run summary.
package sweep

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/config"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/data"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/metrics"
)

// Scenario identifies one cell of the sweep grid.
type Scenario struct {
	Position     string  `json:"position"`
	Confidence   int     `json:"confidence"`
	PoolSize     int     `json:"pool_size"`
	StressFactor float64 `json:"stress_factor"`
}

// Result is the engine output for one scenario. Failed scenarios carry the
// error text and zeroed numbers; the sweep keeps going.
type Result struct {
	Scenario
	LVaR                float64 `json:"lvar"`
	IVaR                float64 `json:"ivar"`
	LiquidationLeverage float64 `json:"liquidation_leverage"`
	InsolvencyLeverage  float64 `json:"insolvency_leverage"`
	RecommendedLeverage float64 `json:"recommended_leverage"`
	Error               string  `json:"error,omitempty"`
}

// Summary is the complete output of one sweep run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Scenarios   int       `json:"scenarios"`
	Failures    int       `json:"failures"`
	Results     []Result  `json:"results"`
}

// Runner executes sweeps for a loaded configuration.
type Runner struct {
	cfg     *config.Config
	metrics *metrics.Sweep
	log     zerolog.Logger
}

// NewRunner wires a sweep runner. A nil metrics sink gets a private one.
func NewRunner(cfg *config.Config, m *metrics.Sweep, log zerolog.Logger) *Runner {
	if m == nil {
		m = metrics.NewSweep()
	}
	return &Runner{cfg: cfg, metrics: m, log: log}
}

// Run evaluates every scenario in the grid: positions x stress factors x
// pool sizes x confidence levels. Input data is loaded once per position.
// With a fixed jitter seed in the configuration the whole summary is
// deterministic apart from RunID and timestamp.
func (r *Runner) Run() (*Summary, error) {
	summary := &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	for _, pos := range r.cfg.Positions {
		raw, err := data.LoadSeries(pos.DataFile, data.Columns{
			Liquidation: pos.LiquidationColumn,
			Margin:      pos.MarginColumn,
			PnL:         pos.PnLColumn,
		})
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", pos.Name, err)
		}
		r.log.Info().
			Str("position", pos.Name).
			Int("samples", len(raw.Margin)).
			Msg("loaded position series")

		for _, factor := range r.cfg.Sweep.StressFactors {
			stressed := applyStress(raw, factor)
			for _, poolSize := range r.poolSizes(pos) {
				for _, confidence := range r.cfg.Sweep.Confidences {
					res := r.evaluate(pos, stressed, Scenario{
						Position:     pos.Name,
						Confidence:   confidence,
						PoolSize:     poolSize,
						StressFactor: factor,
					})
					summary.Results = append(summary.Results, res)
					summary.Scenarios++
					if res.Error != "" {
						summary.Failures++
					}
				}
			}
		}
	}

	r.log.Info().
		Str("run_id", summary.RunID).
		Int("scenarios", summary.Scenarios).
		Int("failures", summary.Failures).
		Msg("sweep complete")
	return summary, nil
}

// evaluate runs the full pipeline for one scenario.
func (r *Runner) evaluate(pos config.PositionConfig, raw risk.RawSeries, sc Scenario) Result {
	r.metrics.ScenariosTotal.Inc()
	started := time.Now()

	bounds, est, err := r.runEngine(pos, raw, sc)
	r.metrics.EngineDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		r.metrics.ScenarioFailures.Inc()
		r.log.Warn().
			Str("position", sc.Position).
			Int("confidence", sc.Confidence).
			Float64("stress_factor", sc.StressFactor).
			Err(err).
			Msg("scenario failed")
		return Result{Scenario: sc, Error: err.Error()}
	}

	return Result{
		Scenario:            sc,
		LVaR:                est.LVaR,
		IVaR:                est.IVaR,
		LiquidationLeverage: bounds.Liquidation,
		InsolvencyLeverage:  bounds.Insolvency,
		RecommendedLeverage: bounds.Recommended,
	}
}

func (r *Runner) runEngine(pos config.PositionConfig, raw risk.RawSeries, sc Scenario) (risk.LeverageBounds, risk.RiskEstimate, error) {
	opts := []risk.Option{
		risk.WithReplicates(r.cfg.Engine.Replicates),
		risk.WithBootstrapSeed(r.cfg.Engine.BootstrapSeed),
	}
	if r.cfg.Engine.JitterSeed != 0 {
		opts = append(opts, risk.WithJitterSource(rand.New(rand.NewSource(r.cfg.Engine.JitterSeed))))
	}

	eng, err := risk.New(raw, pos.Notional, sc.PoolSize, opts...)
	if err != nil {
		return risk.LeverageBounds{}, risk.RiskEstimate{}, err
	}
	est, err := eng.ValueAtRisk(risk.Confidence(sc.Confidence), nil)
	if err != nil {
		return risk.LeverageBounds{}, risk.RiskEstimate{}, err
	}
	bounds, err := eng.Leverages(est)
	if err != nil {
		return risk.LeverageBounds{}, risk.RiskEstimate{}, err
	}
	return bounds, est, nil
}

// poolSizes returns the sweep's pool-size axis, falling back to the
// position's own window when the grid does not set one.
func (r *Runner) poolSizes(pos config.PositionConfig) []int {
	if len(r.cfg.Sweep.PoolSizes) == 0 {
		return []int{pos.PoolSize}
	}
	return r.cfg.Sweep.PoolSizes
}

// applyStress scales both risk surfaces by the stress factor, keeping the
// baseline margin fixed: the liquidation threshold's deviation from the
// baseline and the PnL path are both amplified (factor > 1) or dampened
// (factor < 1).
func applyStress(raw risk.RawSeries, factor float64) risk.RawSeries {
	if factor == 1 || len(raw.Margin) == 0 {
		return raw
	}
	out := risk.RawSeries{
		Liquidation: make([]float64, len(raw.Liquidation)),
		Margin:      append([]float64(nil), raw.Margin...),
		PnL:         make([]float64, len(raw.PnL)),
	}
	baseline := raw.Margin[0]
	for i, v := range raw.Liquidation {
		out.Liquidation[i] = baseline - factor*(baseline-v)
	}
	for i, v := range raw.PnL {
		out.PnL[i] = factor * v
	}
	return out
}
