package risk

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine estimates tail-risk metrics for one margined position. It derives
// the two risk ratio series once at construction and never mutates them
// afterward; every later stage works on copies or fresh allocations, so
// independent calls on the same instance observe identical inputs.
//
// Randomness is split into two named streams: the bootstrap stream is seeded
// (42 unless overridden) so replicate sets are reproducible, and the jitter
// stream defaults to a time seed but can be frozen for tests.
type Engine struct {
	notional   float64
	raw        RawSeries
	derived    DerivedSeries
	replicates int
	seed       int64
	jitterRNG  *rand.Rand
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithReplicates sets the number of bootstrap replicates per series.
func WithReplicates(n int) Option {
	return func(e *Engine) { e.replicates = n }
}

// WithBootstrapSeed overrides the seed of the bootstrap stream.
func WithBootstrapSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithJitterSource replaces the jitter stream, letting tests freeze it.
func WithJitterSource(rng *rand.Rand) Option {
	return func(e *Engine) { e.jitterRNG = rng }
}

// New constructs an engine for a position of the given notional over the raw
// input series, windowed to the first poolSize samples (non-positive keeps
// the full window). Derivation and invalid-sample cleanup happen here, once.
func New(raw RawSeries, notional float64, poolSize int, opts ...Option) (*Engine, error) {
	if notional <= 0 {
		return nil, fmt.Errorf("risk: notional must be positive, got %v", notional)
	}
	windowed := raw.Truncate(poolSize)
	derived, err := DeriveSeries(windowed)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		notional:   notional,
		raw:        windowed,
		derived:    derived,
		replicates: DefaultReplicates,
		seed:       DefaultBootstrapSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.replicates < 1 {
		return nil, fmt.Errorf("risk: replicate count must be >= 1, got %d", e.replicates)
	}
	if e.jitterRNG == nil {
		e.jitterRNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e, nil
}

// Derived returns copies of the cleaned ratio series.
func (e *Engine) Derived() DerivedSeries {
	return DerivedSeries{
		Liquidation: append([]float64(nil), e.derived.Liquidation...),
		Insolvency:  append([]float64(nil), e.derived.Insolvency...),
	}
}

// ReplicatePair is the bootstrap output for both ratio series. Callers may
// hold on to one and feed it back into ValueAtRisk to avoid resampling; it
// is the only memoization point in the pipeline.
type ReplicatePair struct {
	Liquidation [][]float64
	Insolvency  [][]float64
}

// GenerateReplicates jitters both ratio series, estimates a block length for
// each, and produces the configured number of circular block bootstrap
// replicates per series. Both bootstrappers share one seeded stream, drawn
// in liquidation-then-insolvency order, so the whole set is reproducible for
// a fixed seed and a frozen jitter source.
func (e *Engine) GenerateReplicates() (*ReplicatePair, error) {
	liq := Jitter(e.derived.Liquidation, e.jitterRNG)
	ins := Jitter(e.derived.Insolvency, e.jitterRNG)

	liqBlock := BlockLength(OptimalBlockLength(liq))
	insBlock := BlockLength(OptimalBlockLength(ins))

	rng := rand.New(rand.NewSource(e.seed))
	liqBS, err := NewCircularBlockBootstrap(liq, liqBlock, rng)
	if err != nil {
		return nil, fmt.Errorf("liquidation series: %w", err)
	}
	insBS, err := NewCircularBlockBootstrap(ins, insBlock, rng)
	if err != nil {
		return nil, fmt.Errorf("insolvency series: %w", err)
	}

	return &ReplicatePair{
		Liquidation: liqBS.Replicates(e.replicates),
		Insolvency:  insBS.Replicates(e.replicates),
	}, nil
}

// ValueAtRisk computes the (LVaR, IVaR) estimate at the given confidence
// level. A nil replicates argument generates a fresh replicate set.
func (e *Engine) ValueAtRisk(confidence Confidence, replicates *ReplicatePair) (RiskEstimate, error) {
	if replicates == nil {
		var err error
		replicates, err = e.GenerateReplicates()
		if err != nil {
			return RiskEstimate{}, err
		}
	}
	return EstimateVaR(
		ReplicateMeans(replicates.Liquidation),
		ReplicateMeans(replicates.Insolvency),
		confidence,
	)
}

// Leverages converts a risk estimate into the position's leverage bounds,
// anchored on the first liquidation threshold and the last PnL sample of
// the analysis window.
func (e *Engine) Leverages(estimate RiskEstimate) (LeverageBounds, error) {
	return ConvertLeverage(
		estimate,
		e.notional,
		e.raw.Liquidation[0],
		e.raw.PnL[len(e.raw.PnL)-1],
	)
}

// RecommendedLeverage runs the full pipeline at the given confidence level
// and returns the leverage bounds, of which Recommended is the cap.
func (e *Engine) RecommendedLeverage(confidence Confidence) (LeverageBounds, error) {
	estimate, err := e.ValueAtRisk(confidence, nil)
	if err != nil {
		return LeverageBounds{}, err
	}
	return e.Leverages(estimate)
}
