package risk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticRaw builds a drifting position history long enough for the
// block-length estimator to have something to chew on.
func syntheticRaw(n int) RawSeries {
	raw := RawSeries{
		Margin:      make([]float64, n),
		Liquidation: make([]float64, n),
		PnL:         make([]float64, n),
	}
	rng := rand.New(rand.NewSource(99))
	pnl := 0.0
	for i := 0; i < n; i++ {
		raw.Margin[i] = 100
		raw.Liquidation[i] = 90 - 0.05*float64(i) + rng.Float64()
		pnl -= 0.04 + 0.2*rng.Float64()
		raw.PnL[i] = pnl
	}
	return raw
}

func TestEngine_FullPipelineDeterministic(t *testing.T) {
	raw := syntheticRaw(200)

	run := func() LeverageBounds {
		eng, err := New(raw, 1000, 0, WithJitterSource(rand.New(rand.NewSource(7))))
		require.NoError(t, err)
		bounds, err := eng.RecommendedLeverage(Confidence95)
		require.NoError(t, err)
		return bounds
	}

	assert.Equal(t, run(), run(), "frozen streams must reproduce the result bit-for-bit")
}

func TestEngine_ReplicateShapes(t *testing.T) {
	raw := syntheticRaw(150)
	eng, err := New(raw, 1000, 0,
		WithReplicates(40),
		WithJitterSource(rand.New(rand.NewSource(7))),
	)
	require.NoError(t, err)

	reps, err := eng.GenerateReplicates()
	require.NoError(t, err)

	require.Len(t, reps.Liquidation, 40)
	require.Len(t, reps.Insolvency, 40)
	derived := eng.Derived()
	for _, rep := range reps.Liquidation {
		assert.Len(t, rep, len(derived.Liquidation))
	}
	for _, rep := range reps.Insolvency {
		assert.Len(t, rep, len(derived.Insolvency))
	}
}

func TestEngine_ValueAtRiskReusesSuppliedReplicates(t *testing.T) {
	raw := syntheticRaw(150)
	eng, err := New(raw, 1000, 0, WithJitterSource(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	reps, err := eng.GenerateReplicates()
	require.NoError(t, err)

	at95, err := eng.ValueAtRisk(Confidence95, reps)
	require.NoError(t, err)
	at99, err := eng.ValueAtRisk(Confidence99, reps)
	require.NoError(t, err)

	// Same replicate set, same moments: only the z-score moves.
	assert.LessOrEqual(t, at99.LVaR, at95.LVaR)
	assert.LessOrEqual(t, at99.IVaR, at95.IVaR)
}

func TestEngine_PoolSizeWindowsInput(t *testing.T) {
	raw := syntheticRaw(300)
	eng, err := New(raw, 1000, 120, WithJitterSource(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	derived := eng.Derived()
	assert.Len(t, derived.Liquidation, 120)
	assert.Len(t, derived.Insolvency, 120)
}

func TestEngine_DerivedReturnsCopies(t *testing.T) {
	raw := syntheticRaw(50)
	eng, err := New(raw, 1000, 0, WithJitterSource(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	first := eng.Derived()
	first.Liquidation[0] = math.Inf(1)

	assert.True(t, isFinite(eng.Derived().Liquidation[0]), "engine state must be immutable")
}

func TestEngine_RejectsBadParameters(t *testing.T) {
	raw := syntheticRaw(50)

	_, err := New(raw, 0, 0)
	assert.Error(t, err, "notional must be positive")

	_, err = New(raw, 1000, 0, WithReplicates(0))
	assert.Error(t, err, "replicate count must be positive")

	raw.Margin[0] = 0
	_, err = New(raw, 1000, 0)
	assert.ErrorIs(t, err, ErrZeroBaselineMargin)
}

func TestEngine_FinalResultsAreFinite(t *testing.T) {
	raw := syntheticRaw(200)
	eng, err := New(raw, 1000, 0, WithJitterSource(rand.New(rand.NewSource(7))))
	require.NoError(t, err)

	for _, confidence := range []Confidence{Confidence95, Confidence99} {
		bounds, err := eng.RecommendedLeverage(confidence)
		require.NoError(t, err)

		assert.True(t, isFinite(bounds.Liquidation))
		assert.True(t, isFinite(bounds.Insolvency))
		assert.Equal(t, math.Min(bounds.Liquidation, bounds.Insolvency), bounds.Recommended)
	}
}
