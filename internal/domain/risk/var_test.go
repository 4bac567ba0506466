package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidence_ZScore(t *testing.T) {
	z95, err := Confidence95.ZScore()
	require.NoError(t, err)
	assert.Equal(t, 1.96, z95)

	z99, err := Confidence99.ZScore()
	require.NoError(t, err)
	assert.Equal(t, 2.58, z99)
}

func TestConfidence_UnsupportedLevel(t *testing.T) {
	_, err := Confidence(90).ZScore()
	require.ErrorIs(t, err, ErrUnsupportedConfidence)

	_, err = EstimateVaR([]float64{0.1, 0.2}, []float64{0.9, 1.0}, Confidence(90))
	require.ErrorIs(t, err, ErrUnsupportedConfidence)
}

func TestEstimateVaR_GaussianFormula(t *testing.T) {
	// mu = 0.25, population sigma = sqrt(0.0125)
	liq := []float64{0.1, 0.2, 0.3, 0.4}
	ins := []float64{0.9, 0.9, 0.9, 0.9} // sigma = 0

	est, err := EstimateVaR(liq, ins, Confidence95)
	require.NoError(t, err)

	mu, sigma := moments(liq)
	assert.InDelta(t, mu-1.96*sigma, est.LVaR, 1e-12)
	assert.InDelta(t, 0.9, est.IVaR, 1e-12, "zero spread leaves VaR at the mean")
	assert.Equal(t, Confidence95, est.Confidence)
}

func TestEstimateVaR_HigherConfidenceIsMoreConservative(t *testing.T) {
	liq := []float64{0.05, 0.10, 0.15, 0.20, 0.25}
	ins := []float64{0.80, 0.85, 0.90, 0.95, 1.00}

	at95, err := EstimateVaR(liq, ins, Confidence95)
	require.NoError(t, err)
	at99, err := EstimateVaR(liq, ins, Confidence99)
	require.NoError(t, err)

	assert.LessOrEqual(t, at99.LVaR, at95.LVaR)
	assert.LessOrEqual(t, at99.IVaR, at95.IVaR)
}

func TestEstimateVaR_EmptyDistribution(t *testing.T) {
	_, err := EstimateVaR(nil, []float64{1}, Confidence95)
	assert.ErrorIs(t, err, ErrEmptySeries)
}
