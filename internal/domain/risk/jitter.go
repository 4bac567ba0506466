package risk

import (
	"math"
	"math/rand"
)

// Jitter offset magnitudes: significand in [0.1, 1.0) times 10^exp with
// exp drawn uniformly from {-5, ..., -2}, so offsets fall in roughly
// [1e-6, 9e-3]. Small enough not to distort the ratio series, large enough
// to break exact ties.
const (
	jitterExpMin = -5
	jitterExpMax = -2
)

// Jitter returns a copy of the series with an independently drawn, strictly
// positive offset added to every sample. Constant-valued inputs would give
// the block-length estimator a zero autocovariance to divide by; the jitter
// guarantees that never happens. The input slice is not modified.
func Jitter(series []float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v + jitterOffset(rng)
	}
	return out
}

// jitterOffset draws one offset as significand * 10^exp.
func jitterOffset(rng *rand.Rand) float64 {
	exp := jitterExpMin + rng.Intn(jitterExpMax-jitterExpMin+1)
	significand := 0.9*rng.Float64() + 0.1
	return significand * math.Pow(10, float64(exp))
}
