package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// maxBlockLength bounds the integer block size so that a non-finite raw
// estimate cannot overflow the conversion. Anything this large already
// exceeds every realistic series length, which downstream degenerates to
// full-series rotation replicates.
const maxBlockLength = 1 << 20

// OptimalBlockLength estimates the block length that minimises the estimated
// mean-squared error of the circular bootstrap's long-run variance, following
// the data-driven rule of Politis and White (2004) with the flat-top lag
// window. The returned value is the raw float estimate: it can be zero for
// near-white-noise input and is not guaranteed to be finite for numerically
// degenerate input. Callers convert it with BlockLength before use.
func OptimalBlockLength(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 1
	}
	nf := float64(n)

	kn := int(math.Log10(nf))
	if kn < 5 {
		kn = 5
	}
	mMax := int(math.Ceil(math.Sqrt(nf))) + kn
	if mMax > n-1 {
		mMax = n - 1
	}
	bMax := math.Ceil(math.Min(3*math.Sqrt(nf), nf/3))

	mean := stat.Mean(series, nil)
	acov := autocovariances(series, mean, mMax)
	if acov[0] == 0 {
		return 1
	}

	// Bandwidth selection: the smallest lag m after which kn consecutive
	// autocorrelations are insignificant at the 2*sqrt(log10(n)/n) level.
	crit := 2 * math.Sqrt(math.Log10(nf)/nf)
	mHat := mMax
	run := 0
	for k := 1; k <= mMax; k++ {
		if math.Abs(acov[k]/acov[0]) < crit {
			run++
			if run == kn {
				mHat = k - kn
				break
			}
		} else {
			run = 0
		}
	}
	m := 2 * mHat
	if m > mMax {
		m = mMax
	}
	if m == 0 {
		// White noise: no serial correlation worth preserving.
		return 0
	}

	// Flat-top (trapezoidal) lag-window sums: g estimates the derivative
	// term, lrv the long-run variance.
	g := 0.0
	lrv := acov[0]
	for k := 1; k <= m; k++ {
		lam := 1.0
		if t := float64(k) / float64(m); t > 0.5 {
			lam = 2 * (1 - t)
		}
		g += 2 * lam * float64(k) * acov[k]
		lrv += 2 * lam * acov[k]
	}

	d := (4.0 / 3.0) * lrv * lrv
	if d == 0 {
		return 1
	}
	b := math.Cbrt(2*g*g/d) * math.Cbrt(nf)
	return math.Min(b, bMax)
}

// BlockLength converts a raw block-length estimate into a usable integer
// block size: floor(estimate) + 1, clamped to at least 1. NaN or negative
// estimates collapse to 1; estimates at or beyond maxBlockLength (including
// +Inf) are capped, which downstream still yields valid rotation replicates.
func BlockLength(estimate float64) int {
	if math.IsNaN(estimate) || estimate < 0 {
		return 1
	}
	if estimate >= maxBlockLength {
		return maxBlockLength
	}
	return int(estimate) + 1
}

// autocovariances returns the biased sample autocovariances at lags 0..maxLag.
func autocovariances(series []float64, mean float64, maxLag int) []float64 {
	n := len(series)
	acov := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		var sum float64
		for t := 0; t+k < n; t++ {
			sum += (series[t] - mean) * (series[t+k] - mean)
		}
		acov[k] = sum / float64(n)
	}
	return acov
}
