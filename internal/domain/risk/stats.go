package risk

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrConstantVector is returned when min-max normalisation is asked to
// rescale a vector whose minimum and maximum coincide.
var ErrConstantVector = errors.New("risk: minimum and maximum coincide, cannot normalise")

// ReplicateMeans reduces a replicate set to the vector of per-replicate
// arithmetic means. By the central limit theorem this vector is treated as
// an approximately Gaussian sample downstream.
func ReplicateMeans(replicates [][]float64) []float64 {
	means := make([]float64, len(replicates))
	for i, rep := range replicates {
		means[i] = stat.Mean(rep, nil)
	}
	return means
}

// moments returns the mean and the population standard deviation (ddof 0)
// of xs. The Gaussian VaR formula is specified against the population
// deviation, not the sample-corrected one, so gonum's Variance does not fit.
func moments(xs []float64) (mu, sigma float64) {
	mu = stat.Mean(xs, nil)
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	sigma = math.Sqrt(ss / float64(len(xs)))
	return mu, sigma
}

// NormalizeMinMax rescales the vector to [0, 1]. Constant input has no
// spread to rescale and fails with ErrConstantVector.
func NormalizeMinMax(xs []float64) ([]float64, error) {
	if len(xs) == 0 {
		return nil, ErrEmptySeries
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if lo == hi {
		return nil, ErrConstantVector
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out, nil
}
