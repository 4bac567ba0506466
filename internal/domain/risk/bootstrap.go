package risk

import (
	"fmt"
	"math/rand"
)

// Bootstrap defaults carried over from the reference behavior: 100 replicates
// per series and a fixed seed of 42 so replicate sets are reproducible.
const (
	DefaultReplicates    = 100
	DefaultBootstrapSeed = 42
)

// CircularBlockBootstrap resamples a time series by drawing contiguous
// wrap-around blocks, preserving serial correlation up to the block length.
type CircularBlockBootstrap struct {
	series []float64
	block  int
	rng    *rand.Rand
}

// NewCircularBlockBootstrap builds a bootstrapper over series with the given
// block length, drawing block starts from rng. A block length at or beyond
// the series length is valid: every replicate is then a single rotation of
// the input.
func NewCircularBlockBootstrap(series []float64, blockLength int, rng *rand.Rand) (*CircularBlockBootstrap, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("bootstrap: %w", ErrEmptySeries)
	}
	if blockLength < 1 {
		return nil, fmt.Errorf("bootstrap: block length %d, must be >= 1", blockLength)
	}
	return &CircularBlockBootstrap{series: series, block: blockLength, rng: rng}, nil
}

// Replicates produces n independent replicate series, each exactly the length
// of the input. For a fixed rng seed, input, and block length the output is
// bit-for-bit reproducible.
func (b *CircularBlockBootstrap) Replicates(n int) [][]float64 {
	reps := make([][]float64, n)
	for i := range reps {
		reps[i] = b.replicate()
	}
	return reps
}

// replicate concatenates random wrap-around blocks until the replicate
// reaches the input length, truncating the final block on overshoot.
func (b *CircularBlockBootstrap) replicate() []float64 {
	length := len(b.series)
	rep := make([]float64, 0, length)
	for len(rep) < length {
		start := b.rng.Intn(length)
		for i := 0; i < b.block && len(rep) < length; i++ {
			rep = append(rep, b.series[(start+i)%length])
		}
	}
	return rep
}
