package risk

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroBaselineMargin is returned when the first margin sample is zero,
	// which leaves both risk ratios undefined.
	ErrZeroBaselineMargin = errors.New("risk: baseline margin is zero")

	// ErrEmptySeries is returned when a series is empty, either on input or
	// after invalid samples have been removed.
	ErrEmptySeries = errors.New("risk: series is empty")

	// ErrSeriesLengthMismatch is returned when the three input series do not
	// share a common time index.
	ErrSeriesLengthMismatch = errors.New("risk: input series lengths differ")
)

// RawSeries holds the three aligned input series for a single position:
// the liquidation threshold, the available margin, and the trader PnL,
// all over the same time index.
type RawSeries struct {
	Liquidation []float64
	Margin      []float64
	PnL         []float64
}

// Validate checks the alignment invariants: all three series present,
// equal length, at least one sample.
func (r RawSeries) Validate() error {
	if len(r.Margin) == 0 {
		return fmt.Errorf("margin series: %w", ErrEmptySeries)
	}
	if len(r.Liquidation) != len(r.Margin) || len(r.PnL) != len(r.Margin) {
		return fmt.Errorf("%w: liquidation=%d margin=%d pnl=%d",
			ErrSeriesLengthMismatch, len(r.Liquidation), len(r.Margin), len(r.PnL))
	}
	return nil
}

// Truncate returns a copy of the raw series windowed to the first n samples.
// A non-positive n or an n beyond the series length keeps the full window.
func (r RawSeries) Truncate(n int) RawSeries {
	if n <= 0 || n >= len(r.Margin) {
		n = len(r.Margin)
	}
	out := RawSeries{
		Liquidation: make([]float64, n),
		Margin:      make([]float64, n),
		PnL:         make([]float64, n),
	}
	copy(out.Liquidation, r.Liquidation)
	copy(out.Margin, r.Margin)
	copy(out.PnL, r.PnL)
	return out
}

// DerivedSeries holds the two normalized risk ratio series computed from a
// RawSeries against the baseline (first) margin sample.
//
// Liquidation tends toward 0 as the position approaches liquidation.
// Insolvency drops below 0 as the position approaches insolvency.
type DerivedSeries struct {
	Liquidation []float64
	Insolvency  []float64
}

// DeriveSeries computes the liquidation and insolvency ratio series:
//
//	liquidation[t] = (margin[0] - liquidationThreshold[t]) / margin[0]
//	insolvency[t]  = (pnl[t] + margin[0]) / margin[0]
//
// Non-finite samples are dropped from each derived series independently.
// The cleanup happens exactly once here; the result is never mutated again.
func DeriveSeries(raw RawSeries) (DerivedSeries, error) {
	if err := raw.Validate(); err != nil {
		return DerivedSeries{}, err
	}
	baseline := raw.Margin[0]
	if baseline == 0 {
		return DerivedSeries{}, ErrZeroBaselineMargin
	}

	liq := make([]float64, 0, len(raw.Liquidation))
	for _, v := range raw.Liquidation {
		r := (baseline - v) / baseline
		if isFinite(r) {
			liq = append(liq, r)
		}
	}
	ins := make([]float64, 0, len(raw.PnL))
	for _, v := range raw.PnL {
		r := (v + baseline) / baseline
		if isFinite(r) {
			ins = append(ins, r)
		}
	}

	if len(liq) == 0 {
		return DerivedSeries{}, fmt.Errorf("liquidation ratio: %w", ErrEmptySeries)
	}
	if len(ins) == 0 {
		return DerivedSeries{}, fmt.Errorf("insolvency ratio: %w", ErrEmptySeries)
	}
	return DerivedSeries{Liquidation: liq, Insolvency: ins}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
