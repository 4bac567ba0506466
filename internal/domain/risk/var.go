package risk

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConfidence is returned for confidence levels outside the
// closed supported set. There is no fallback level.
var ErrUnsupportedConfidence = errors.New("risk: unsupported confidence level")

// Confidence is a supported VaR confidence level, in percent.
type Confidence int

// The closed set of supported confidence levels.
const (
	Confidence95 Confidence = 95
	Confidence99 Confidence = 99
)

// ZScore returns the Gaussian quantile multiplier for the confidence level.
func (c Confidence) ZScore() (float64, error) {
	switch c {
	case Confidence95:
		return 1.96, nil
	case Confidence99:
		return 2.58, nil
	default:
		return 0, fmt.Errorf("%w: %d (supported: 95, 99)", ErrUnsupportedConfidence, int(c))
	}
}

// RiskEstimate is the (LVaR, IVaR) pair for one confidence level.
type RiskEstimate struct {
	Confidence Confidence `json:"confidence"`
	LVaR       float64    `json:"lvar"`
	IVaR       float64    `json:"ivar"`
}

// EstimateVaR computes the parametric Gaussian VaR pair from the liquidation
// and insolvency replicate-mean distributions: VaR = mu - z*sigma with the
// population sigma. Higher confidence gives a lower, more conservative value.
func EstimateVaR(liquidationMeans, insolvencyMeans []float64, confidence Confidence) (RiskEstimate, error) {
	z, err := confidence.ZScore()
	if err != nil {
		return RiskEstimate{}, err
	}
	if len(liquidationMeans) == 0 || len(insolvencyMeans) == 0 {
		return RiskEstimate{}, fmt.Errorf("replicate means: %w", ErrEmptySeries)
	}

	lMu, lSigma := moments(liquidationMeans)
	iMu, iSigma := moments(insolvencyMeans)

	return RiskEstimate{
		Confidence: confidence,
		LVaR:       lMu - z*lSigma,
		IVaR:       iMu - z*iSigma,
	}, nil
}
