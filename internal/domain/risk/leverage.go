package risk

import (
	"errors"
	"fmt"
)

// ErrZeroDenominator is returned when a leverage bound would divide by a
// zero baseline value. The reference behavior silently propagated Inf here;
// failing fast is the hardened choice.
var ErrZeroDenominator = errors.New("risk: zero denominator in leverage conversion")

// LeverageBounds holds the two leverage constraints implied by a RiskEstimate
// and the recommended cap, their minimum.
type LeverageBounds struct {
	Liquidation float64 `json:"liquidation_leverage"`
	Insolvency  float64 `json:"insolvency_leverage"`
	Recommended float64 `json:"recommended_leverage"`
}

// ConvertLeverage maps a VaR pair to leverage bounds:
//
//	LevL = notional * (1 - LVaR) / liquidationThreshold[0]
//	LevI = notional * (IVaR - 1) / pnl[last]
//
// The sign conventions differ on purpose: the liquidation ratio falls toward
// zero under stress while the insolvency ratio falls through one, so each
// bound measures distance from its own failure surface.
func ConvertLeverage(estimate RiskEstimate, notional, baselineLiquidation, finalPnL float64) (LeverageBounds, error) {
	if baselineLiquidation == 0 {
		return LeverageBounds{}, fmt.Errorf("baseline liquidation threshold: %w", ErrZeroDenominator)
	}
	if finalPnL == 0 {
		return LeverageBounds{}, fmt.Errorf("final pnl: %w", ErrZeroDenominator)
	}

	levL := notional * (1 - estimate.LVaR) / baselineLiquidation
	levI := notional * (estimate.IVaR - 1) / finalPnL

	bounds := LeverageBounds{
		Liquidation: levL,
		Insolvency:  levI,
		Recommended: levL,
	}
	if levI < levL {
		bounds.Recommended = levI
	}
	return bounds, nil
}
