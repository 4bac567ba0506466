// Package report persists sweep summaries as JSON and CSV artifacts for the
// downstream parameter-analysis tooling.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/application/sweep"
	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
	ioutil "github.com/Voltz-Protocol/voltz-risk-engine/internal/io"
)

var csvHeader = []string{
	"position", "confidence", "pool_size", "stress_factor",
	"lvar", "ivar",
	"liquidation_leverage", "insolvency_leverage", "recommended_leverage",
	"normalized_leverage", "error",
}

// Write stores one sweep summary under dir, as a JSON document and a flat
// CSV table, both named by the run ID. It returns the two paths written.
func Write(dir string, summary *sweep.Summary) (jsonPath, csvPath string, err error) {
	if summary == nil || len(summary.Results) == 0 {
		return "", "", fmt.Errorf("report: summary has no results")
	}

	base := fmt.Sprintf("sweep_%s", summary.RunID)
	jsonPath = filepath.Join(dir, base+".json")
	csvPath = filepath.Join(dir, base+".csv")

	if err := ioutil.WriteJSONAtomic(jsonPath, summary); err != nil {
		return "", "", fmt.Errorf("report: %w", err)
	}
	if err := ioutil.WriteCSVAtomic(csvPath, csvHeader, rows(summary)); err != nil {
		return "", "", fmt.Errorf("report: %w", err)
	}
	return jsonPath, csvPath, nil
}

// rows flattens the summary, adding a min-max normalized leverage column so
// scenarios are comparable at a glance. The column stays blank when every
// scenario recommends the same leverage or too few scenarios succeeded.
func rows(summary *sweep.Summary) [][]string {
	normalized := normalizedLeverage(summary.Results)

	out := make([][]string, 0, len(summary.Results))
	for i, res := range summary.Results {
		row := []string{
			res.Position,
			strconv.Itoa(res.Confidence),
			strconv.Itoa(res.PoolSize),
			formatFloat(res.StressFactor),
			formatFloat(res.LVaR),
			formatFloat(res.IVaR),
			formatFloat(res.LiquidationLeverage),
			formatFloat(res.InsolvencyLeverage),
			formatFloat(res.RecommendedLeverage),
			normalized[i],
			res.Error,
		}
		out = append(out, row)
	}
	return out
}

// normalizedLeverage rescales the recommended leverages of the successful
// scenarios to [0, 1], keyed back to result positions.
func normalizedLeverage(results []sweep.Result) []string {
	cols := make([]string, len(results))

	var values []float64
	var indices []int
	for i, res := range results {
		if res.Error == "" {
			values = append(values, res.RecommendedLeverage)
			indices = append(indices, i)
		}
	}

	scaled, err := risk.NormalizeMinMax(values)
	if err != nil {
		return cols
	}
	for j, i := range indices {
		cols[i] = formatFloat(scaled[j])
	}
	return cols
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
