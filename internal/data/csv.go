// Package data loads position time-series from CSV files into the shapes the
// risk engine consumes. Windowing and file handling live here; the engine
// itself never touches I/O.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Voltz-Protocol/voltz-risk-engine/internal/domain/risk"
)

// Columns names the three numeric columns to extract from a series file.
type Columns struct {
	Liquidation string
	Margin      string
	PnL         string
}

// LoadSeries reads a CSV file with a header row and returns the three named
// columns as an aligned RawSeries. Column order in the file does not matter;
// extra columns (dates, indices) are ignored. Every data row must carry a
// parseable float in each named column.
func LoadSeries(path string, cols Columns) (risk.RawSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return risk.RawSeries{}, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return risk.RawSeries{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return risk.RawSeries{}, fmt.Errorf("%s: need a header row and at least one data row", path)
	}

	idx, err := columnIndices(records[0], cols)
	if err != nil {
		return risk.RawSeries{}, fmt.Errorf("%s: %w", path, err)
	}

	raw := risk.RawSeries{
		Liquidation: make([]float64, 0, len(records)-1),
		Margin:      make([]float64, 0, len(records)-1),
		PnL:         make([]float64, 0, len(records)-1),
	}
	for i, rec := range records[1:] {
		row := [3]float64{}
		for j, col := range idx {
			if col >= len(rec) {
				return risk.RawSeries{}, fmt.Errorf("%s: row %d has %d fields, need column %d", path, i+2, len(rec), col+1)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return risk.RawSeries{}, fmt.Errorf("%s: row %d column %q: %w", path, i+2, records[0][col], err)
			}
			row[j] = v
		}
		raw.Liquidation = append(raw.Liquidation, row[0])
		raw.Margin = append(raw.Margin, row[1])
		raw.PnL = append(raw.PnL, row[2])
	}
	return raw, nil
}

// columnIndices resolves the liquidation, margin, and pnl column positions
// from the header, in that order.
func columnIndices(header []string, cols Columns) ([3]int, error) {
	pos := map[string]int{}
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	var idx [3]int
	for j, name := range []string{cols.Liquidation, cols.Margin, cols.PnL} {
		i, ok := pos[name]
		if !ok {
			return idx, fmt.Errorf("column %q not found in header %v", name, header)
		}
		idx[j] = i
	}
	return idx, nil
}
