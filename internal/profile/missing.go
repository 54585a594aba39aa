// Package profile computes univariate and pairwise missing-value
// statistics over a frame. All results are exact counts and proportions.
package profile

import (
	"sort"
	"strings"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// ColumnMissing is the univariate missingness summary for one column.
type ColumnMissing struct {
	Column     string
	Missing    int
	Proportion float64
}

// MissingByColumn returns the per-column missing count and proportion of
// total rows, in frame column order. A column with no missing cells
// reports exactly 0.
func MissingByColumn(f *dataset.Frame) []ColumnMissing {
	rows := f.NumRows()
	out := make([]ColumnMissing, 0, f.NumCols())
	for _, name := range f.ColumnNames() {
		missing := f.Column(name).MissingCount()
		var prop float64
		if rows > 0 {
			prop = float64(missing) / float64(rows)
		}
		out = append(out, ColumnMissing{Column: name, Missing: missing, Proportion: prop})
	}
	return out
}

// Pattern is one joint missingness signature: which columns are missing
// together, how many rows share the pattern, and the pattern's share of
// all rows.
type Pattern struct {
	// Signature holds one '1' (missing) or '0' (present) per column, in
	// frame column order.
	Signature      string
	MissingColumns []string
	Rows           int
	Proportion     float64
}

// MissingPatterns groups rows by their joint missingness signature and
// returns one entry per distinct pattern, most frequent first. Ties break
// on the signature so the ordering is deterministic.
func MissingPatterns(f *dataset.Frame) []Pattern {
	rows := f.NumRows()
	names := f.ColumnNames()
	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		cols[i] = f.Column(name)
	}

	counts := make(map[string]int)
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		for _, c := range cols {
			if c.Values[r].IsNull() {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		counts[sb.String()]++
	}

	out := make([]Pattern, 0, len(counts))
	for sig, n := range counts {
		var missing []string
		for i := range sig {
			if sig[i] == '1' {
				missing = append(missing, names[i])
			}
		}
		out = append(out, Pattern{
			Signature:      sig,
			MissingColumns: missing,
			Rows:           n,
			Proportion:     float64(n) / float64(rows),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rows != out[j].Rows {
			return out[i].Rows > out[j].Rows
		}
		return out[i].Signature < out[j].Signature
	})
	return out
}
