// Package aggregate computes the derived spend tables: per-invoice and
// per-customer totals, daily/weekly/monthly time buckets, and a
// descriptive heavy-tail index over customer spend.
package aggregate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// KeyTotal is a summed spend amount for one grouping key.
type KeyTotal struct {
	Key    string
	Amount float64
	Lines  int
}

// ByInvoice sums price x quantity per invoice identifier. Return rows with
// negative quantities net against the positive rows; there is no special
// casing. Results are sorted by key.
func ByInvoice(f *dataset.Frame) ([]KeyTotal, error) {
	return sumByKey(f, "invoice", false)
}

// ByCustomer sums price x quantity per customer identifier. Rows without a
// customer id are grouped under the empty key so the grand total is
// preserved.
func ByCustomer(f *dataset.Frame) ([]KeyTotal, error) {
	return sumByKey(f, "customer_id", true)
}

// sumByKey groups rows by the rendered key cell and sums line amounts.
func sumByKey(f *dataset.Frame, keyCol string, keepMissing bool) ([]KeyTotal, error) {
	key := f.Column(keyCol)
	if key == nil {
		return nil, fmt.Errorf("column %q not found", keyCol)
	}
	amounts, err := rowAmounts(f)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*KeyTotal)
	for r, amount := range amounts {
		k := key.Values[r].Render()
		if k == "" && !keepMissing {
			continue
		}
		t, ok := totals[k]
		if !ok {
			t = &KeyTotal{Key: k}
			totals[k] = t
		}
		t.Amount += amount
		t.Lines++
	}

	out := make([]KeyTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// rowAmounts computes price x quantity per row. Rows missing either value
// contribute zero, matching a grouped sum over a table with NA amounts
// excluded.
func rowAmounts(f *dataset.Frame) ([]float64, error) {
	price := f.Column("price")
	qty := f.Column("quantity")
	if price == nil || qty == nil {
		return nil, fmt.Errorf("price/quantity columns not found")
	}

	amounts := make([]float64, f.NumRows())
	for r := range amounts {
		p, okP := price.Values[r].AsFloat()
		q, okQ := qty.Values[r].AsFloat()
		if okP && okQ {
			amounts[r] = p * q
		}
	}
	return amounts, nil
}

// Amounts extracts the non-zero totals from a key-grouped table.
func Amounts(totals []KeyTotal) []float64 {
	out := make([]float64, 0, len(totals))
	for _, t := range totals {
		out = append(out, t.Amount)
	}
	return out
}

// Summary is a five-number style description of a distribution.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Q1     float64
	Q3     float64
	Min    float64
	Max    float64
}

// Describe computes the summary of a value slice. An empty slice yields
// the zero summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}
}
