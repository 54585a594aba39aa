// Package clean normalizes the raw snapshot into the analysis dataset:
// header normalization, derived calendar fields, the cancellation flag,
// duplicate removal, and column pruning.
package clean

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BryanOD95/data-workshops/internal/dataset"
)

// Options configures a cleaning pass.
type Options struct {
	// CancelPrefix marks cancelled invoices by identifier prefix.
	CancelPrefix string
	// DiscreteLevelCap is the distinct-level count above which a
	// categorical column is excluded from plotting.
	DiscreteLevelCap int
	// TimestampColumn is the normalized name of the invoice timestamp.
	TimestampColumn string
}

// DefaultOptions mirrors the inline constants of the original analysis.
func DefaultOptions() Options {
	return Options{
		CancelPrefix:     "C",
		DiscreteLevelCap: 100,
		TimestampColumn:  "invoice_date",
	}
}

// Result is the outcome of a cleaning pass. PlotExclusions lists columns
// retained in the dataset but unsuitable for exploratory charts.
type Result struct {
	Frame             *dataset.Frame
	RowsIn            int
	RowsOut           int
	DuplicatesRemoved int
	DroppedColumns    []string
	IdentifierColumns []string
	HighCardinality   []string
}

// PlotExclusions returns the identifier and high-cardinality columns as
// one set.
func (r *Result) PlotExclusions() map[string]bool {
	out := make(map[string]bool, len(r.IdentifierColumns)+len(r.HighCardinality))
	for _, c := range r.IdentifierColumns {
		out[c] = true
	}
	for _, c := range r.HighCardinality {
		out[c] = true
	}
	return out
}

// Dedup key: one retained row per (sheet, invoice day, invoice, item).
var dedupKeys = []string{"excel_sheet", "invoice_day", "invoice", "stock_code"}

// Clean runs the full cleaning pass over a raw snapshot frame.
func Clean(ctx context.Context, logger *slog.Logger, f *dataset.Frame, opts Options) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = "invoice_date"
	}

	res := &Result{RowsIn: f.NumRows()}

	normalizeNames(f)

	if err := deriveCalendar(f, opts.TimestampColumn); err != nil {
		return nil, fmt.Errorf("derive calendar fields: %w", err)
	}

	if err := flagCancellations(f, opts.CancelPrefix); err != nil {
		return nil, fmt.Errorf("flag cancellations: %w", err)
	}

	deduped, removed, err := f.DropDuplicates(dedupKeys...)
	if err != nil {
		return nil, fmt.Errorf("drop duplicates: %w", err)
	}
	res.DuplicatesRemoved = removed
	logger.InfoContext(ctx, "duplicates removed",
		slog.Int("rows_in", res.RowsIn),
		slog.Int("removed", removed))
	f = deduped

	res.DroppedColumns = dropEmptyColumns(f)
	if len(res.DroppedColumns) > 0 {
		logger.InfoContext(ctx, "dropped all-missing columns",
			slog.Any("columns", res.DroppedColumns))
	}

	tagCategoricalLevels(f, opts.DiscreteLevelCap)
	res.IdentifierColumns, res.HighCardinality = plotExclusions(f, opts.DiscreteLevelCap)
	if len(res.IdentifierColumns) > 0 || len(res.HighCardinality) > 0 {
		logger.InfoContext(ctx, "columns excluded from plotting",
			slog.Any("identifiers", res.IdentifierColumns),
			slog.Any("high_cardinality", res.HighCardinality))
	}

	res.Frame = f
	res.RowsOut = f.NumRows()
	return res, nil
}

// normalizeNames rewrites every header to lower_snake_case.
func normalizeNames(f *dataset.Frame) {
	for _, name := range f.ColumnNames() {
		normalized := NormalizeName(name)
		if normalized != name {
			// Collisions keep the original header rather than clobbering.
			_ = f.RenameColumn(name, normalized)
		}
	}
}

// flagCancellations derives the is_cancelled column from the invoice
// identifier prefix.
func flagCancellations(f *dataset.Frame, prefix string) error {
	inv := f.Column("invoice")
	if inv == nil {
		return fmt.Errorf("invoice column not found")
	}
	flags := make([]dataset.Value, len(inv.Values))
	for i, v := range inv.Values {
		if v.IsNull() {
			flags[i] = dataset.Null()
			continue
		}
		flags[i] = dataset.Bool(prefix != "" && strings.HasPrefix(v.Render(), prefix))
	}
	if f.HasColumn("is_cancelled") {
		f.DropColumn("is_cancelled")
	}
	return f.AddColumn(dataset.Column{Name: "is_cancelled", Values: flags})
}

// dropEmptyColumns removes columns that are 100% missing and returns
// their names.
func dropEmptyColumns(f *dataset.Frame) []string {
	var dropped []string
	for _, name := range f.ColumnNames() {
		col := f.Column(name)
		if len(col.Values) > 0 && col.MissingCount() == len(col.Values) {
			dropped = append(dropped, name)
		}
	}
	for _, name := range dropped {
		f.DropColumn(name)
	}
	return dropped
}

// tagCategoricalLevels attaches level metadata, in first-seen order, to
// text columns at or below the level cap that do not already carry levels.
func tagCategoricalLevels(f *dataset.Frame, levelCap int) {
	for _, name := range f.ColumnNames() {
		col := f.Column(name)
		if len(col.Levels) > 0 {
			continue
		}
		if !allText(col) {
			continue
		}
		if col.DistinctNonNull() > levelCap {
			continue
		}
		seen := make(map[string]bool)
		var levels []string
		for _, v := range col.Values {
			if v.Kind != dataset.KindString || seen[v.Str] {
				continue
			}
			seen[v.Str] = true
			levels = append(levels, v.Str)
		}
		col.Levels = levels
	}
}

// plotExclusions identifies unique-identifier columns and categorical
// columns above the level cap. Both stay in the dataset; they are only
// kept off the charts.
func plotExclusions(f *dataset.Frame, levelCap int) (identifiers, highCardinality []string) {
	rows := f.NumRows()
	for _, name := range f.ColumnNames() {
		col := f.Column(name)
		distinct := col.DistinctNonNull()
		if rows > 1 && distinct == rows {
			identifiers = append(identifiers, name)
			continue
		}
		if (len(col.Levels) > 0 || allText(col)) && distinct > levelCap {
			highCardinality = append(highCardinality, name)
		}
	}
	return identifiers, highCardinality
}

// allText reports whether every non-null cell is a string.
func allText(col *dataset.Column) bool {
	nonNull := 0
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		nonNull++
		if v.Kind != dataset.KindString {
			return false
		}
	}
	return nonNull > 0
}
