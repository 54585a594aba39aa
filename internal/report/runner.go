package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BryanOD95/data-workshops/internal/aggregate"
	"github.com/BryanOD95/data-workshops/internal/charts"
	"github.com/BryanOD95/data-workshops/internal/classify"
	"github.com/BryanOD95/data-workshops/internal/clean"
	"github.com/BryanOD95/data-workshops/internal/config"
	"github.com/BryanOD95/data-workshops/internal/dataset"
	"github.com/BryanOD95/data-workshops/internal/exporter"
	"github.com/BryanOD95/data-workshops/internal/profile"
)

// facetColumn splits charts by workbook sheet.
const facetColumn = "excel_sheet"

// RunSummary aggregates the outcome of a full analysis run.
type RunSummary struct {
	RowsIn            int
	RowsOut           int
	DuplicatesRemoved int
	DroppedColumns    []string
	ClassCounts       map[classify.Label]int
	ChartsRendered    int
	InvoiceSpend      aggregate.Summary
	CustomerSpend     aggregate.Summary
	Tail              *aggregate.TailIndex
	Outputs           []string
	Elapsed           time.Duration
}

// Runner executes the analysis pipeline against the raw snapshot.
type Runner struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, paths: paths, logger: logger}
}

// Run loads the raw snapshot and executes classification, cleaning,
// missingness profiling, chart rendering, aggregation and snapshot export.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	started := time.Now()
	summary := &RunSummary{}

	raw, err := r.loadStage()
	if err != nil {
		return nil, err
	}
	summary.RowsIn = raw.NumRows()

	r.profileStage(raw, summary)

	cleaned, err := r.cleanStage(ctx, raw, summary)
	if err != nil {
		return nil, err
	}

	cls := r.classifyStage(cleaned.Frame, summary)

	if r.cfg.Analysis.RenderCharts {
		if err := r.chartStage(ctx, cleaned, cls, summary); err != nil {
			return nil, err
		}
	} else {
		r.logger.Info("Chart rendering disabled")
	}

	if err := r.aggregateStage(cleaned.Frame, summary); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(started)
	r.logger.Info("Analysis run complete",
		slog.Int("rows_in", summary.RowsIn),
		slog.Int("rows_out", summary.RowsOut),
		slog.Int("duplicates_removed", summary.DuplicatesRemoved),
		slog.Int("charts_rendered", summary.ChartsRendered),
		slog.Int("outputs", len(summary.Outputs)),
		slog.Duration("elapsed", summary.Elapsed))

	return summary, nil
}

func (r *Runner) stage(name string) func() {
	start := time.Now()
	return func() {
		r.logger.Info("Stage complete",
			slog.String("stage", name),
			slog.Duration("elapsed", time.Since(start)))
	}
}

func (r *Runner) loadStage() (*dataset.Frame, error) {
	defer r.stage("load")()

	raw, err := dataset.ReadCSV(r.paths.RawSnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw snapshot: %w", err)
	}

	r.logger.Info("Raw snapshot loaded",
		slog.String("path", r.paths.RawSnapshot),
		slog.Int("rows", raw.NumRows()),
		slog.Int("columns", raw.NumCols()))
	return raw, nil
}

// profileStage reports missingness on the raw data, before cleaning can
// mask it. Failures to write the profile snapshots are logged, not fatal.
func (r *Runner) profileStage(raw *dataset.Frame, summary *RunSummary) {
	defer r.stage("profile")()

	byColumn := profile.MissingByColumn(raw)
	for _, cm := range byColumn {
		if cm.Missing == 0 {
			continue
		}
		r.logger.Info("Column has missing values",
			slog.String("column", cm.Column),
			slog.Int("missing", cm.Missing),
			slog.Float64("proportion", cm.Proportion))
	}

	patterns := profile.MissingPatterns(raw)

	w := exporter.NewCSVWriter(r.paths.SnapshotsDir)

	colRecords := make([][]string, 0, len(byColumn))
	for _, cm := range byColumn {
		colRecords = append(colRecords, []string{
			cm.Column,
			strconv.Itoa(cm.Missing),
			formatProportion(cm.Proportion),
		})
	}
	if err := w.WriteSimpleCSV("missing_columns.csv", []string{"column", "missing", "proportion"}, colRecords); err != nil {
		r.logger.Warn("Failed to write missingness profile", slog.String("error", err.Error()))
	} else {
		summary.Outputs = append(summary.Outputs, "missing_columns.csv")
	}

	patRecords := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		patRecords = append(patRecords, []string{
			strings.Join(p.MissingColumns, "|"),
			strconv.Itoa(p.Rows),
			formatProportion(p.Proportion),
		})
	}
	if err := w.WriteSimpleCSV("missing_patterns.csv", []string{"missing_columns", "rows", "proportion"}, patRecords); err != nil {
		r.logger.Warn("Failed to write missingness patterns", slog.String("error", err.Error()))
	} else {
		summary.Outputs = append(summary.Outputs, "missing_patterns.csv")
	}
}

func (r *Runner) cleanStage(ctx context.Context, raw *dataset.Frame, summary *RunSummary) (*clean.Result, error) {
	defer r.stage("clean")()

	opts := clean.DefaultOptions()
	opts.CancelPrefix = r.cfg.Analysis.CancelPrefix
	opts.DiscreteLevelCap = r.cfg.Analysis.DiscreteLevelCap

	result, err := clean.Clean(ctx, r.logger, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("cleaning failed: %w", err)
	}

	summary.RowsOut = result.RowsOut
	summary.DuplicatesRemoved = result.DuplicatesRemoved
	summary.DroppedColumns = result.DroppedColumns
	return result, nil
}

func (r *Runner) classifyStage(f *dataset.Frame, summary *RunSummary) classify.Classification {
	defer r.stage("classify")()

	cls := classify.Classify(f)
	summary.ClassCounts = cls.Counts()

	for _, label := range classify.Labels() {
		cols := cls.Bucket(label)
		if len(cols) == 0 {
			continue
		}
		r.logger.Info("Column class",
			slog.String("class", string(label)),
			slog.Int("count", len(cols)),
			slog.String("columns", strings.Join(cols, ",")))
	}
	return cls
}

func (r *Runner) chartStage(ctx context.Context, cleaned *clean.Result, cls classify.Classification, summary *RunSummary) error {
	defer r.stage("charts")()

	opts := charts.DefaultOptions()
	opts.TopN = r.cfg.Analysis.ChartTopN
	opts.Bins = r.cfg.Analysis.HistogramBins
	opts.LabelWidth = r.cfg.Analysis.LabelWidth

	renderer := charts.NewRenderer(r.paths.ChartsDir, opts, r.logger)
	rendered, err := renderer.RenderAll(ctx, cleaned.Frame, cls, cleaned.PlotExclusions(), facetColumn)
	if err != nil {
		return fmt.Errorf("chart rendering failed: %w", err)
	}
	summary.ChartsRendered = rendered
	return nil
}

func (r *Runner) aggregateStage(f *dataset.Frame, summary *RunSummary) error {
	defer r.stage("aggregate")()

	invoices, err := aggregate.ByInvoice(f)
	if err != nil {
		return fmt.Errorf("invoice aggregation failed: %w", err)
	}
	customers, err := aggregate.ByCustomer(f)
	if err != nil {
		return fmt.Errorf("customer aggregation failed: %w", err)
	}
	buckets, err := aggregate.TimeBuckets(f)
	if err != nil {
		return fmt.Errorf("timeseries aggregation failed: %w", err)
	}

	summary.InvoiceSpend = aggregate.Describe(aggregate.Amounts(invoices))
	summary.CustomerSpend = aggregate.Describe(aggregate.Amounts(customers))

	tail, err := aggregate.HillTailIndex(aggregate.Amounts(customers), r.cfg.Analysis.TailFraction)
	if err != nil {
		r.logger.Warn("Tail index unavailable", slog.String("error", err.Error()))
	} else {
		summary.Tail = &tail
		r.logger.Info("Customer spend tail index",
			slog.Float64("gamma", tail.Gamma),
			slog.Float64("alpha", tail.Alpha),
			slog.Int("k", tail.K),
			slog.Float64("threshold", tail.Threshold))
	}

	return r.exportStage(f, invoices, customers, buckets, summary)
}

func (r *Runner) exportStage(f *dataset.Frame, invoices, customers []aggregate.KeyTotal, buckets []aggregate.PeriodTotal, summary *RunSummary) error {
	defer r.stage("export")()

	w := exporter.NewCSVWriter(r.paths.SnapshotsDir)
	format := r.cfg.Analysis.SnapshotFormat

	cleanedPath := config.SnapshotPath(r.paths.CleanedSnapshot, format)
	if format == "parquet" {
		if err := exporter.WriteParquet(cleanedPath, exporter.CleanedRows(f)); err != nil {
			return fmt.Errorf("failed to write cleaned snapshot: %w", err)
		}
	} else {
		if err := w.WriteFrame(cleanedPath, f); err != nil {
			return fmt.Errorf("failed to write cleaned snapshot: %w", err)
		}
	}
	summary.Outputs = append(summary.Outputs, cleanedPath)

	timeseriesPath := config.SnapshotPath(r.paths.TimeseriesSnapshot, format)
	if format == "parquet" {
		if err := exporter.WriteParquet(timeseriesPath, exporter.PeriodRows(buckets)); err != nil {
			return fmt.Errorf("failed to write timeseries snapshot: %w", err)
		}
	} else {
		headers, records := exporter.TimeseriesRecords(buckets)
		if err := w.WriteSimpleCSV(timeseriesPath, headers, records); err != nil {
			return fmt.Errorf("failed to write timeseries snapshot: %w", err)
		}
	}
	summary.Outputs = append(summary.Outputs, timeseriesPath)

	headers, records := exporter.KeyTotalRecords("invoice", invoices)
	if err := w.WriteSimpleCSV("invoice_totals.csv", headers, records); err != nil {
		return fmt.Errorf("failed to write invoice totals: %w", err)
	}
	summary.Outputs = append(summary.Outputs, "invoice_totals.csv")

	headers, records = exporter.KeyTotalRecords("customer_id", customers)
	if err := w.WriteSimpleCSV("customer_totals.csv", headers, records); err != nil {
		return fmt.Errorf("failed to write customer totals: %w", err)
	}
	summary.Outputs = append(summary.Outputs, "customer_totals.csv")

	return nil
}

func formatProportion(p float64) string {
	return strconv.FormatFloat(p, 'f', 4, 64)
}
