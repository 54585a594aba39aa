package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BryanOD95/data-workshops/internal/config"
	"github.com/BryanOD95/data-workshops/internal/infrastructure"
	"github.com/BryanOD95/data-workshops/internal/report"
)

func main() {
	noCharts := flag.Bool("no-charts", false, "skip chart rendering")
	format := flag.String("format", "", "snapshot output format: csv or parquet (defaults to configuration)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:    "info",
				Format:   "json",
				Output:   "both",
				FilePath: paths.GetLogPath("eda.log"),
			},
			Analysis: config.AnalysisConfig{
				DiscreteLevelCap: 100,
				ChartTopN:        40,
				HistogramBins:    30,
				LabelWidth:       24,
				TailFraction:     0.1,
				CancelPrefix:     "C",
				RenderCharts:     true,
				SnapshotFormat:   "csv",
			},
		}
	}

	if *noCharts {
		cfg.Analysis.RenderCharts = false
	}
	if *format != "" {
		cfg.Analysis.SnapshotFormat = *format
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid snapshot format", "format", *format)
			os.Exit(1)
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	ctx := infrastructure.WithRunID(context.Background())

	logger.InfoContext(ctx, "Starting analysis run",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("snapshot_format", cfg.Analysis.SnapshotFormat),
		slog.Bool("render_charts", cfg.Analysis.RenderCharts))

	runner := report.NewRunner(cfg, paths, logger)
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Rows: %d in, %d out (%d duplicates removed)\n",
		summary.RowsIn, summary.RowsOut, summary.DuplicatesRemoved)
	fmt.Printf("Charts rendered: %d\n", summary.ChartsRendered)
	fmt.Printf("Invoice spend: n=%d mean=%.2f median=%.2f\n",
		summary.InvoiceSpend.Count, summary.InvoiceSpend.Mean, summary.InvoiceSpend.Median)
	if summary.Tail != nil {
		fmt.Printf("Customer spend tail: alpha=%.3f (k=%d)\n", summary.Tail.Alpha, summary.Tail.K)
	}
	for _, out := range summary.Outputs {
		fmt.Printf("Wrote %s\n", out)
	}
	fmt.Printf("Analysis complete in %s\n", summary.Elapsed.Round(time.Millisecond))
}
