package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/BryanOD95/data-workshops/internal/config"
	"github.com/BryanOD95/data-workshops/internal/dataset"
	"github.com/BryanOD95/data-workshops/internal/exporter"
	"github.com/BryanOD95/data-workshops/internal/files"
	"github.com/BryanOD95/data-workshops/internal/infrastructure"
	"github.com/BryanOD95/data-workshops/internal/ingest"
)

func main() {
	workbook := flag.String("workbook", "", "path to an Excel workbook (defaults to the newest file in data/workbooks)")
	out := flag.String("out", "", "output path for the raw CSV snapshot (defaults to data/snapshots/retail_raw.csv)")
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
				FilePath: paths.GetLogPath("ingest.log"),
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogger()

	ctx := infrastructure.WithRunID(context.Background())

	if *workbook == "" {
		discovery := files.NewDiscovery(paths.BaseDir)
		latest, err := discovery.LatestWorkbook(paths.WorkbooksDir)
		if err != nil {
			logger.ErrorContext(ctx, "No workbook found", slog.String("error", err.Error()))
			os.Exit(1)
		}
		*workbook = latest.Path
	}
	if *out == "" {
		*out = paths.RawSnapshot
	}

	logger.InfoContext(ctx, "Starting workbook ingest",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("workbook", *workbook),
		slog.String("output", *out))

	result, err := ingest.ReadWorkbook(ctx, logger, *workbook)
	if err != nil {
		logger.ErrorContext(ctx, "Workbook ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, sheet := range result.Sheets {
		fmt.Printf("Parsed sheet %s: %d rows (%d malformed)\n", sheet.Name, sheet.Rows, sheet.Malformed)
	}

	frame := dataset.FromTransactions(result.Transactions)
	writer := exporter.NewCSVWriter(paths.SnapshotsDir)
	if err := writer.WriteFrame(*out, frame); err != nil {
		logger.ErrorContext(ctx, "Failed to write raw snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Raw snapshot written",
		slog.String("path", *out),
		slog.Int("rows", frame.NumRows()),
		slog.Int("malformed_rows", result.Malformed))
	fmt.Printf("Ingest complete: %d transactions from %d sheets\n", len(result.Transactions), len(result.Sheets))
}
