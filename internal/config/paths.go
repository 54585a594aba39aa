package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains all the application paths.
// This is the single source of truth for every file path the tools touch.
type Paths struct {
	BaseDir      string
	DataDir      string
	WorkbooksDir string
	SnapshotsDir string
	ChartsDir    string
	LogsDir      string

	// Well-known snapshot files
	RawSnapshot        string
	CleanedSnapshot    string
	TimeseriesSnapshot string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the current
// working directory, so the tools behave the same wherever they are invoked.
//
// Directory structure:
//
//	<base>/
//	  ├── data/
//	  │   ├── workbooks/   (raw Excel workbooks)
//	  │   ├── snapshots/   (tabular snapshot files)
//	  │   └── charts/      (rendered PNG charts)
//	  └── logs/
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFromBase(filepath.Dir(exe)), nil
}

// PathsFromBase builds the path set rooted at the given base directory.
func PathsFromBase(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	snapshotsDir := filepath.Join(dataDir, "snapshots")

	return &Paths{
		BaseDir:      baseDir,
		DataDir:      dataDir,
		WorkbooksDir: filepath.Join(dataDir, "workbooks"),
		SnapshotsDir: snapshotsDir,
		ChartsDir:    filepath.Join(dataDir, "charts"),
		LogsDir:      filepath.Join(baseDir, "logs"),

		RawSnapshot:        filepath.Join(snapshotsDir, "retail_raw.csv"),
		CleanedSnapshot:    filepath.Join(snapshotsDir, "retail_clean.csv"),
		TimeseriesSnapshot: filepath.Join(snapshotsDir, "retail_timeseries.csv"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.WorkbooksDir,
		p.SnapshotsDir,
		p.ChartsDir,
		p.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the full path for a log file name
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// SnapshotPath swaps the snapshot file extension for the given format.
// Format "parquet" yields a .parquet path; anything else keeps .csv.
func SnapshotPath(path, format string) string {
	if format != "parquet" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".parquet"
}
