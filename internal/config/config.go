package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/eda.log"`
}

// AnalysisConfig contains the tuning knobs of the exploratory run.
// The defaults mirror the inline constants of the original analysis.
type AnalysisConfig struct {
	// DiscreteLevelCap excludes categorical columns with more distinct
	// levels than this from plotting (the columns stay in the dataset).
	DiscreteLevelCap int `yaml:"discrete_level_cap" envconfig:"DISCRETE_LEVEL_CAP" default:"100" validate:"gt=0"`
	// ChartTopN caps the number of levels shown per bar chart; the rest
	// are grouped into an "other" bucket.
	ChartTopN int `yaml:"chart_top_n" envconfig:"CHART_TOP_N" default:"40" validate:"gt=0"`
	// HistogramBins is the bin count for continuous and datetime histograms.
	HistogramBins int `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"30" validate:"gt=1"`
	// LabelWidth truncates long categorical level labels on charts.
	LabelWidth int `yaml:"label_width" envconfig:"LABEL_WIDTH" default:"24" validate:"gt=3"`
	// TailFraction is the share of the upper tail fed to the Hill estimator.
	TailFraction float64 `yaml:"tail_fraction" envconfig:"TAIL_FRACTION" default:"0.1" validate:"gt=0,lt=1"`
	// CancelPrefix marks cancelled invoices by identifier prefix.
	CancelPrefix string `yaml:"cancel_prefix" envconfig:"CANCEL_PREFIX" default:"C"`
	// RenderCharts disables chart output when false (useful in CI).
	RenderCharts bool `yaml:"render_charts" envconfig:"RENDER_CHARTS" default:"true"`
	// SnapshotFormat selects the output snapshot encoding (csv or parquet).
	SnapshotFormat string `yaml:"snapshot_format" envconfig:"SNAPSHOT_FORMAT" default:"csv" validate:"oneof=csv parquet"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("EDA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if envConfig.Analysis.DiscreteLevelCap == 0 {
		envConfig.Analysis.DiscreteLevelCap = fileConfig.Analysis.DiscreteLevelCap
	}
	if envConfig.Analysis.ChartTopN == 0 {
		envConfig.Analysis.ChartTopN = fileConfig.Analysis.ChartTopN
	}
	if envConfig.Analysis.HistogramBins == 0 {
		envConfig.Analysis.HistogramBins = fileConfig.Analysis.HistogramBins
	}
	if envConfig.Analysis.LabelWidth == 0 {
		envConfig.Analysis.LabelWidth = fileConfig.Analysis.LabelWidth
	}
	if envConfig.Analysis.TailFraction == 0 {
		envConfig.Analysis.TailFraction = fileConfig.Analysis.TailFraction
	}
	if envConfig.Analysis.CancelPrefix == "" {
		envConfig.Analysis.CancelPrefix = fileConfig.Analysis.CancelPrefix
	}
	if envConfig.Analysis.SnapshotFormat == "" {
		envConfig.Analysis.SnapshotFormat = fileConfig.Analysis.SnapshotFormat
	}

	if envConfig.Paths.BaseDir == "" {
		envConfig.Paths.BaseDir = fileConfig.Paths.BaseDir
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// Validate checks the configuration against the struct-level rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("invalid value for %s (rule %s)", first.Namespace(), first.Tag())
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the YAML config file.
// An explicit EDA_CONFIG_FILE wins; otherwise eda.yaml next to the executable.
func getConfigFilePath() string {
	if path := os.Getenv("EDA_CONFIG_FILE"); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "eda.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "eda.yaml")
}
