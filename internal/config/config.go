package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable the pipeline reads.
// Keys follow the field path, e.g. SALES_SOURCE_QUERY_TIMEOUT.
const EnvPrefix = "SALES"

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" split_words:"true"`
	Output    OutputConfig    `yaml:"output" split_words:"true"`
	Report    ReportConfig    `yaml:"report" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	Telemetry TelemetryConfig `yaml:"telemetry" split_words:"true"`
}

// SourceConfig selects the relational store the sales lines are read from
type SourceConfig struct {
	Driver       string        `yaml:"driver" split_words:"true" validate:"oneof=sqlite postgres"`
	Path         string        `yaml:"path" split_words:"true" validate:"required_if=Driver sqlite"`
	DSN          string        `yaml:"dsn" split_words:"true" validate:"required_if=Driver postgres"`
	QueryTimeout time.Duration `yaml:"query_timeout" split_words:"true" validate:"gte=0"`
}

// OutputConfig contains sink configuration
type OutputConfig struct {
	Dir             string `yaml:"dir" split_words:"true" validate:"required"`
	TestDir         string `yaml:"test_dir" split_words:"true" validate:"required"`
	SampleSize      int    `yaml:"sample_size" split_words:"true" validate:"gt=0"`
	CSVBOM          bool   `yaml:"csv_bom" envconfig:"CSV_BOM"`
	TimestampFormat string `yaml:"timestamp_format" split_words:"true" validate:"required"`
}

// ReportConfig contains aggregation settings
type ReportConfig struct {
	TopN          int `yaml:"top_n" split_words:"true" validate:"gt=0"`
	TopCategories int `yaml:"top_categories" split_words:"true" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" split_words:"true"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig contains tracing and metrics export configuration
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" split_words:"true"`
	TraceExporter  string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout file"`
	TraceFile      string `yaml:"trace_file" split_words:"true" validate:"required_if=TraceExporter file"`
	MetricExporter string `yaml:"metric_exporter" split_words:"true" validate:"oneof=none prometheus"`
	MetricsFile    string `yaml:"metrics_file" split_words:"true"`
}

// Load reads configuration from .env, the first config.yaml found and the
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = AppName
	}

	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Driver:       "sqlite",
			Path:         DefaultDatabasePath,
			QueryTimeout: 5 * time.Minute,
		},
		Output: OutputConfig{
			Dir:             DefaultOutputDir,
			TestDir:         DefaultTestOutputDir,
			SampleSize:      DefaultSampleSize,
			TimestampFormat: TimestampLayout,
		},
		Report: ReportConfig{
			TopN:          DefaultTopN,
			TopCategories: DefaultTopCategories,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricExporter: "none",
		},
	}
}

// OutputDir returns the directory a run writes to.
func (c *Config) OutputDir(testMode bool) string {
	if testMode {
		return c.Output.TestDir
	}
	return c.Output.Dir
}

// SourceLocator returns the file path or DSN for the configured driver.
func (c *Config) SourceLocator() string {
	if c.Source.Driver == "postgres" {
		return c.Source.DSN
	}
	return c.Source.Path
}

// MetricsPath returns the metrics textfile path. It defaults to the logs
// directory so that no run writes it among the outputs.
func (c *Config) MetricsPath() string {
	if c.Telemetry.MetricsFile != "" {
		return c.Telemetry.MetricsFile
	}
	return filepath.Join(DefaultLogsDir, MetricsTextfileName)
}
