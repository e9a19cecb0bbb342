package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "housingcli/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "HOUSING"

// Config represents the complete application configuration
type Config struct {
	Ingest    IngestConfig    `yaml:"ingest" envconfig:"INGEST"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// IngestConfig controls how the input file is read and projected
type IngestConfig struct {
	InputPath     string `yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	XField        string `yaml:"x_field" envconfig:"X_FIELD" validate:"required"`
	YField        string `yaml:"y_field" envconfig:"Y_FIELD" validate:"required"`
	Delimiter     string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	BufferSize    int    `yaml:"buffer_size" envconfig:"BUFFER_SIZE" validate:"gte=0,lte=1048576"`
	Strict        bool   `yaml:"strict" envconfig:"STRICT"`
	Sheet         string `yaml:"sheet" envconfig:"SHEET"`
	DumpDataset   bool   `yaml:"dump_dataset" envconfig:"DUMP_DATASET"`
	ProgressEvery int    `yaml:"progress_every" envconfig:"PROGRESS_EVERY" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=none prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			InputPath:     "kc_house_data.csv",
			XField:        "sqft_living",
			YField:        "price",
			Delimiter:     ",",
			BufferSize:    256,
			DumpDataset:   true,
			ProgressEvery: 5000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/ingest.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "housing-ingest",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// HOUSING_* environment variables, in that order of precedence.
// An empty path falls back to the first config file found in the usual
// locations; a non-empty path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError("config file not readable", err).WithContext("path", path)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).WithContext("path", path)
		}
	}

	// Fields carry no default tags so only variables that are actually set
	// override the file values.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewValidationError("config validation failed", err)
	}
	// encoding/csv rejects these as delimiters
	if strings.ContainsAny(c.Ingest.Delimiter, "\"\r\n\uFFFD") {
		return apperrors.NewValidationError("invalid delimiter", nil).WithContext("delimiter", c.Ingest.Delimiter)
	}
	return nil
}

// DelimiterRune returns the configured field delimiter
func (c IngestConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// loadFromFile decodes the YAML file at path over cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}
