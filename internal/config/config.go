package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FEATURES"

// Config represents the complete pipeline configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"featurize.log"`
}

// PathsConfig contains file system locations. Relative directories are
// resolved against DataDir, which is itself resolved against the working
// directory.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	InputDir  string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"raw"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"processed"`
	ImagesDir string `yaml:"images_dir" envconfig:"IMAGES_DIR" default:"images"`
	ModelsDir string `yaml:"models_dir" envconfig:"MODELS_DIR" default:"models"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// InputsConfig names the three raw tables inside the input directory.
// The file extension selects the reader: .csv or .xlsx.
type InputsConfig struct {
	Transactions string `yaml:"transactions" envconfig:"TRANSACTIONS" default:"transactions_train.csv" validate:"required"`
	Customers    string `yaml:"customers" envconfig:"CUSTOMERS" default:"customers.csv" validate:"required"`
	Articles     string `yaml:"articles" envconfig:"ARTICLES" default:"articles.csv" validate:"required"`
	DateLayout   string `yaml:"date_layout" envconfig:"DATE_LAYOUT" default:"2006-01-02" validate:"required"`
	Sheet        string `yaml:"sheet" envconfig:"SHEET"`
}

// PipelineConfig controls which optional steps run and their parameters
type PipelineConfig struct {
	// ReferenceDate anchors the elapsed-day features, YYYY-MM-DD. Empty means
	// the processing date.
	ReferenceDate string `yaml:"reference_date" envconfig:"REFERENCE_DATE" validate:"omitempty,datetime=2006-01-02"`
	TopN          int    `yaml:"top_n" envconfig:"TOP_N" default:"800" validate:"gte=0"`
	Grouped       bool   `yaml:"grouped" envconfig:"GROUPED" default:"true"`
	ImagePaths    bool   `yaml:"image_paths" envconfig:"IMAGE_PATHS" default:"false"`
}

// OutputConfig selects the sinks the processed tables are written to
type OutputConfig struct {
	Formats      []string `yaml:"formats" envconfig:"FORMATS" default:"csv" validate:"min=1,dive,oneof=csv xlsx sqlite arrow"`
	Compress     bool     `yaml:"compress" envconfig:"COMPRESS" default:"false"`
	WorkbookFile string   `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" default:"features.xlsx"`
	SQLiteFile   string   `yaml:"sqlite_file" envconfig:"SQLITE_FILE" default:"features.db"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"featurize"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" default:"none" validate:"oneof=none stdout"`
	// MetricsTextfile is written in the Prometheus text format at the end of
	// a run. Empty disables it.
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// DefaultConfigFiles are probed in order when Load is given no path
var DefaultConfigFiles = []string{
	"featurize.yaml",
	"configs/featurize.yaml",
}

// Load builds the configuration from defaults and FEATURES_* environment
// variables, then overlays the YAML file at path. An empty path probes
// DefaultConfigFiles and skips the overlay when none exists; an explicit path
// that does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not readable", path), err)
	}

	if path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config file %s", path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlayFile decodes the YAML file over cfg. Keys absent from the file keep
// their current values.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func findConfigFile() string {
	for _, location := range DefaultConfigFiles {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// ReferenceTime returns the configured reference date, or the UTC calendar
// date of now when none is set.
func (c *Config) ReferenceTime(now time.Time) (time.Time, error) {
	if c.Pipeline.ReferenceDate == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	ref, err := time.Parse(DateLayout, c.Pipeline.ReferenceDate)
	if err != nil {
		return time.Time{}, apperrors.NewConfigError("invalid reference date", err).
			WithContext("reference_date", c.Pipeline.ReferenceDate)
	}
	return ref, nil
}

// HasFormat reports whether the named output format is enabled
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Default returns the configuration Load produces with no environment
// variables and no config file.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: "featurize.log",
		},
		Paths: PathsConfig{
			DataDir:   DefaultDataDir,
			InputDir:  DefaultInputDir,
			OutputDir: DefaultOutputDir,
			ImagesDir: DefaultImagesDir,
			ModelsDir: DefaultModelsDir,
			LogsDir:   DefaultLogsDir,
		},
		Inputs: InputsConfig{
			Transactions: "transactions_train.csv",
			Customers:    "customers.csv",
			Articles:     "articles.csv",
			DateLayout:   DateLayout,
		},
		Pipeline: PipelineConfig{
			TopN:    DefaultTopN,
			Grouped: true,
		},
		Output: OutputConfig{
			Formats:      []string{FormatCSV},
			WorkbookFile: "features.xlsx",
			SQLiteFile:   "features.db",
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
			Tracing:     "none",
		},
	}
}
