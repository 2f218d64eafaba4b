package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "chores.yaml"

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Logging  LoggingConfig `yaml:"logging"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Report   ReportConfig  `yaml:"report"`
	Timezone string        `yaml:"timezone"` // IANA zone for day counting; "Local" uses the system zone
}

// StorageConfig selects where chores are kept.
type StorageConfig struct {
	Backend Backend `yaml:"backend"`  // json, sqlite or memory
	DataDir string  `yaml:"data_dir"` // Directory holding the state file
}

// MetricsConfig controls Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Path for node_exporter's textfile collector; empty disables
}

// ReportConfig controls the rendered urgency report.
type ReportConfig struct {
	Title string `yaml:"title"`
}

// Load reads the configuration file at path. A missing file is not an error:
// defaults (plus environment overrides) are returned instead.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.ConfigError("failed to parse configuration file").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.ConfigError("failed to read configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone. Validate has already rejected unknown zones.
func (c *Config) Location() *time.Location {
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Init creates a new configuration file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			DataDir: "${HOME}/.local/share/housechores",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Report: ReportConfig{
			Title: DefaultReportTitle,
		},
		Timezone: "Local",
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
