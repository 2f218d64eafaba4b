package config

import (
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// Environment variables that override the configuration file.
const (
	EnvBackend  = "CHORES_BACKEND"
	EnvDataDir  = "CHORES_DATA_DIR"
	EnvLogLevel = "CHORES_LOG_LEVEL"
	EnvTimezone = "CHORES_TZ"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local from the working directory when
// present. Variables already set in the process environment win. A file that
// exists but cannot be parsed is a configuration error.
func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.ConfigError("failed to load environment file").
				WithCause(err).
				WithContext("path", name).
				Build()
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = Backend(v)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
}
