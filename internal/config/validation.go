package config

import (
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// Validate reports the first problem in cfg as a config error.
func Validate(cfg *Config) error {
	if _, err := backendNormalizer.Parse(string(cfg.Storage.Backend)); err != nil {
		return errors.ConfigError("invalid storage backend").
			WithCause(err).
			WithContext("backend", string(cfg.Storage.Backend)).
			Build()
	}
	if cfg.Storage.Backend != BackendMemory && cfg.Storage.DataDir == "" {
		return errors.ConfigError("storage data_dir must be set").Build()
	}
	if _, err := logLevelNormalizer.Parse(string(cfg.Logging.Level)); err != nil {
		return errors.ConfigError("invalid logging level").
			WithCause(err).
			WithContext("level", string(cfg.Logging.Level)).
			Build()
	}
	if _, err := logFormatNormalizer.Parse(string(cfg.Logging.Format)); err != nil {
		return errors.ConfigError("invalid logging format").
			WithCause(err).
			WithContext("format", string(cfg.Logging.Format)).
			Build()
	}
	if _, err := loadLocation(cfg.Timezone); err != nil {
		return errors.ConfigError("unknown timezone").
			WithCause(err).
			WithContext("timezone", cfg.Timezone).
			Build()
	}
	return nil
}
