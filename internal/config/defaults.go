package config

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/housechores/internal/foundation/normalization"
)

// Backend names a storage backend.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

var backendNormalizer = normalization.NewNormalizer(map[string]Backend{
	"json":   BackendJSON,
	"sqlite": BackendSQLite,
	"memory": BackendMemory,
}, BackendJSON)

// DefaultReportTitle heads reports when report.title is unset.
const DefaultReportTitle = "Household chores"

// applyDefaults fills unset fields and canonicalizes enum spellings. Unknown
// enum values are left for Validate to report.
func applyDefaults(cfg *Config) {
	if b, err := backendNormalizer.Parse(string(cfg.Storage.Backend)); err == nil {
		cfg.Storage.Backend = b
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir()
	}
	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)

	if l, err := logLevelNormalizer.Parse(string(cfg.Logging.Level)); err == nil {
		cfg.Logging.Level = l
	}
	if f, err := logFormatNormalizer.Parse(string(cfg.Logging.Format)); err == nil {
		cfg.Logging.Format = f
	}
	cfg.Metrics.Textfile = expandHome(cfg.Metrics.Textfile)

	if strings.TrimSpace(cfg.Report.Title) == "" {
		cfg.Report.Title = DefaultReportTitle
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
}

// defaultDataDir follows the XDG base directory layout.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "housechores")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "housechores")
	}
	return ".housechores"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
