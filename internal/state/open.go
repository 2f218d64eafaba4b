package state

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the KVStore for backend, keeping its files in dataDir.
func Open(backend, dataDir string) (KVStore, error) {
	switch backend {
	case BackendJSON:
		store, err := NewJSONFileStore(dataDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSQLite:
		if err := ensureDir(dataDir); err != nil {
			return nil, err
		}
		store, err := NewSQLiteStore(filepath.Join(dataDir, SQLiteStateFile))
		if err != nil {
			return nil, errors.PersistenceFailure("failed to open sqlite store").
				WithCause(err).
				WithContext("data_dir", dataDir).
				Build()
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.ConfigError("unknown storage backend").
			WithContext("backend", backend).
			Build()
	}
}

// StatePath returns the file a backend writes in dataDir, or "" for the
// memory backend.
func StatePath(backend, dataDir string) string {
	switch backend {
	case BackendJSON:
		return filepath.Join(dataDir, JSONStateFile)
	case BackendSQLite:
		return filepath.Join(dataDir, SQLiteStateFile)
	default:
		return ""
	}
}

func ensureDir(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.FileSystemError("failed to create data directory").
			WithCause(err).
			WithContext("data_dir", dataDir).
			Build()
	}
	return nil
}
