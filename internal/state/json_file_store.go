package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// JSONStateFile is the file name JSONFileStore writes inside its data directory.
const JSONStateFile = "chores-state.json"

// JSONFileStore implements KVStore as a single JSON document mapping keys to
// raw JSON values. Values must themselves be valid JSON.
type JSONFileStore struct {
	path string
	mu   sync.RWMutex
}

// NewJSONFileStore creates a store backed by <dataDir>/chores-state.json.
// The file is created on the first Set.
func NewJSONFileStore(dataDir string) (*JSONFileStore, error) {
	if err := ensureDir(dataDir); err != nil {
		return nil, err
	}
	return &JSONFileStore{path: filepath.Join(dataDir, JSONStateFile)}, nil
}

// Get reads key from the file on disk, so changes made by other processes are seen.
func (s *JSONFileStore) Get(_ context.Context, key string) (foundation.Option[[]byte], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		return foundation.None[[]byte](), err
	}
	value, ok := doc[key]
	if !ok {
		return foundation.None[[]byte](), nil
	}
	return foundation.Some([]byte(value)), nil
}

// Set replaces key in the document and rewrites the file atomically.
// An unreadable existing document is replaced.
func (s *JSONFileStore) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}
	doc[key] = json.RawMessage(value)
	return s.writeDocument(doc)
}

var _ Timestamped = (*JSONFileStore)(nil)

// UpdatedAt returns the state file's modification time when key is stored in it.
func (s *JSONFileStore) UpdatedAt(_ context.Context, key string) (foundation.Option[time.Time], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		return foundation.None[time.Time](), err
	}
	if _, ok := doc[key]; !ok {
		return foundation.None[time.Time](), nil
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return foundation.None[time.Time](), fmt.Errorf("failed to stat state file: %w", err)
	}
	return foundation.Some(info.ModTime()), nil
}

// Close is a no-op; every Set is already durable.
func (s *JSONFileStore) Close() error {
	return nil
}

func (s *JSONFileStore) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return doc, nil
}

func (s *JSONFileStore) writeDocument(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Atomic write using temporary file
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
