// Package watch notifies when a chore state file changes on disk, so a
// long-running view can re-seed itself after another process saves.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/housechores/internal/logfields"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// StateWatcher monitors one state file and calls onChange after it settles.
type StateWatcher struct {
	path     string
	onChange func(ctx context.Context)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	started  bool
	stopChan chan struct{}
	changed  chan struct{}
	wg       sync.WaitGroup
}

// Option configures a StateWatcher.
type Option func(*StateWatcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *StateWatcher) { w.debounce = d }
}

// WithLogger sets the logger (slog.Default otherwise).
func WithLogger(logger *slog.Logger) Option {
	return func(w *StateWatcher) { w.logger = logger }
}

// New creates a watcher for path. onChange runs on the watcher's goroutine,
// never concurrently with itself.
func New(path string, onChange func(ctx context.Context), opts ...Option) (*StateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve state path: %w", err)
	}

	w := &StateWatcher{
		path:     absPath,
		onChange: onChange,
		watcher:  watcher,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		stopChan: make(chan struct{}),
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins monitoring. The directory is watched rather than the file,
// since atomic saves replace the file and would drop a file-level watch.
func (w *StateWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("watcher already started")
	}
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch state directory %s: %w", dir, err)
	}
	w.started = true

	w.logger.Info("Watching chore state", logfields.Path(w.path))

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.notifyLoop(ctx)
	return nil
}

// Stop ends monitoring and waits for pending callbacks to return.
func (w *StateWatcher) Stop() error {
	w.mu.Lock()
	select {
	case <-w.stopChan:
		w.mu.Unlock()
		return nil
	default:
		close(w.stopChan)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// relevant reports whether name belongs to the state file, including the
// journal files SQLite keeps next to its database.
func (w *StateWatcher) relevant(name string) bool {
	base := filepath.Base(name)
	file := filepath.Base(w.path)
	return base == file || strings.HasPrefix(base, file+"-")
}

func (w *StateWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}

			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.logger.Debug("State change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.trigger()
			case event.Has(fsnotify.Remove):
				w.logger.Warn("State file removed", logfields.Path(event.Name))
				w.trigger()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("State watcher error", logfields.Error(err))
		}
	}
}

func (w *StateWatcher) trigger() {
	select {
	case w.changed <- struct{}{}:
	default:
		// Already pending
	}
}

// notifyLoop runs onChange once events have been quiet for the debounce period.
func (w *StateWatcher) notifyLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.changed:
			timer.Reset(w.debounce)
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}
