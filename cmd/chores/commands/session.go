package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/housechores/internal/chore"
	"git.home.luguber.info/inful/housechores/internal/config"
	"git.home.luguber.info/inful/housechores/internal/logfields"
	"git.home.luguber.info/inful/housechores/internal/metrics"
	"git.home.luguber.info/inful/housechores/internal/state"
)

// session wires one command invocation: configuration, storage, metrics and
// the repository seeded from storage.
type session struct {
	cfg       *config.Config
	store     state.KVStore
	repo      *chore.Repository
	registry  *prometheus.Registry
	recorder  *metrics.PrometheusRecorder
	logger    *slog.Logger
	clock     func() time.Time
	statePath string
	out       io.Writer
	errOut    io.Writer
}

func openSession(ctx context.Context, g *Global, root *CLI) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if root.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	logger := g.Logger
	if logger == nil {
		logger = setupLogging(g.stderr(), cfg.Logging.Level, cfg.Logging.Format, root.Verbose)
	}

	backend := string(cfg.Storage.Backend)
	store, err := state.Open(backend, cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened chore store",
		logfields.Backend(backend),
		logfields.Path(state.StatePath(backend, cfg.Storage.DataDir)))

	clock := g.clock()
	loc := cfg.Location()

	s := &session{
		cfg:       cfg,
		store:     store,
		registry:  prometheus.NewRegistry(),
		logger:    logger,
		clock:     func() time.Time { return clock.Now().In(loc) },
		statePath: state.StatePath(backend, cfg.Storage.DataDir),
		out:       g.stdout(),
		errOut:    g.stderr(),
	}
	s.recorder = metrics.NewPrometheusRecorder(s.registry)
	s.repo = s.load(ctx)
	return s, nil
}

// load seeds a fresh repository from the store.
func (s *session) load(ctx context.Context) *chore.Repository {
	return chore.NewRepository(ctx,
		state.NewChoreAdapter(s.store, s.logger),
		chore.WithClock(s.clock),
		chore.WithLogger(s.logger),
		chore.WithRecorder(s.recorder),
	)
}

// warnIfUnsaved tells the user when the last mutation could not be stored.
// The change itself stands, so this is not an error.
func (s *session) warnIfUnsaved() {
	if err := s.repo.LastPersistError(); err != nil {
		fmt.Fprintf(s.errOut, "Warning: the change was applied but could not be saved: %v\n", err)
	}
}

// logReload records that the chore state was reloaded and, when the store
// keeps one, when it was last written.
func (s *session) logReload(ctx context.Context) {
	attrs := []any{logfields.Count(s.repo.Len())}
	if ts, ok := s.store.(state.Timestamped); ok {
		updated, err := ts.UpdatedAt(ctx, state.ChoresKey)
		if err != nil {
			s.logger.Warn("Failed to read chore state timestamp", logfields.Path(s.statePath), logfields.Error(err))
		} else if at, found := updated.Get(); found {
			attrs = append(attrs, slog.Time("last_saved", at))
		}
	}
	s.logger.Info("Chore state changed", attrs...)
}

// Close exports metrics when configured and releases the store.
func (s *session) Close() error {
	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, s.registry); err != nil {
			s.logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
	return s.store.Close()
}

// withSession opens a session, runs fn and closes the session.
func withSession(g *Global, root *CLI, fn func(ctx context.Context, s *session) error) error {
	ctx := context.Background()
	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			s.logger.Warn("Failed to close chore store", logfields.Error(cerr))
		}
	}()
	return fn(ctx, s)
}

func shortID(id chore.ID) string {
	return id.String()[:8]
}
