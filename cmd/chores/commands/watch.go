package commands

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/logfields"
	"git.home.luguber.info/inful/housechores/internal/report"
	"git.home.luguber.info/inful/housechores/internal/schedule"
	"git.home.luguber.info/inful/housechores/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	AllColumns bool `name:"all-columns" help:"Include full ids and urgency scores"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return w.run(ctx, g, root)
}

func (w *WatchCmd) run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if s.statePath == "" {
		return errors.InvalidInput("watch needs a file-backed storage backend").
			WithContext("backend", string(s.cfg.Storage.Backend)).
			Build()
	}

	// show runs from the file watcher and the midnight schedule; mu keeps
	// the two from interleaving output or reseeding mid-print.
	var mu sync.Mutex
	show := func() {
		rows := report.Rows(s.repo.List(), s.repo.Now())
		fmt.Fprintf(s.out, "\n%s\n", s.repo.Now().Format("2006-01-02 15:04"))
		if err := printTable(s.out, rows, w.AllColumns); err != nil {
			s.logger.Warn("Failed to print chores", logfields.Error(err))
		}
	}
	show()

	watcher, err := watch.New(s.statePath, func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		s.repo = s.load(ctx)
		s.logReload(ctx)
		show()
	}, watch.WithLogger(s.logger))
	if err != nil {
		return errors.InternalError("failed to start watcher").WithCause(err).Build()
	}
	if err := watcher.Start(ctx); err != nil {
		return errors.FileSystemError("failed to watch chore state").
			WithCause(err).
			WithContext("path", s.statePath).
			Build()
	}
	defer func() { _ = watcher.Stop() }()

	// Day counts roll over at local midnight even when nothing is saved.
	midnight, err := schedule.NewMidnight(s.cfg.Location(), func() {
		mu.Lock()
		defer mu.Unlock()
		show()
	}, schedule.WithClock(g.clock()), schedule.WithLogger(s.logger))
	if err != nil {
		return errors.InternalError("failed to schedule midnight redraw").WithCause(err).Build()
	}
	midnight.Start()

	<-ctx.Done()
	if err := midnight.Stop(); err != nil {
		s.logger.Warn("Failed to stop midnight schedule", logfields.Error(err))
	}
	return watcher.Stop()
}
