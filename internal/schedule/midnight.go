// Package schedule runs work at calendar boundaries. Day counts change at
// local midnight even when no chore does, so long-running views use it to
// redraw.
package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// Midnight calls a function at the start of every day in one location.
type Midnight struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	loc       *time.Location
}

type options struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option configures a Midnight.
type Option func(*options)

// WithClock sets the clock the schedule follows (the wall clock otherwise).
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLogger sets the logger (slog.Default otherwise).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewMidnight schedules onNewDay for 00:00:00 in loc. Runs never overlap;
// a run still busy at the next midnight skips that one.
func NewMidnight(loc *time.Location, onNewDay func(), opts ...Option) (*Midnight, error) {
	o := options{clock: clockwork.NewRealClock(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if loc == nil {
		loc = time.Local
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithClock(o.clock),
		gocron.WithLogger(o.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	m := &Midnight{scheduler: s, logger: o.logger, loc: loc}
	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			m.logger.Debug("New day", slog.String("location", loc.String()))
			onNewDay()
		}),
		gocron.WithName("midnight"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create midnight job: %w", err)
	}
	return m, nil
}

// Start begins the schedule.
func (m *Midnight) Start() {
	m.logger.Debug("Starting midnight schedule", slog.String("location", m.loc.String()))
	m.scheduler.Start()
}

// Stop shuts the scheduler down and waits for a running call to return.
func (m *Midnight) Stop() error {
	return m.scheduler.Shutdown()
}
