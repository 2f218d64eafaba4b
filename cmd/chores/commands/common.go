package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/housechores/internal/config"
	"git.home.luguber.info/inful/housechores/internal/foundation"
)

// Global carries process-level collaborators into every command. Zero values
// mean stdout, stderr, a logger built from the configuration and the wall clock.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
	Clock  clockwork.Clock
}

func (g *Global) clock() clockwork.Clock {
	if g == nil || g.Clock == nil {
		return clockwork.NewRealClock()
	}
	return g.Clock
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"chores.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	Ephemeral bool             `help:"Keep chores in memory only; nothing is read or written"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	List   ListCmd   `cmd:"" default:"1" help:"List chores, most urgent first"`
	Add    AddCmd    `cmd:"" help:"Add a chore"`
	Update UpdateCmd `cmd:"" help:"Change a chore"`
	Delete DeleteCmd `cmd:"" help:"Delete a chore"`
	Done   DoneCmd   `cmd:"" help:"Mark a chore as done now"`
	Report ReportCmd `cmd:"" help:"Render the urgency report as Markdown or HTML"`
	Watch  WatchCmd  `cmd:"" help:"Reprint the ranking whenever the stored chores change"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs a provisional logger that
// the session replaces once the configuration is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(os.Stderr, config.LogLevelInfo, config.LogFormatText, c.Verbose)
	return nil
}

func setupLogging(w io.Writer, level config.LogLevel, format config.LogFormat, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// optional turns an unset flag into None.
func optional(s string) foundation.Option[string] {
	if s == "" {
		return foundation.None[string]()
	}
	return foundation.Some(s)
}
