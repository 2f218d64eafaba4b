package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/housechores/cmd/chores/commands"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("chores"),
		kong.Description("Track recurring household chores and see which one is most overdue."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{}, cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
}
