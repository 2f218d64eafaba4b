package commands

import (
	"context"
	"fmt"
)

// AddCmd implements the 'add' command.
type AddCmd struct {
	Name  string `arg:"" help:"Chore name"`
	Every int    `short:"e" default:"7" help:"Interval in days"`
	Icon  string `short:"i" help:"Icon shown next to the name, usually an emoji"`
}

func (a *AddCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(ctx context.Context, s *session) error {
		c, err := s.repo.Add(ctx, a.Name, a.Every, optional(a.Icon))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %s %s (every %d days)\n", shortID(c.ID), c.Name, c.IntervalDays)
		s.warnIfUnsaved()
		return nil
	})
}
