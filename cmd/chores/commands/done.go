package commands

import (
	"context"
	"fmt"
)

// DoneCmd implements the 'done' command.
type DoneCmd struct {
	ID string `arg:"" help:"Chore id or a unique prefix of it"`
}

func (d *DoneCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(ctx context.Context, s *session) error {
		id, err := s.repo.Resolve(d.ID)
		if err != nil {
			return err
		}
		c, err := s.repo.Complete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Done: %s. Next due in %d days\n", c.Name, c.IntervalDays)
		s.warnIfUnsaved()
		return nil
	})
}
