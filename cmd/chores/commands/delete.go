package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/housechores/internal/chore"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// DeleteCmd implements the 'delete' command.
type DeleteCmd struct {
	ID string `arg:"" help:"Chore id or a unique prefix of it"`
}

func (d *DeleteCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(ctx context.Context, s *session) error {
		id, err := s.repo.Resolve(d.ID)
		if err != nil {
			// A well-formed id that matches nothing is still a valid delete.
			parsed, perr := chore.ParseID(d.ID)
			if perr != nil || !errors.HasCategory(err, errors.CategoryNotFound) {
				return err
			}
			id = parsed
		}

		existing, getErr := s.repo.Get(id)
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if getErr != nil {
			fmt.Fprintf(s.out, "No chore with id %s; nothing deleted\n", id)
		} else {
			fmt.Fprintf(s.out, "Deleted %s %s\n", shortID(id), existing.Name)
		}
		s.warnIfUnsaved()
		return nil
	})
}
