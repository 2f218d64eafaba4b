package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/housechores/internal/chore"
	"git.home.luguber.info/inful/housechores/internal/foundation"
	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
)

// dateLayout is the accepted form of --done-on.
const dateLayout = "2006-01-02"

// UpdateCmd implements the 'update' command. Only the flags given are changed.
type UpdateCmd struct {
	ID        string  `arg:"" help:"Chore id or a unique prefix of it"`
	Name      *string `help:"New name"`
	Every     *int    `short:"e" help:"New interval in days"`
	Icon      *string `short:"i" help:"New icon"`
	ClearIcon bool    `name:"clear-icon" help:"Remove the icon"`
	DoneOn    string  `name:"done-on" placeholder:"YYYY-MM-DD" help:"Record the last completion on this date"`
}

func (u *UpdateCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(ctx context.Context, s *session) error {
		upd, err := u.toUpdate(s.repo.Now().Location())
		if err != nil {
			return err
		}
		id, err := s.repo.Resolve(u.ID)
		if err != nil {
			return err
		}
		if err := s.repo.Update(ctx, id, upd); err != nil {
			return err
		}

		c, err := s.repo.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Updated %s %s (every %d days)\n", shortID(c.ID), c.Name, c.IntervalDays)
		s.warnIfUnsaved()
		return nil
	})
}

func (u *UpdateCmd) toUpdate(loc *time.Location) (chore.Update, error) {
	if u.Icon != nil && u.ClearIcon {
		return chore.Update{}, errors.InvalidInput("--icon and --clear-icon cannot be combined").Build()
	}

	upd := chore.Update{
		Name:         foundation.FromPointer(u.Name),
		IntervalDays: foundation.FromPointer(u.Every),
		Icon:         foundation.FromPointer(u.Icon),
		ClearIcon:    u.ClearIcon,
	}
	if u.DoneOn != "" {
		day, err := time.ParseInLocation(dateLayout, u.DoneOn, loc)
		if err != nil {
			return chore.Update{}, errors.InvalidInput("--done-on must be a date like 2026-10-18").
				WithCause(err).
				WithContext("done_on", u.DoneOn).
				Build()
		}
		upd.LastCompleted = foundation.Some(day)
	}

	if upd.Name.IsNone() && upd.IntervalDays.IsNone() && upd.Icon.IsNone() && !upd.ClearIcon && upd.LastCompleted.IsNone() {
		return chore.Update{}, errors.InvalidInput("nothing to update; pass at least one flag").Build()
	}
	return upd, nil
}
