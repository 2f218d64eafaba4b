package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/housechores/internal/foundation/errors"
	"git.home.luguber.info/inful/housechores/internal/logfields"
	"git.home.luguber.info/inful/housechores/internal/report"
)

// ReportCmd implements the 'report' command.
type ReportCmd struct {
	HTML   bool   `help:"Render a standalone HTML page instead of Markdown"`
	Output string `short:"o" help:"Write the report to this file instead of stdout"`
}

func (r *ReportCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(_ context.Context, s *session) error {
		now := s.repo.Now()
		rows := report.Rows(s.repo.List(), now)
		render := report.Markdown
		if r.HTML {
			render = report.HTML
		}

		if r.Output == "" {
			return render(s.out, s.cfg.Report.Title, rows, now)
		}

		f, err := os.Create(r.Output)
		if err != nil {
			return errors.FileSystemError("failed to create report file").
				WithCause(err).
				WithContext("path", r.Output).
				Build()
		}
		if err := writeAndClose(f, func(w io.Writer) error {
			return render(w, s.cfg.Report.Title, rows, now)
		}); err != nil {
			return errors.FileSystemError("failed to write report").
				WithCause(err).
				WithContext("path", r.Output).
				Build()
		}

		s.logger.Info("Report written", logfields.Path(r.Output), logfields.Count(len(rows)))
		fmt.Fprintf(s.out, "Wrote %s\n", r.Output)
		return nil
	})
}

func writeAndClose(f *os.File, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
