package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"git.home.luguber.info/inful/housechores/internal/report"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	JSON       bool `help:"Print JSON instead of a table"`
	AllColumns bool `name:"all-columns" help:"Include full ids and urgency scores"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	return withSession(g, root, func(_ context.Context, s *session) error {
		rows := report.Rows(s.repo.List(), s.repo.Now())
		if l.JSON {
			enc := json.NewEncoder(s.out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		return printTable(s.out, rows, l.AllColumns)
	})
}

// Tier colors follow the app's traffic-light scheme: gray, yellow, orange, red.
var tierColors = map[string]lipgloss.Color{
	"normal":   lipgloss.Color("8"),
	"warning":  lipgloss.Color("3"),
	"elevated": lipgloss.Color("208"),
	"critical": lipgloss.Color("1"),
}

// neverColor marks chores that were never done.
const neverColor = lipgloss.Color("208")

func printTable(w io.Writer, rows []report.Row, allColumns bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No chores yet. Add one with: chores add <name>")
		return err
	}

	// The renderer inspects w, so colors are dropped when it is not a terminal.
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	headers := []string{"#", "ID", "Chore", "Last done", "Interval", "Tier"}
	if allColumns {
		headers = append(headers, "Score")
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		id := row.ID[:8]
		if allColumns {
			id = row.ID
		}
		name := row.Name
		if row.Icon != "" {
			name = row.Icon + " " + name
		}
		line := []string{fmt.Sprint(row.Position), id, name, row.Ago(), row.Every(), row.TierLabel()}
		if allColumns {
			line = append(line, row.ScoreLabel())
		}
		data = append(data, line)
	}

	const lastDoneCol, tierCol = 3, 5
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(rows) || (col != lastDoneCol && col != tierCol) {
				return cell
			}
			tier, ok := rows[row].Tier.Get()
			if !ok {
				return cell.Foreground(neverColor)
			}
			return cell.Foreground(tierColors[tier])
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
