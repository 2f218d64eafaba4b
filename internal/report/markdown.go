package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// markdownEscaper backslash-escapes the punctuation that would otherwise be
// read as table or inline syntax. CommonMark renders each escape literally.
// Line breaks would end the table row, so they become spaces.
var markdownEscaper = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	`\`, `\\`,
	`|`, `\|`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
)

// Markdown writes a GitHub-flavored Markdown report.
func Markdown(w io.Writer, title string, rows []Row, now time.Time) error {
	return writeMarkdown(w, title, rows, now, func(r Row) string { return r.TierLabel() })
}

func writeMarkdown(w io.Writer, title string, rows []Row, now time.Time, tierCell func(Row) string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", markdownEscaper.Replace(title))
	fmt.Fprintf(&b, "As of %s.\n\n", now.Format("Monday, 2 January 2006"))

	if len(rows) == 0 {
		b.WriteString("No chores yet.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| # | Chore | Last done | Interval | Overdue | Tier |\n")
	b.WriteString("|--:|---|---|---|--:|---|\n")
	for _, r := range rows {
		name := markdownEscaper.Replace(r.Name)
		if r.Icon != "" {
			name = markdownEscaper.Replace(r.Icon) + " " + name
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			r.Position, name, r.Ago(), r.Every(), r.ScoreLabel(), tierCell(r))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
