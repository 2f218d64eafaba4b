package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const pageStyle = `body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; }
.tier-normal { color: #777; }
.tier-warning { color: #b8860b; }
.tier-elevated { color: #e67e00; }
.tier-critical { color: #c0392b; font-weight: bold; }
.tier-never { color: #e67e00; font-style: italic; }`

// HTML writes a standalone HTML page. The table is produced by rendering the
// Markdown report with goldmark's table extension.
func HTML(w io.Writer, title string, rows []Row, now time.Time) error {
	var src bytes.Buffer
	if err := writeMarkdown(&src, title, rows, now, tierSpan); err != nil {
		return err
	}

	// Unsafe lets the tier spans through; every user-supplied string in the
	// source is escaped by markdownEscaper.
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), pageStyle, body.String())
	return err
}

func tierSpan(r Row) string {
	tier, ok := r.Tier.Get()
	if !ok {
		return `<span class="tier-never">n/a</span>`
	}
	return fmt.Sprintf(`<span class="tier-%s">%s</span>`, tier, tier)
}
