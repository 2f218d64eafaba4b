// Package report renders the urgency ranking for people: as rows for the
// CLI, as a Markdown table and as a standalone HTML page.
package report
