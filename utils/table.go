package utils

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

// Render output into an ASCII table
func RenderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// RenderBox frames lines under a title. Widths are measured in terminal
// cells so wide runes line up.
func RenderBox(title string, lines []string) string {
	inner := runewidth.StringWidth(title) + 3
	for _, line := range lines {
		inner = max(inner, runewidth.StringWidth(line)+2)
	}

	var b strings.Builder
	b.WriteString("┌─ " + title + " " + strings.Repeat("─", inner-runewidth.StringWidth(title)-3) + "┐\n")
	for _, line := range lines {
		b.WriteString("│ " + runewidth.FillRight(line, inner-2) + " │\n")
	}
	b.WriteString("└" + strings.Repeat("─", inner) + "┘\n")

	return b.String()
}
