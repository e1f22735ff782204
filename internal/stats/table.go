package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one column of a plain text table.
type column struct {
	title string
	right bool
	// max caps the column width; longer cells are cut with an ellipsis.
	max int
}

// tableLines lays out rows under the column titles, separated by single
// spaces. Trailing blanks are trimmed so the last column never pads.
func tableLines(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, 0, len(rows)+1)
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	cells = append(cells, titles)
	for _, row := range rows {
		fitted := make([]string, len(cols))
		for i, c := range cols {
			if i >= len(row) {
				continue
			}
			fitted[i] = row[i]
			if c.max > 0 && runewidth.StringWidth(row[i]) > c.max {
				fitted[i] = runewidth.Truncate(row[i], c.max, "…")
			}
		}
		cells = append(cells, fitted)
	}

	widths := make([]int, len(cols))
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, len(cells))
	for n, row := range cells {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			pad := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
			if cols[i].right {
				b.WriteString(pad + cell)
			} else {
				b.WriteString(cell + pad)
			}
		}
		lines[n] = strings.TrimRight(b.String(), " ")
	}
	return lines
}
