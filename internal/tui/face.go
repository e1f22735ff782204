package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/target"
)

// faceExtent is how far past the face edge the grid reaches, so misses can
// be aimed and clicked.
const faceExtent = 1.15

const (
	aimMarker   = '+'
	shotMarker  = '●'
	otherMarker = '·'
)

// faceGrid maps terminal cells to normalized target coordinates. Terminal
// cells are about twice as tall as wide, so there are 2*rows+1 columns.
type faceGrid struct {
	rows int
	cols int
}

func newFaceGrid(rows int) faceGrid {
	if rows < 3 {
		rows = 3
	}
	if rows%2 == 0 {
		rows--
	}
	return faceGrid{rows: rows, cols: 2*rows + 1}
}

// point returns the coordinate at the centre of a cell.
func (g faceGrid) point(col, row int) (float64, float64) {
	x := ((float64(col)+0.5)/float64(g.cols)*2 - 1) * faceExtent
	y := (1 - (float64(row)+0.5)/float64(g.rows)*2) * faceExtent
	return x, y
}

// cell returns the cell containing a coordinate and whether it is on the grid.
func (g faceGrid) cell(x, y float64) (int, int, bool) {
	col := int(math.Floor((x/faceExtent + 1) / 2 * float64(g.cols)))
	row := int(math.Floor((1 - y/faceExtent) / 2 * float64(g.rows)))
	ok := col >= 0 && col < g.cols && row >= 0 && row < g.rows
	return col, row, ok
}

type faceCell struct {
	s     string
	width int
}

// buildFaceCells renders every cell of the grid: the ring colors, shots of the
// selected end, shots of other ends and the aim cursor.
func buildFaceCells(g faceGrid, face target.Target, ends []model.End, current int, aimX, aimY float64) [][]faceCell {
	marks := map[[2]int]rune{}
	for i, e := range ends {
		if i == current {
			continue
		}
		for _, s := range e.Shots {
			if c, r, ok := g.cell(s.X, s.Y); ok {
				marks[[2]int{c, r}] = otherMarker
			}
		}
	}
	if current >= 0 && current < len(ends) {
		for _, s := range ends[current].Shots {
			if c, r, ok := g.cell(s.X, s.Y); ok {
				marks[[2]int{c, r}] = shotMarker
			}
		}
	}
	if c, r, ok := g.cell(aimX, aimY); ok {
		marks[[2]int{c, r}] = aimMarker
	}

	out := make([][]faceCell, g.rows)
	for row := 0; row < g.rows; row++ {
		out[row] = make([]faceCell, g.cols)
		for col := 0; col < g.cols; col++ {
			x, y := g.point(col, row)
			ch, marked := marks[[2]int{col, row}]
			if !marked {
				ch = ' '
			}
			style := cellStyle(face, x, y)
			if ch == aimMarker {
				style = style.Bold(true)
			}
			out[row][col] = faceCell{
				s:     style.Render(string(ch)),
				width: runewidth.RuneWidth(ch),
			}
		}
	}
	return out
}

func cellStyle(face target.Target, x, y float64) lipgloss.Style {
	idx := face.RingIndex(x, y)
	bg := target.RingColor(face.Rings, idx)
	if bg == "" {
		return offFaceStyle
	}
	fg := "#FFFFFF"
	if bg == target.RingColor(face.Rings, 0) || idx >= face.Rings-face.Rings/5 {
		fg = "#000000"
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
}

func renderFaceCells(cells [][]faceCell) []string {
	lines := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteString(c.s)
		}
		lines[i] = b.String()
	}
	return lines
}

func faceWidth(cells [][]faceCell) int {
	if len(cells) == 0 {
		return 0
	}
	total := 0
	for _, c := range cells[0] {
		total += c.width
	}
	return total
}
