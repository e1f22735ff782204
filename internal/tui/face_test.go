package tui

import (
	"testing"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/target"
)

func TestFaceGridIsOddAndCentred(t *testing.T) {
	g := newFaceGrid(12)
	if g.rows != 11 || g.cols != 23 {
		t.Fatalf("expected 11x23 grid, got %dx%d", g.rows, g.cols)
	}
	x, y := g.point(11, 5)
	if x != 0 || y != 0 {
		t.Fatalf("expected centre cell at origin, got (%f, %f)", x, y)
	}
	col, row, ok := g.cell(0, 0)
	if !ok || col != 11 || row != 5 {
		t.Fatalf("expected origin in centre cell, got (%d, %d, %v)", col, row, ok)
	}
}

func TestFaceGridRoundTrip(t *testing.T) {
	g := newFaceGrid(9)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			x, y := g.point(col, row)
			c, r, ok := g.cell(x, y)
			if !ok || c != col || r != row {
				t.Fatalf("cell (%d, %d) mapped back to (%d, %d, %v)", col, row, c, r, ok)
			}
		}
	}
	if _, _, ok := g.cell(2, 0); ok {
		t.Fatalf("expected point beyond the grid to be off grid")
	}
}

func TestFaceGridReachesPastEdge(t *testing.T) {
	g := newFaceGrid(11)
	x, _ := g.point(0, 5)
	if x >= -1 {
		t.Fatalf("expected leftmost cell to lie off the face, got x=%f", x)
	}
}

func TestBuildFaceCellsMarks(t *testing.T) {
	g := newFaceGrid(11)
	face := target.Default()
	ends := []model.End{
		{Shots: []model.Shot{{X: 0.5, Y: 0}}},
		{Shots: []model.Shot{{X: -0.5, Y: 0}}},
	}
	cells := buildFaceCells(g, face, ends, 1, 0, 0)
	if len(cells) != g.rows || len(cells[0]) != g.cols {
		t.Fatalf("unexpected grid size %dx%d", len(cells), len(cells[0]))
	}
	if w := faceWidth(cells); w != g.cols {
		t.Fatalf("expected width %d, got %d", g.cols, w)
	}

	cur, curRow, _ := g.cell(-0.5, 0)
	other, otherRow, _ := g.cell(0.5, 0)
	aim, aimRow, _ := g.cell(0, 0)
	checks := []struct {
		col, row int
		ch       rune
	}{
		{cur, curRow, shotMarker},
		{other, otherRow, otherMarker},
		{aim, aimRow, aimMarker},
	}
	for _, c := range checks {
		x, y := g.point(c.col, c.row)
		style := cellStyle(face, x, y)
		if c.ch == aimMarker {
			style = style.Bold(true)
		}
		if got := cells[c.row][c.col].s; got != style.Render(string(c.ch)) {
			t.Fatalf("expected %q at (%d, %d), got %q", c.ch, c.col, c.row, got)
		}
	}
}
