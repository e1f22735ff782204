package stats

import "math"

// brailleCanvas is a grid of braille cells, each holding 2x4 dots.
type brailleCanvas struct {
	cells [][]uint8
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &brailleCanvas{cells: cells}
}

// dotsWide and dotsHigh return the resolution in dots.
func (c *brailleCanvas) dotsWide() int {
	if len(c.cells) == 0 {
		return 0
	}
	return len(c.cells[0]) * 2
}

func (c *brailleCanvas) dotsHigh() int {
	return len(c.cells) * 4
}

func (c *brailleCanvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

func (c *brailleCanvas) mask(x, y int) uint8 {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return 0
	}
	return c.cells[y][x]
}

// line draws a Bresenham line; plot may filter individual dots.
func (c *brailleCanvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		if keep == nil || keep(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// circle outlines a circle centred in dot space.
func (c *brailleCanvas) circle(cx, cy, rx, ry float64) {
	steps := int(math.Max(rx, ry)*8) + 16
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.set(int(math.Round(cx+rx*math.Cos(a))), int(math.Round(cy+ry*math.Sin(a))))
	}
}

// overlay returns the union of the masks of all canvases at a cell and the
// index of the first canvas contributing to it, or -1.
func overlay(canvases []*brailleCanvas, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, c := range canvases {
		m := c.mask(x, y)
		if m == 0 {
			continue
		}
		if first == -1 {
			first = i
		}
		mask |= m
	}
	return mask, first
}

func brailleDotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
