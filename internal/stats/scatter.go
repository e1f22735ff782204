package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/quiver/internal/model"
)

// ShotPlotLines draws the target outline with every shot as a dot. Terminal
// cells are about twice as tall as wide, so width should be roughly twice
// height for a round target. Misses outside the face are left out.
func ShotPlotLines(r model.Round, width, height int) []string {
	if width < 4 {
		width = 4
	}
	if height < 2 {
		height = 2
	}
	face := newBrailleCanvas(width, height)
	cx := float64(face.dotsWide()-1) / 2
	cy := float64(face.dotsHigh()-1) / 2
	face.circle(cx, cy, cx, cy)
	face.circle(cx, cy, cx/2, cy/2)

	hits := newBrailleCanvas(width, height)
	for _, e := range r.Ends {
		for _, s := range e.Shots {
			if math.Hypot(s.X, s.Y) > 1 {
				continue
			}
			hits.set(int(math.Round(cx+s.X*cx)), int(math.Round(cy-s.Y*cy)))
		}
	}

	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			mask, _ := overlay([]*brailleCanvas{hits, face}, x, y)
			b.WriteRune(brailleFromMask(mask))
		}
		lines[y] = b.String()
	}
	return lines
}

// RenderShotPlot prints the shot group of r under a short heading.
func RenderShotPlot(w io.Writer, r model.Round, width, height int) error {
	misses := 0
	for _, e := range r.Ends {
		for _, s := range e.Shots {
			if math.Hypot(s.X, s.Y) > 1 {
				misses++
			}
		}
	}
	if _, err := fmt.Fprintf(w, "Shots (%d off target)\n", misses); err != nil {
		return err
	}
	for _, line := range ShotPlotLines(r, width, height) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
