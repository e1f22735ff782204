package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type valueRange struct {
	min float64
	max float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Each series is scaled to its own range."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var seriesColors = []string{
	"\x1b[33m", // yellow
	"\x1b[36m", // cyan
	"\x1b[31m", // red
	"\x1b[34m", // blue
}

// PlotSeries renders a multi-line text plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a multi-line text plot, forcing ANSI colors when
// forceColor is set.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	ranges := make([]valueRange, len(series))
	canvases := make([]*brailleCanvas, len(series))
	for i, s := range series {
		values := resampleSeries(s.Values, width)
		ranges[i] = rangeOf(values)
		canvases[i] = traceSeries(values, ranges[i], width, height, dashPatterns[i%len(dashPatterns)])
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for i, s := range series {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i].min, ranges[i].max); err != nil {
			return err
		}
	}
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for y := 0; y < height; y++ {
		label := ""
		switch {
		case y == 0:
			label = axisLabelTop
		case y == height-1:
			label = axisLabelBottom
		}
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, label, axisSeparator)
		for x := 0; x < width; x++ {
			mask, idx := overlay(canvases, x, y)
			writeCell(&row, brailleFromMask(mask), idx, useColor)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(series, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func traceSeries(values []float64, r valueRange, width, height int, dash dashPattern) *brailleCanvas {
	c := newBrailleCanvas(width, height)
	keep := func(x int) bool {
		return dash.period <= 1 || x%dash.period < dash.on
	}
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, valueToRow(v, r, c.dotsHigh())
		if prevX < 0 {
			if keep(px) {
				c.set(px, py)
			}
		} else {
			c.line(prevX, prevY, px, py, keep)
		}
		prevX, prevY = px, py
	}
	return c
}

func writeCell(b *strings.Builder, ch rune, colorIdx int, useColor bool) {
	if !useColor || colorIdx < 0 {
		b.WriteRune(ch)
		return
	}
	b.WriteString(seriesColors[colorIdx%len(seriesColors)])
	b.WriteRune(ch)
	b.WriteString(colorReset)
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	if plotWidth := totalWidth - axisWidth; plotWidth > minPlotWidth {
		return plotWidth
	}
	return minPlotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// resampleSeries stretches or squeezes values to exactly width points. Long
// series are bucket-averaged; short ones are linearly interpolated.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			out[i] = Average(values[start:end])
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(pos)
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// rangeOf returns the min and max of values, widened when they coincide so
// flat series render in the middle of the plot.
func rangeOf(values []float64) valueRange {
	if len(values) == 0 {
		return valueRange{min: -1, max: 1}
	}
	r := valueRange{min: values[0], max: values[0]}
	for _, v := range values[1:] {
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
	if r.max-r.min < 1e-9 {
		r.min--
		r.max++
	}
	return r
}

func valueToRow(v float64, r valueRange, dots int) int {
	if dots <= 1 {
		return 0
	}
	pos := (v - r.min) / (r.max - r.min)
	row := int(math.Round((1 - pos) * float64(dots-1)))
	return max(0, min(row, dots-1))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}
