// Package stats contains scoring statistics, aggregation and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/quiver/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Chronological returns a copy of newest-first rounds ordered oldest first.
func Chronological(rounds []model.Round) []model.Round {
	out := make([]model.Round, len(rounds))
	for i, r := range rounds {
		out[len(rounds)-1-i] = r
	}
	return out
}

// TotalSeries returns round totals oldest first.
func TotalSeries(rounds []model.Round) []float64 {
	chrono := Chronological(rounds)
	out := make([]float64, len(chrono))
	for i, r := range chrono {
		out[i] = float64(r.TotalScore)
	}
	return out
}

// PrecisionSeries returns the average non-zero end precision per round, oldest first.
func PrecisionSeries(rounds []model.Round) []float64 {
	chrono := Chronological(rounds)
	out := make([]float64, len(chrono))
	for i, r := range chrono {
		out[i] = Summarize(r, 0).AvgPrecision
	}
	return out
}

// RenderSummary prints aggregate statistics for rounds.
func RenderSummary(w io.Writer, rounds []model.Round) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	agg := Aggregate(rounds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", agg.RoundCount),
		fmt.Sprintf("Arrows: %d", agg.ShotCount),
		fmt.Sprintf("Best round: %d", agg.BestRound),
		fmt.Sprintf("Avg score per arrow: %.2f", agg.AvgScore),
		fmt.Sprintf("Avg distance from center: %.2f", agg.AvgDistance),
		fmt.Sprintf("Avg precision: %.2f", agg.AvgPrecision),
		fmt.Sprintf("Misses: %d", agg.Missed),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints score and precision curves for rounds.
func RenderCurves(w io.Writer, rounds []model.Round, window int) error {
	return RenderCurvesWithSize(w, rounds, window, 0, 10, false)
}

// RenderCurvesWithSize prints score and precision curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, rounds []model.Round, window, totalWidth, height int, useColor bool) error {
	if len(rounds) == 0 {
		return nil
	}
	totals := MovingAverage(TotalSeries(rounds), window)
	precisions := MovingAverage(PrecisionSeries(rounds), window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Progress", []Series{
		{Name: "Total score", Values: totals},
		{Name: "Precision", Values: precisions},
	}, width, height, useColor)
}

var roundTableColumns = []column{
	{title: "#", right: true},
	{title: "Date"},
	{title: "Total", right: true},
	{title: "Ends", right: true},
	{title: "Avg/End", right: true},
	{title: "Best End", right: true},
	{title: "Precision", right: true},
	{title: "Notes", max: 40},
}

var endTableColumns = []column{
	{title: "End", right: true},
	{title: "Arrows"},
	{title: "Score", right: true},
	{title: "Precision", right: true},
}

// RenderRoundTable prints one line per round summary.
func RenderRoundTable(w io.Writer, summaries []model.RoundSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Rounds"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, SummaryCells(s))
	}
	for _, line := range tableLines(roundTableColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SummaryCells formats a summary as table cells.
func SummaryCells(s model.RoundSummary) []string {
	return []string{
		fmt.Sprintf("%d", s.Number),
		s.Date.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%d", s.TotalScore),
		fmt.Sprintf("%d", s.EndCount),
		fmt.Sprintf("%.1f", s.AvgPerEnd),
		fmt.Sprintf("%d", s.BestEnd),
		fmt.Sprintf("%.2f", s.AvgPrecision),
		s.Notes,
	}
}

// RenderEndTable prints the ends of a single round.
func RenderEndTable(w io.Writer, r model.Round) error {
	for _, line := range EndTableLines(r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// EndTableLines formats the ends of r as aligned table lines.
func EndTableLines(r model.Round) []string {
	rows := make([][]string, 0, len(r.Ends))
	for i, e := range r.Ends {
		arrows := make([]string, len(e.Shots))
		for j, s := range e.Shots {
			arrows[j] = ArrowLabel(s.Score)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			strings.Join(arrows, " "),
			fmt.Sprintf("%d", e.EndScore),
			fmt.Sprintf("%.2f", e.Precision),
		})
	}
	return tableLines(endTableColumns, rows)
}

// ArrowLabel returns the conventional label for an arrow score.
func ArrowLabel(score int) string {
	if score == 0 {
		return "M"
	}
	return fmt.Sprintf("%d", score)
}
