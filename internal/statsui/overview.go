package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/stats"
)

const (
	plotHeight = 10
	topRounds  = 3
	weakEnds   = 3
)

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Rounds) == 0 {
		return "No rounds found."
	}
	cards := renderSummaryCards(report.Aggregate, report.Window, window, width)
	curves := renderCurves(report.Rounds, window, width)
	return strings.TrimRight(cards+"\n\n"+curves, "\n")
}

func renderSummaryCards(all, recent model.AggregateStats, window, width int) string {
	cards := []string{
		metricCard("Rounds", fmt.Sprintf("%d", all.RoundCount)),
		metricCard("Arrows", fmt.Sprintf("%d", all.ShotCount)),
		metricCard("Best Round", fmt.Sprintf("%d", all.BestRound)),
		metricCard("Avg/Arrow", fmt.Sprintf("%.2f", all.AvgScore)),
		metricCard(fmt.Sprintf("Last %d Avg", window), fmt.Sprintf("%.2f", recent.AvgScore)),
		metricCard("Avg Distance", fmt.Sprintf("%.2f", all.AvgDistance)),
		metricCard("Precision", fmt.Sprintf("%.2f", all.AvgPrecision)),
		metricCard("Misses", fmt.Sprintf("%d", all.Missed)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(rounds []model.Round, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, rounds, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderEndsTab shows how each end position scores on average and the best
// rounds in the current selection.
func renderEndsTab(rounds []model.Round) string {
	if len(rounds) == 0 {
		return "No rounds found."
	}
	var b strings.Builder
	b.WriteString(cardValueStyle.Render("Average score per end"))
	b.WriteByte('\n')
	avgs := stats.EndAverages(rounds)
	for i, avg := range avgs {
		fmt.Fprintf(&b, "End %2d  %5.1f\n", i+1, avg)
	}
	b.WriteString(headerStyle.Render("Spark: " + stats.Sparkline(avgs)))
	b.WriteString("\n\n")

	weak := stats.WeakestEnds(rounds, weakEnds)
	labels := make([]string, len(weak))
	for i, idx := range weak {
		labels[i] = fmt.Sprintf("%d", idx+1)
	}
	fmt.Fprintf(&b, "Weakest ends: %s\n\n", strings.Join(labels, ", "))

	b.WriteString(cardValueStyle.Render("Top rounds"))
	b.WriteByte('\n')
	for i, r := range stats.TopRounds(rounds, topRounds) {
		fmt.Fprintf(&b, "%d. %s  %d\n", i+1, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TotalScore)
	}
	return strings.TrimRight(b.String(), "\n")
}
