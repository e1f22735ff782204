package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/stats"
	"github.com/verte-zerg/quiver/internal/store"
)

const shotPlotRows = 12

var roundColumns = []table.Column{
	{Title: "#", Width: 4},
	{Title: "Date", Width: 16},
	{Title: "Total", Width: 5},
	{Title: "Ends", Width: 4},
	{Title: "Avg/End", Width: 7},
	{Title: "Best", Width: 4},
	{Title: "Precision", Width: 9},
	{Title: "Notes", Width: 24},
}

func newRoundsTable() table.Model {
	t := table.New(
		table.WithColumns(roundColumns),
		table.WithHeight(1),
	)
	t.SetStyles(roundTableStyles())
	return t
}

func roundTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func summaryRows(summaries []model.RoundSummary) []table.Row {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row(stats.SummaryCells(s)))
	}
	return rows
}

func (m *Model) selectedRoundID() string {
	idx := m.rounds.Cursor()
	if idx < 0 || idx >= len(m.report.Summaries) {
		return ""
	}
	return m.report.Summaries[idx].RoundID
}

func (m *Model) openDetail() {
	id := m.selectedRoundID()
	if id == "" {
		return
	}
	m.detailID = id
	m.detail.GotoTop()
	m.renderContents()
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.detailID = ""
		return m, tea.ClearScreen
	case "n":
		r, ok := m.rec.Round(m.detailID)
		if !ok {
			return m, nil
		}
		m.mode = modeNotes
		m.notesInput.SetValue(r.Notes)
		m.notesInput.CursorEnd()
		return m, m.notesInput.Focus()
	case "d":
		m.mode = modeConfirmDelete
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.notesInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.notesInput.Blur()
		notes := strings.TrimSpace(m.notesInput.Value())
		if err := m.rec.UpdateNotes(context.Background(), m.detailID, notes); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.notesInput, cmd = m.notesInput.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		err := m.rec.Delete(context.Background(), m.detailID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			m.errMsg = "round was already deleted"
			if loadErr := m.rec.Load(context.Background()); loadErr != nil {
				m.errMsg = loadErr.Error()
			}
		case err != nil:
			m.errMsg = err.Error()
			return m, nil
		default:
			m.errMsg = ""
		}
		m.detailID = ""
		m.refreshReport()
		return m, tea.ClearScreen
	case "n", "N", "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m *Model) renderModal() string {
	var body []string
	if m.mode == modeNotes {
		body = []string{
			cardValueStyle.Render("Edit Notes"),
			m.notesInput.View(),
			headerStyle.Render("Enter to save / Esc to cancel"),
		}
	} else {
		title := "Delete this round?"
		if r, ok := m.rec.Round(m.detailID); ok {
			title = fmt.Sprintf("Delete round from %s (%d points)?", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TotalScore)
		}
		body = []string{
			cardValueStyle.Render(title),
			headerStyle.Render("This cannot be undone."),
			headerStyle.Render("y to delete / n to keep"),
		}
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderRoundDetail(r model.Round, width int) string {
	var b strings.Builder
	sum := stats.Summarize(r, 0)
	b.WriteString(cardValueStyle.Render(fmt.Sprintf("Round of %s", r.CreatedAt.Local().Format("2006-01-02 15:04"))))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Total %d  Avg/End %.1f  Best End %d  Precision %.2f\n", r.TotalScore, sum.AvgPerEnd, sum.BestEnd, sum.AvgPrecision)
	if r.Notes != "" {
		b.WriteString(headerStyle.Render("Notes: " + r.Notes))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	ends := strings.Join(stats.EndTableLines(r), "\n")
	var plot bytes.Buffer
	if err := stats.RenderShotPlot(&plot, r, shotPlotRows*2, shotPlotRows/2); err != nil {
		plot.Reset()
	}
	plotText := strings.TrimRight(plot.String(), "\n")
	if width >= lipgloss.Width(ends)+lipgloss.Width(plotText)+4 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, ends, "    ", plotText))
	} else {
		b.WriteString(ends + "\n\n" + plotText)
	}
	return b.String()
}
