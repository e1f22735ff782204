// Package tui provides the Bubble Tea round recording interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quiver/internal/practice"
	statsPkg "github.com/verte-zerg/quiver/internal/stats"
)

const (
	aimStep     = 0.05
	fineAimStep = 0.01
	// faceLeft and faceTop place the face on screen; mouse clicks are mapped
	// back through them.
	faceLeft = 2
	faceTop  = 2
	// sideWidth is reserved to the right of the face for the ends panel.
	sideWidth       = 30
	sparklineRounds = 20
)

// Model implements the Bubble Tea recording UI.
type Model struct {
	rec *practice.Recorder

	width  int
	height int
	grid   faceGrid

	aimX float64
	aimY float64

	notes   textinput.Model
	editing bool
	status  string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	offFaceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	notesBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// NewModel constructs a recording TUI model around rec.
func NewModel(rec *practice.Recorder) *Model {
	ti := textinput.New()
	ti.Placeholder = "notes (optional)"
	ti.CharLimit = 200
	ti.Width = 40
	return &Model{
		rec:   rec,
		grid:  newFaceGrid(11),
		notes: ti,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid = newFaceGrid(faceRowsFor(msg.Width, msg.Height))
		return m, nil
	case tea.MouseMsg:
		if m.editing {
			return m, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.X, msg.Y)
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateNotes(msg)
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func faceRowsFor(width, height int) int {
	rows := height - 5
	if byWidth := (width - sideWidth - faceLeft - 1) / 2; byWidth < rows {
		rows = byWidth
	}
	return rows
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.rec.Session()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "left", "h":
		m.moveAim(-aimStep, 0)
	case "right", "l":
		m.moveAim(aimStep, 0)
	case "up", "k":
		m.moveAim(0, aimStep)
	case "down", "j":
		m.moveAim(0, -aimStep)
	case "H":
		m.moveAim(-fineAimStep, 0)
	case "L":
		m.moveAim(fineAimStep, 0)
	case "K":
		m.moveAim(0, fineAimStep)
	case "J":
		m.moveAim(0, -fineAimStep)
	case "c":
		m.aimX, m.aimY = 0, 0
	case " ", "enter":
		m.place(m.aimX, m.aimY)
	case "backspace", "u":
		if !s.Undo() {
			m.status = "nothing to undo in this end"
		} else {
			m.status = ""
		}
	case "tab", "]":
		s.Select((s.Current() + 1) % len(s.Ends()))
	case "shift+tab", "[":
		n := len(s.Ends())
		s.Select((s.Current() - 1 + n) % n)
	case "+", "=":
		s.SetEndsPerRound(len(s.Ends()) + 1)
	case "-":
		s.SetEndsPerRound(len(s.Ends()) - 1)
	case "ctrl+r":
		s.Reset()
		m.status = "round discarded"
	case "s":
		if !s.Complete() {
			m.status = "round is not complete yet"
			return m, nil
		}
		m.editing = true
		m.status = ""
		m.notes.SetValue("")
		return m, m.notes.Focus()
	}
	return m, nil
}

func (m *Model) updateNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing = false
		m.notes.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.notes.Blur()
		m.save(strings.TrimSpace(m.notes.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m *Model) moveAim(dx, dy float64) {
	m.aimX = clampAim(m.aimX + dx)
	m.aimY = clampAim(m.aimY + dy)
}

func clampAim(v float64) float64 {
	return math.Max(-faceExtent, math.Min(faceExtent, math.Round(v*100)/100))
}

func (m *Model) handleClick(x, y int) {
	col, row := x-faceLeft, y-faceTop
	if col < 0 || col >= m.grid.cols || row < 0 || row >= m.grid.rows {
		return
	}
	px, py := m.grid.point(col, row)
	m.aimX, m.aimY = px, py
	m.place(px, py)
}

func (m *Model) place(x, y float64) {
	s := m.rec.Session()
	if !s.Place(x, y) {
		if s.EndComplete(s.Current()) {
			m.status = "end is full; undo or pick another end"
		} else {
			m.status = "off the face; misses are not recorded"
		}
		return
	}
	m.status = ""
	if s.Complete() {
		m.status = "round complete; press s to save"
		return
	}
	if s.Config().AutoAdvance && s.EndComplete(s.Current()) {
		if next := s.NextIncomplete(); next >= 0 {
			s.Select(next)
		}
	}
}

func (m *Model) save(notes string) {
	round, ok, err := m.rec.Save(context.Background(), notes)
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v; round kept, press s to retry", err)
		return
	}
	if !ok {
		m.status = "round is not complete yet"
		return
	}
	m.status = fmt.Sprintf("saved round with %d points", round.TotalScore)
	m.aimX, m.aimY = 0, 0
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.rec.Session()
	ends := s.Ends()
	cells := buildFaceCells(m.grid, s.Target(), ends, s.Current(), m.aimX, m.aimY)
	faceLines := renderFaceCells(cells)
	side := m.renderEnds()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", faceLeft))
	b.WriteString(titleStyle.Render("quiver"))
	fmt.Fprintf(&b, "  end %d/%d  score %d  aim (%.2f, %.2f)\n\n",
		s.Current()+1, len(ends), s.RunningScore(), m.aimX, m.aimY)

	pad := strings.Repeat(" ", faceLeft)
	gap := strings.Repeat(" ", 3)
	blank := strings.Repeat(" ", faceWidth(cells))
	lines := max(len(faceLines), len(side))
	for i := 0; i < lines; i++ {
		b.WriteString(pad)
		if i < len(faceLines) {
			b.WriteString(faceLines[i])
		} else {
			b.WriteString(blank)
		}
		if i < len(side) {
			b.WriteString(gap)
			b.WriteString(side[i])
		}
		b.WriteByte('\n')
	}

	if m.editing {
		b.WriteString(notesBoxStyle.Render("Notes for this round\n" + m.notes.View()))
		b.WriteByte('\n')
	}
	if m.status != "" {
		b.WriteString(pad + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(pad + m.renderFooter())
	return b.String()
}

func (m *Model) renderEnds() []string {
	s := m.rec.Session()
	lines := []string{"Ends"}
	for i, e := range s.Ends() {
		arrows := make([]string, 0, s.Config().ShotsPerEnd)
		for _, sh := range e.Shots {
			arrows = append(arrows, statsPkg.ArrowLabel(sh.Score))
		}
		for len(arrows) < s.Config().ShotsPerEnd {
			arrows = append(arrows, "-")
		}
		line := fmt.Sprintf("%2d  %-12s %3d", i+1, strings.Join(arrows, " "), e.EndScore)
		switch {
		case i == s.Current():
			line = currentStyle.Render("> " + line)
		case s.EndComplete(i):
			line = doneStyle.Render("  " + line)
		default:
			line = pendingStyle.Render("  " + line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", footerStyle.Render("space place  u undo  tab end"), footerStyle.Render("+/- ends  s save  q quit"))
	return lines
}

func (m *Model) renderFooter() string {
	s := m.rec.Session()
	segments := []string{fmt.Sprintf("Arrows %d/%d", s.ShotCount(), len(s.Ends())*s.Config().ShotsPerEnd)}
	rounds := m.rec.Rounds()
	if len(rounds) > 0 {
		last := statsPkg.Aggregate(rounds[:1])
		all := statsPkg.Aggregate(rounds)
		totals := statsPkg.TotalSeries(rounds)
		if len(totals) > sparklineRounds {
			totals = totals[len(totals)-sparklineRounds:]
		}
		segments = append(segments,
			fmt.Sprintf("Last %d · %.2f/arrow", last.TotalScore, last.AvgScore),
			fmt.Sprintf("All-time %.2f/arrow · best %d", all.AvgScore, all.BestRound),
			"["+statsPkg.Sparkline(totals)+"]",
		)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
