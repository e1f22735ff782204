package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/practice"
	"github.com/verte-zerg/quiver/internal/stats"
)

type memRepo struct {
	rounds []model.Round
	notes  map[string]string
}

func (r *memRepo) SaveRound(ctx context.Context, userID string, round model.Round) error {
	return r.SaveRounds(ctx, userID, []model.Round{round})
}

func (r *memRepo) SaveRounds(_ context.Context, _ string, rounds []model.Round) error {
	r.rounds = append(r.rounds, rounds...)
	return nil
}

func (r *memRepo) LoadRounds(context.Context, string) ([]model.Round, error) {
	return append([]model.Round(nil), r.rounds...), nil
}

func (r *memRepo) UpdateNotes(_ context.Context, _, id, notes string) error {
	if r.notes == nil {
		r.notes = map[string]string{}
	}
	r.notes[id] = notes
	return nil
}

func (r *memRepo) DeleteRound(_ context.Context, _, id string) error {
	out := r.rounds[:0]
	for _, round := range r.rounds {
		if round.ID != id {
			out = append(out, round)
		}
	}
	r.rounds = out
	return nil
}

func newTestModel(t *testing.T) (*Model, *memRepo) {
	t.Helper()
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := &memRepo{rounds: []model.Round{
		stats.Recompute(model.Round{ID: "new", CreatedAt: at.Add(24 * time.Hour), Ends: []model.End{
			{Shots: []model.Shot{{X: -0.1, Score: 9}, {X: 0.1, Score: 9}, {Score: 10}}},
		}}),
		stats.Recompute(model.Round{ID: "old", CreatedAt: at, Ends: []model.End{
			{Shots: []model.Shot{{X: 0.5, Score: 5}, {X: 2, Score: 0}, {Score: 10}}},
		}}),
	}}
	rec := practice.NewRecorder(repo, "alice", model.Config{})
	m := NewModel(rec, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, repo
}

func key(m *Model, k string) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m.Update(msg)
}

func TestOverviewShowsCards(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"Overview", "Rounds", "Best Round", "User: alice"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
	if m.report.Aggregate.RoundCount != 2 {
		t.Fatalf("expected 2 rounds in report, got %d", m.report.Aggregate.RoundCount)
	}
}

func TestRoundDetailNotesAndDelete(t *testing.T) {
	m, repo := newTestModel(t)
	key(m, "l")
	if m.activeTab != tabRounds {
		t.Fatalf("expected rounds tab")
	}
	key(m, "enter")
	if m.detailID != "new" {
		t.Fatalf("expected detail of newest round, got %q", m.detailID)
	}
	if !strings.Contains(m.View(), "Precision") {
		t.Fatalf("expected end table in detail view")
	}

	key(m, "n")
	if m.mode != modeNotes {
		t.Fatalf("expected notes mode")
	}
	key(m, "ok")
	key(m, "enter")
	if repo.notes["new"] != "ok" {
		t.Fatalf("expected notes stored, got %q", repo.notes["new"])
	}
	if r, _ := m.rec.Round("new"); r.Notes != "ok" {
		t.Fatalf("expected notes in memory, got %q", r.Notes)
	}

	key(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	key(m, "n")
	if len(m.rec.Rounds()) != 2 {
		t.Fatalf("expected round kept after n")
	}
	key(m, "d")
	key(m, "y")
	if m.detailID != "" || len(m.rec.Rounds()) != 1 || len(repo.rounds) != 1 {
		t.Fatalf("expected round deleted")
	}
	if m.report.Aggregate.RoundCount != 1 {
		t.Fatalf("expected report refreshed after delete")
	}
}

func TestFilterLimitsRounds(t *testing.T) {
	m, _ := newTestModel(t)
	key(m, "/")
	if m.mode != modeFilter {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[1].SetValue("1")
	key(m, "enter")
	if m.mode != modeBrowse {
		t.Fatalf("expected filter applied, got error %q", m.filterError)
	}
	if len(m.report.Rounds) != 1 || m.report.Rounds[0].ID != "new" {
		t.Fatalf("expected only the newest round")
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m, _ := newTestModel(t)
	key(m, "=")
	if m.cfg.CurveWindow != 10 {
		t.Fatalf("expected window 10, got %d", m.cfg.CurveWindow)
	}
	key(m, "-")
	key(m, "-")
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}
