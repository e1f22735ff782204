package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/quiver/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "End", right: true}, {title: "Arrows"}, {title: "Score", right: true}}
	rows := [][]string{
		{"1", "10 9 9", "28"},
		{"10", "M 5", "5"},
	}

	lines := tableLines(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "End Arrows Score" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "  1 10 9 9    28" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != " 10 M 5        5" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := tableLines([]column{{title: "Notes"}, {title: "N"}}, [][]string{{"弓道", "1"}})
	if lines[1] != "弓道  1" {
		t.Fatalf("expected wide runes to count double: %q", lines[1])
	}
}

func TestTableLinesTruncatesAndTrims(t *testing.T) {
	cols := []column{{title: "#", right: true}, {title: "Notes", max: 6}}
	lines := tableLines(cols, [][]string{{"1", "gusty crosswind"}, {"2"}})
	if lines[0] != "# Notes" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "1 gusty…" {
		t.Fatalf("expected truncated notes: %q", lines[1])
	}
	if lines[2] != "2" {
		t.Fatalf("expected missing cells to be trimmed: %q", lines[2])
	}
}

func TestEndTableLines(t *testing.T) {
	r := Recompute(model.Round{
		CreatedAt: time.Now(),
		Ends: []model.End{
			{Shots: []model.Shot{{X: -0.1, Score: 9}, {X: 0.1, Score: 9}, {X: 2, Score: 0}}},
		},
	})
	lines := EndTableLines(r)
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "9 9 M") {
		t.Fatalf("expected arrow labels with miss marker: %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "18") && !strings.Contains(lines[1], " 18 ") {
		t.Fatalf("expected end score in row: %q", lines[1])
	}
}
