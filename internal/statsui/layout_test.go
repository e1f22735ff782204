package statsui

import (
	"strings"
	"testing"
)

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, c := range cases {
		if got := nextCurveWindow(c.in); got != c.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", c.in, got, c.next)
		}
		if got := prevCurveWindow(c.in); got != c.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", c.in, got, c.prev)
		}
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("ab\ncdef\nghi", 5, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "ab   " || lines[1] != "cdef " {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if got := strings.Count(fitLines("x", 3, 3), "\n"); got != 2 {
		t.Fatalf("expected filler lines, got %d newlines", got)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("expected short line unchanged: %q", got)
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter("2026-03-01", "5", "")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}
	if cfg.Last != 5 || cfg.CurveWindow != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	for _, bad := range [][3]string{
		{"03/01/2026", "", ""},
		{"", "-1", ""},
		{"", "", "0"},
	} {
		if _, err := parseFilter(bad[0], bad[1], bad[2]); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}
