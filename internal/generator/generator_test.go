package generator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/session"
)

func TestRoundIsComplete(t *testing.T) {
	g := NewSeeded(1)
	cfg := session.DefaultConfig()
	cfg.RecordMisses = false
	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	r := g.Round(cfg, Archer{Spread: 0.6, FlyerPct: 0.2}, "sim", at)
	assert.Equal(t, "sim", r.ID)
	assert.Equal(t, at, r.CreatedAt)
	require.Len(t, r.Ends, cfg.EndsPerRound)

	total := 0
	for _, e := range r.Ends {
		assert.Len(t, e.Shots, cfg.ShotsPerEnd)
		total += e.EndScore
	}
	assert.Equal(t, total, r.TotalScore)
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := Archer{AimX: 0.1, Spread: 0.2}
	x1, y1 := NewSeeded(42).Shot(a)
	x2, y2 := NewSeeded(42).Shot(a)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestZeroSpreadHitsAimPoint(t *testing.T) {
	x, y := NewSeeded(7).Shot(Archer{AimX: 0.3, AimY: -0.2})
	assert.Equal(t, 0.3, x)
	assert.Equal(t, -0.2, y)
}

func TestRoundsAreNewestFirst(t *testing.T) {
	g := NewSeeded(3)
	last := time.Date(2026, 8, 10, 18, 0, 0, 0, time.UTC)
	n := 0
	rounds := g.Rounds(model.Config{EndsPerRound: 2}, Archer{Spread: 0.3}, 4, 0.05, last, func() string {
		n++
		return fmt.Sprintf("r%d", n)
	})
	require.Len(t, rounds, 4)
	assert.Equal(t, last, rounds[0].CreatedAt)
	for i := 1; i < len(rounds); i++ {
		assert.True(t, rounds[i].CreatedAt.Before(rounds[i-1].CreatedAt))
	}
}
