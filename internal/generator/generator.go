// Package generator simulates archers shooting rounds.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/session"
)

// Archer describes a simulated shooter in normalized face coordinates.
type Archer struct {
	// AimX and AimY are the systematic offset of the group centre.
	AimX, AimY float64
	// Spread is the standard deviation of each arrow around the aim point.
	Spread float64
	// FlyerPct is the probability (0-1) that an arrow is a flyer with three
	// times the usual spread.
	FlyerPct float64
}

// Generator produces randomized shots.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shot returns the landing point of one arrow.
func (g *Generator) Shot(a Archer) (float64, float64) {
	spread := a.Spread
	if a.FlyerPct > 0 && g.rnd.Float64() < a.FlyerPct {
		spread *= 3
	}
	return a.AimX + g.rnd.NormFloat64()*spread, a.AimY + g.rnd.NormFloat64()*spread
}

// Round shoots a complete round with cfg through a recording session, so the
// result is scored exactly like a recorded one.
func (g *Generator) Round(cfg model.Config, a Archer, id string, at time.Time) model.Round {
	// Misses must be recorded or a wild archer would never fill an end.
	cfg.RecordMisses = true
	s := session.New(cfg)
	for i := range s.Ends() {
		s.Select(i)
		for !s.EndComplete(i) {
			s.Place(g.Shot(a))
		}
	}
	round, _ := s.Finalize(id, at, "")
	return round
}

// Rounds shoots n rounds one day apart ending at last, returned newest first.
// The archer's spread tightens by improve per round to mimic progress.
func (g *Generator) Rounds(cfg model.Config, a Archer, n int, improve float64, last time.Time, newID func() string) []model.Round {
	out := make([]model.Round, n)
	for i := 0; i < n; i++ {
		archer := a
		archer.Spread = max(0.01, a.Spread-improve*float64(i))
		out[n-1-i] = g.Round(cfg, archer, newID(), last.AddDate(0, 0, -(n-1-i)))
	}
	return out
}
