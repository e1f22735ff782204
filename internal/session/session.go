// Package session holds the in-progress recording of a round.
//
// A Session is owned by its caller and is not safe for concurrent use. Calls
// that violate a precondition (placing into a full end, undoing on an empty
// end, finalizing an incomplete round) are no-ops and report false.
package session

import (
	"time"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/stats"
	"github.com/verte-zerg/quiver/internal/target"
)

const (
	// DefaultEndsPerRound is the number of ends in a new round.
	DefaultEndsPerRound = 10
	// DefaultShotsPerEnd is the number of arrows per end.
	DefaultShotsPerEnd = 3
)

// DefaultConfig returns the built-in practice settings.
func DefaultConfig() model.Config {
	return model.Config{
		EndsPerRound: DefaultEndsPerRound,
		ShotsPerEnd:  DefaultShotsPerEnd,
		Rings:        target.DefaultRings,
		TargetRadius: target.DefaultRadius,
		RecordMisses: true,
		AutoAdvance:  true,
	}
}

// Session is a round being recorded.
type Session struct {
	cfg     model.Config
	face    target.Target
	ends    []model.End
	current int
}

// New returns an empty session with cfg.EndsPerRound empty ends. Non-positive
// settings fall back to the defaults.
func New(cfg model.Config) *Session {
	def := DefaultConfig()
	if cfg.EndsPerRound <= 0 {
		cfg.EndsPerRound = def.EndsPerRound
	}
	if cfg.ShotsPerEnd <= 0 {
		cfg.ShotsPerEnd = def.ShotsPerEnd
	}
	if cfg.Rings <= 0 {
		cfg.Rings = def.Rings
	}
	if cfg.TargetRadius <= 0 {
		cfg.TargetRadius = def.TargetRadius
	}
	s := &Session{
		cfg:  cfg,
		face: target.Target{Rings: cfg.Rings, Radius: cfg.TargetRadius},
	}
	s.Reset()
	return s
}

// Reset discards all shots and starts a fresh round with the same settings.
func (s *Session) Reset() {
	s.ends = emptyEnds(s.cfg.EndsPerRound)
	s.current = 0
}

// Config returns the session settings.
func (s *Session) Config() model.Config {
	return s.cfg
}

// Target returns the scoring face used for new shots.
func (s *Session) Target() target.Target {
	return s.face
}

// Current returns the index of the selected end.
func (s *Session) Current() int {
	return s.current
}

// Ends returns a copy of all ends.
func (s *Session) Ends() []model.End {
	out := make([]model.End, len(s.ends))
	for i, e := range s.ends {
		out[i] = copyEnd(e)
	}
	return out
}

// End returns a copy of end i.
func (s *Session) End(i int) (model.End, bool) {
	if i < 0 || i >= len(s.ends) {
		return model.End{}, false
	}
	return copyEnd(s.ends[i]), true
}

// SetEndsPerRound resizes the round. Ends at indices below n are kept as they
// are; new slots start empty and surplus ends are dropped from the tail.
func (s *Session) SetEndsPerRound(n int) {
	if n < 1 || n == len(s.ends) {
		return
	}
	if n < len(s.ends) {
		s.ends = s.ends[:n:n]
	} else {
		s.ends = append(s.ends, emptyEnds(n-len(s.ends))...)
	}
	s.cfg.EndsPerRound = n
	if s.current >= n {
		s.current = n - 1
	}
}

// Select makes end i the target of subsequent placements and undos.
func (s *Session) Select(i int) bool {
	if i < 0 || i >= len(s.ends) {
		return false
	}
	s.current = i
	return true
}

// Place scores a shot at (x, y) and appends it to the selected end. Shots off
// the face score 0 and are only recorded when RecordMisses is set.
func (s *Session) Place(x, y float64) bool {
	end := s.ends[s.current]
	if len(end.Shots) >= s.cfg.ShotsPerEnd {
		return false
	}
	if !s.face.OnTarget(x, y) && !s.cfg.RecordMisses {
		return false
	}
	shot := model.Shot{X: x, Y: y, Score: s.face.Score(x, y)}
	shots := append(append([]model.Shot(nil), end.Shots...), shot)
	s.ends[s.current] = stats.BuildEnd(shots, s.cfg.TargetRadius)
	return true
}

// Undo removes the most recent shot of the selected end.
func (s *Session) Undo() bool {
	end := s.ends[s.current]
	if len(end.Shots) == 0 {
		return false
	}
	s.ends[s.current] = stats.BuildEnd(end.Shots[:len(end.Shots)-1], s.cfg.TargetRadius)
	return true
}

// EndComplete reports whether end i holds ShotsPerEnd shots.
func (s *Session) EndComplete(i int) bool {
	if i < 0 || i >= len(s.ends) {
		return false
	}
	return len(s.ends[i].Shots) == s.cfg.ShotsPerEnd
}

// Complete reports whether every end holds ShotsPerEnd shots.
func (s *Session) Complete() bool {
	for i := range s.ends {
		if !s.EndComplete(i) {
			return false
		}
	}
	return true
}

// NextIncomplete returns the first incomplete end after the selected one,
// wrapping around, or -1 when the round is complete.
func (s *Session) NextIncomplete() int {
	n := len(s.ends)
	for step := 1; step <= n; step++ {
		i := (s.current + step) % n
		if !s.EndComplete(i) {
			return i
		}
	}
	return -1
}

// RunningScore returns the sum of all end scores recorded so far.
func (s *Session) RunningScore() int {
	total := 0
	for _, e := range s.ends {
		total += e.EndScore
	}
	return total
}

// ShotCount returns the number of shots recorded so far.
func (s *Session) ShotCount() int {
	count := 0
	for _, e := range s.ends {
		count += len(e.Shots)
	}
	return count
}

// Finalize builds a Round from a complete session. The session itself is not
// modified; callers reset it once the round has been stored.
func (s *Session) Finalize(id string, at time.Time, notes string) (model.Round, bool) {
	if !s.Complete() {
		return model.Round{}, false
	}
	r := model.Round{
		ID:           id,
		CreatedAt:    at,
		Ends:         s.Ends(),
		Notes:        notes,
		TargetRadius: s.cfg.TargetRadius,
	}
	for _, e := range r.Ends {
		r.TotalScore += e.EndScore
	}
	return r, true
}

func emptyEnds(n int) []model.End {
	ends := make([]model.End, n)
	for i := range ends {
		ends[i] = model.End{Shots: []model.Shot{}}
	}
	return ends
}

func copyEnd(e model.End) model.End {
	e.Shots = append([]model.Shot{}, e.Shots...)
	return e
}
