package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quiver/internal/model"
)

func newTestSession(ends int) *Session {
	cfg := DefaultConfig()
	cfg.EndsPerRound = ends
	return New(cfg)
}

func fillEnd(t *testing.T, s *Session, i int, pts ...[2]float64) {
	t.Helper()
	require.True(t, s.Select(i))
	for _, p := range pts {
		require.True(t, s.Place(p[0], p[1]))
	}
}

func TestRecordRoundEndToEnd(t *testing.T) {
	s := newTestSession(3)
	fillEnd(t, s, 0, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0})

	end, ok := s.End(0)
	require.True(t, ok)
	assert.Equal(t, 30, end.EndScore)
	assert.Equal(t, 0.0, end.Precision)
	assert.False(t, s.Complete())

	_, ok = s.Finalize("r1", time.Now(), "")
	assert.False(t, ok, "incomplete session must not finalize")

	fillEnd(t, s, 1, [2]float64{0.15, 0}, [2]float64{0, 0.25}, [2]float64{-0.5, 0})
	fillEnd(t, s, 2, [2]float64{0.85, 0}, [2]float64{1.2, 0}, [2]float64{0.05, 0.05})
	require.True(t, s.Complete())

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	round, ok := s.Finalize("r1", at, "windy")
	require.True(t, ok)
	assert.Equal(t, "r1", round.ID)
	assert.Equal(t, at, round.CreatedAt)
	assert.Equal(t, "windy", round.Notes)
	require.Len(t, round.Ends, 3)

	sum := 0
	for _, e := range round.Ends {
		shotSum := 0
		for _, sh := range e.Shots {
			shotSum += sh.Score
		}
		assert.Equal(t, shotSum, e.EndScore)
		sum += e.EndScore
	}
	assert.Equal(t, sum, round.TotalScore)
	assert.Equal(t, 30+9+8+5+2+0+10, round.TotalScore)
}

func TestPlaceFullEndIsNoop(t *testing.T) {
	s := newTestSession(1)
	fillEnd(t, s, 0, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0})
	assert.False(t, s.Place(0, 0))
	end, _ := s.End(0)
	assert.Len(t, end.Shots, 3)
}

func TestUndo(t *testing.T) {
	s := newTestSession(2)
	assert.False(t, s.Undo(), "undo on empty end is a no-op")

	fillEnd(t, s, 0, [2]float64{0.05, 0}, [2]float64{0.45, 0})
	require.True(t, s.Undo())

	end, _ := s.End(0)
	require.Len(t, end.Shots, 1)
	assert.Equal(t, end.Shots[0].Score, end.EndScore)
	assert.Equal(t, 0.0, end.Precision)
}

func TestPrecisionTracksShots(t *testing.T) {
	s := newTestSession(1)
	fillEnd(t, s, 0, [2]float64{-0.1, 0}, [2]float64{0.1, 0})
	end, _ := s.End(0)
	assert.InDelta(t, 1.0, end.Precision, 1e-9)
}

func TestMissPolicy(t *testing.T) {
	s := newTestSession(1)
	require.True(t, s.Place(1.0, 0))
	require.True(t, s.Place(1.0001, 0))
	end, _ := s.End(0)
	assert.Equal(t, 1, end.Shots[0].Score)
	assert.Equal(t, 0, end.Shots[1].Score)

	cfg := DefaultConfig()
	cfg.RecordMisses = false
	strict := New(cfg)
	assert.False(t, strict.Place(1.5, 0))
	assert.True(t, strict.Place(1.0, 0))
	end, _ = strict.End(0)
	assert.Len(t, end.Shots, 1)
}

func TestSetEndsPerRoundGrowAndShrink(t *testing.T) {
	s := newTestSession(2)
	fillEnd(t, s, 0, [2]float64{0, 0})
	fillEnd(t, s, 1, [2]float64{0.3, 0}, [2]float64{0.2, 0})
	before := s.Ends()

	s.SetEndsPerRound(4)
	after := s.Ends()
	require.Len(t, after, 4)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[1], after[1])
	assert.Empty(t, after[2].Shots)
	assert.Empty(t, after[3].Shots)
	assert.Equal(t, 4, s.Config().EndsPerRound)

	require.True(t, s.Select(3))
	s.SetEndsPerRound(1)
	shrunk := s.Ends()
	require.Len(t, shrunk, 1)
	assert.Equal(t, before[0], shrunk[0])
	assert.Equal(t, 0, s.Current())

	s.SetEndsPerRound(0)
	assert.Len(t, s.Ends(), 1)
}

func TestSelectOutOfRange(t *testing.T) {
	s := newTestSession(2)
	assert.False(t, s.Select(2))
	assert.False(t, s.Select(-1))
	assert.Equal(t, 0, s.Current())
}

func TestNextIncompleteAndReset(t *testing.T) {
	s := newTestSession(3)
	fillEnd(t, s, 1, [2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0})
	assert.Equal(t, 2, s.NextIncomplete())
	require.True(t, s.Select(2))
	assert.Equal(t, 0, s.NextIncomplete())
	assert.Equal(t, 30, s.RunningScore())
	assert.Equal(t, 3, s.ShotCount())

	s.Reset()
	assert.Equal(t, 0, s.ShotCount())
	assert.Equal(t, 0, s.Current())
	assert.Len(t, s.Ends(), 3)
}

func TestEndsReturnsCopies(t *testing.T) {
	s := newTestSession(1)
	fillEnd(t, s, 0, [2]float64{0, 0})
	ends := s.Ends()
	ends[0].Shots[0] = model.Shot{X: 1, Y: 1, Score: 0}
	end, _ := s.End(0)
	assert.Equal(t, 10, end.Shots[0].Score)
}

func TestNewFillsDefaults(t *testing.T) {
	s := New(model.Config{})
	assert.Len(t, s.Ends(), DefaultEndsPerRound)
	assert.Equal(t, DefaultShotsPerEnd, s.Config().ShotsPerEnd)
}
