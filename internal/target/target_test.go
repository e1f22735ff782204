package target

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCenterAndEdge(t *testing.T) {
	assert.Equal(t, 10, Score(0, 0))
	assert.NotEqual(t, 0, Score(1.0, 0), "distance 1.0 is on target")
	assert.Equal(t, 1, Score(1.0, 0))
	assert.Equal(t, 0, Score(1.0001, 0))
	assert.Equal(t, 0, Score(0.8, 0.8))
}

func TestScoreRings(t *testing.T) {
	tests := []struct {
		x, y float64
		want int
	}{
		{0.05, 0, 10},
		{0.1, 0, 9},
		{0, -0.35, 7},
		{0.65, 0, 4},
		{0.99, 0, 1},
		{-2, 3, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Score(tc.x, tc.y), "score(%v, %v)", tc.x, tc.y)
	}
}

func TestScoreNonIncreasing(t *testing.T) {
	prev := Score(0, 0)
	for d := 0.0; d <= 1.5; d += 0.001 {
		got := Score(d, 0)
		if got > prev {
			t.Fatalf("score increased at distance %.3f: %d > %d", d, got, prev)
		}
		prev = got
	}
}

func TestScoreFewerRings(t *testing.T) {
	face := Target{Rings: 5, Radius: 40}
	assert.Equal(t, 10, face.Score(0.1, 0))
	assert.Equal(t, 6, face.Score(1, 0))
	assert.Equal(t, 0, face.Score(1.2, 0))
}

func TestScoreNaNIsMiss(t *testing.T) {
	assert.Equal(t, 0, Score(math.NaN(), 0))
}

func TestDistances(t *testing.T) {
	face := Default()
	assert.InDelta(t, 5.0, face.DistanceFromCenter(0.3, 0.4), 1e-9)
	assert.InDelta(t, 2.0, face.DistanceBetween(-0.1, 0, 0.1, 0), 1e-9)
	assert.True(t, math.IsNaN(face.DistanceFromCenter(math.NaN(), 0)))
}

func TestOnTargetAndRingIndex(t *testing.T) {
	face := Default()
	assert.True(t, face.OnTarget(1, 0))
	assert.False(t, face.OnTarget(0.8, 0.8))
	assert.Equal(t, 0, face.RingIndex(0, 0))
	assert.Equal(t, 9, face.RingIndex(0, 1))
	assert.Equal(t, 10, face.RingIndex(2, 0))
}

func TestRingColors(t *testing.T) {
	colors := RingColors(10)
	if len(colors) != 10 {
		t.Fatalf("expected 10 colors, got %d", len(colors))
	}
	assert.Equal(t, faceBands[0], colors[9], "innermost ring is gold")
	assert.Equal(t, faceBands[4], colors[0], "outermost ring is white")
	assert.Equal(t, colors[9], RingColor(10, 0))
	assert.Nil(t, RingColors(0))
	assert.Equal(t, "", RingColor(10, 10))
}
