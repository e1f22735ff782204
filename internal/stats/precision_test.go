package stats

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quiver/internal/model"
)

func shots(pts ...[2]float64) []model.Shot {
	out := make([]model.Shot, len(pts))
	for i, p := range pts {
		out[i] = model.Shot{X: p[0], Y: p[1]}
	}
	return out
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 5.0, Average([]float64{5}))
	assert.InDelta(t, 2.5, Average([]float64{1, 2, 3, 4}), 1e-9)
	assert.InDelta(t, 7.0, Average([]float64{7, 7, 7}), 1e-9)

	values := []float64{3, -1, 8.5, 2}
	avg := Average(values)
	assert.GreaterOrEqual(t, avg, -1.0)
	assert.LessOrEqual(t, avg, 8.5)
}

func TestAverageIgnoresOrder(t *testing.T) {
	values := []float64{3, -1, 8.5, 2, 0.25, 11, 4.75}
	want := Average(values)

	reversed := slices.Clone(values)
	slices.Reverse(reversed)
	assert.InDelta(t, want, Average(reversed), 1e-9)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := slices.Clone(values)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.InDelta(t, want, Average(shuffled), 1e-9)
	}
}

func TestEndPrecisionFewShots(t *testing.T) {
	assert.Equal(t, 0.0, EndPrecision(nil, 10))
	assert.Equal(t, 0.0, EndPrecision(shots([2]float64{0.4, 0.2}), 10))
}

func TestEndPrecisionSymmetricPair(t *testing.T) {
	got := EndPrecision(shots([2]float64{-0.1, 0}, [2]float64{0.1, 0}), 10)
	assert.InDelta(t, 1.0, got, 1e-9)
	assert.Equal(t, 0.0, EndPrecision(shots([2]float64{0.5, 0.5}, [2]float64{0.5, 0.5}), 10))
}

func TestEndPrecisionMeasuresGroupingNotAccuracy(t *testing.T) {
	offCentre := EndPrecision(shots([2]float64{0.8, 0.8}, [2]float64{0.81, 0.8}, [2]float64{0.8, 0.81}), 10)
	centred := EndPrecision(shots([2]float64{0, 0}, [2]float64{0.3, 0}, [2]float64{0, 0.3}), 10)
	assert.Less(t, offCentre, centred)
}

func TestEndPrecisionScalesWithRadius(t *testing.T) {
	group := shots([2]float64{0, 0}, [2]float64{0.3, 0}, [2]float64{0, 0.4})
	assert.InDelta(t, 2*EndPrecision(group, 10), EndPrecision(group, 20), 1e-9)
}

func TestBuildEndCopiesShots(t *testing.T) {
	in := []model.Shot{{X: 0, Y: 0, Score: 10}, {X: 0.45, Y: 0, Score: 6}}
	end := BuildEnd(in, 10)
	assert.Equal(t, 16, end.EndScore)
	assert.InDelta(t, 2.25, end.Precision, 1e-9)

	in[0].Score = 0
	assert.Equal(t, 10, end.Shots[0].Score)
}

func TestRecompute(t *testing.T) {
	r := Recompute(model.Round{
		Ends: []model.End{
			{Shots: []model.Shot{{X: -0.1, Score: 9}, {X: 0.1, Score: 9}}, EndScore: 99, Precision: 42},
			{Shots: []model.Shot{}},
		},
		TotalScore: 1,
	})
	require.Len(t, r.Ends, 2)
	assert.Equal(t, 10.0, r.TargetRadius)
	assert.Equal(t, 18, r.Ends[0].EndScore)
	assert.InDelta(t, 1.0, r.Ends[0].Precision, 1e-9)
	assert.Equal(t, 0, r.Ends[1].EndScore)
	assert.Equal(t, 18, r.TotalScore)
	assert.False(t, math.IsNaN(r.Ends[1].Precision))
}
