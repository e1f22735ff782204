package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quiver/internal/model"
)

func scoredRound(id string, at time.Time, ends ...[]model.Shot) model.Round {
	r := model.Round{ID: id, CreatedAt: at, TargetRadius: 10}
	for _, e := range ends {
		r.Ends = append(r.Ends, model.End{Shots: e})
	}
	return Recompute(r)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, model.AggregateStats{}, Aggregate(nil))
	assert.Equal(t, model.AggregateStats{}, Aggregate([]model.Round{}))
}

func TestAggregate(t *testing.T) {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	rounds := []model.Round{
		scoredRound("b", at.Add(time.Hour),
			[]model.Shot{{X: 0.3, Y: 0.4, Score: 6}, {X: 1.5, Y: 0, Score: 0}},
		),
		scoredRound("a", at,
			[]model.Shot{{X: 0, Y: 0, Score: 10}, {X: 0, Y: 0, Score: 10}},
			[]model.Shot{{X: 0, Y: 0, Score: 10}},
		),
	}

	agg := Aggregate(rounds)
	assert.Equal(t, 2, agg.RoundCount)
	assert.Equal(t, 5, agg.ShotCount)
	assert.Equal(t, 36, agg.TotalScore)
	assert.Equal(t, 30, agg.BestRound)
	assert.Equal(t, 1, agg.Missed)
	assert.InDelta(t, 36.0/5, agg.AvgScore, 1e-9)
	assert.InDelta(t, (5.0+15.0)/5, agg.AvgDistance, 1e-9)
	// only the first end of round b has a spread
	assert.InDelta(t, rounds[0].Ends[0].Precision, agg.AvgPrecision, 1e-9)
}

func TestAggregateIgnoresZeroPrecisionEnds(t *testing.T) {
	r := scoredRound("a", time.Now(),
		[]model.Shot{{X: -0.1, Score: 9}, {X: 0.1, Score: 9}},
		[]model.Shot{{X: 0.2, Score: 8}},
		[]model.Shot{},
	)
	assert.InDelta(t, 1.0, Aggregate([]model.Round{r}).AvgPrecision, 1e-9)
}

func TestSummaries(t *testing.T) {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	newer := scoredRound("b", at.Add(time.Hour),
		[]model.Shot{{X: -0.1, Score: 9}, {X: 0.1, Score: 9}},
		[]model.Shot{{Score: 10}, {Score: 10}},
	)
	newer.Notes = "indoor"
	older := scoredRound("a", at, []model.Shot{{Score: 10}})

	sums := Summaries([]model.Round{newer, older})
	require.Len(t, sums, 2)
	assert.Equal(t, 2, sums[0].Number)
	assert.Equal(t, 1, sums[1].Number)

	s := sums[0]
	assert.Equal(t, "b", s.RoundID)
	assert.Equal(t, 38, s.TotalScore)
	assert.Equal(t, 2, s.EndCount)
	assert.Equal(t, 20, s.BestEnd)
	assert.InDelta(t, 19.0, s.AvgPerEnd, 1e-9)
	assert.InDelta(t, 1.0, s.AvgPrecision, 1e-9)
	assert.Equal(t, "indoor", s.Notes)
}

func TestSummarizeWithoutEnds(t *testing.T) {
	s := Summarize(model.Round{ID: "x"}, 3)
	assert.Equal(t, 3, s.Number)
	assert.Equal(t, 0.0, s.AvgPerEnd)
	assert.Equal(t, 0, s.BestEnd)
}
