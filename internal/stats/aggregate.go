package stats

import (
	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/target"
)

// Aggregate summarizes every shot of the given rounds. Distance is measured
// from the target centre (accuracy); precision averages only ends with a
// non-zero precision.
func Aggregate(rounds []model.Round) model.AggregateStats {
	var agg model.AggregateStats
	if len(rounds) == 0 {
		return agg
	}
	var scores, dists, precisions []float64
	for i, r := range rounds {
		face := target.Target{Radius: roundRadius(r)}
		roundTotal := 0
		for _, e := range r.Ends {
			if e.Precision != 0 {
				precisions = append(precisions, e.Precision)
			}
			for _, s := range e.Shots {
				scores = append(scores, float64(s.Score))
				dists = append(dists, face.DistanceFromCenter(s.X, s.Y))
				roundTotal += s.Score
				if s.Score == 0 {
					agg.Missed++
				}
			}
		}
		agg.TotalScore += roundTotal
		if i == 0 || roundTotal > agg.BestRound {
			agg.BestRound = roundTotal
		}
	}
	agg.RoundCount = len(rounds)
	agg.ShotCount = len(scores)
	agg.AvgScore = Average(scores)
	agg.AvgDistance = Average(dists)
	agg.AvgPrecision = Average(precisions)
	return agg
}

// Summaries returns one row per round in the order given. Rounds are expected
// newest-first; Number counts from the oldest round, which is 1.
func Summaries(rounds []model.Round) []model.RoundSummary {
	out := make([]model.RoundSummary, 0, len(rounds))
	for i, r := range rounds {
		out = append(out, Summarize(r, len(rounds)-i))
	}
	return out
}

// Summarize builds the summary row for a single round.
func Summarize(r model.Round, number int) model.RoundSummary {
	sum := model.RoundSummary{
		RoundID:    r.ID,
		Number:     number,
		Date:       r.CreatedAt,
		TotalScore: r.TotalScore,
		EndCount:   len(r.Ends),
		Notes:      r.Notes,
	}
	if len(r.Ends) == 0 {
		return sum
	}
	var precisions []float64
	for i, e := range r.Ends {
		if i == 0 || e.EndScore > sum.BestEnd {
			sum.BestEnd = e.EndScore
		}
		if e.Precision != 0 {
			precisions = append(precisions, e.Precision)
		}
	}
	sum.AvgPerEnd = float64(r.TotalScore) / float64(len(r.Ends))
	sum.AvgPrecision = Average(precisions)
	return sum
}
