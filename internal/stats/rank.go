package stats

import (
	"sort"

	"github.com/verte-zerg/quiver/internal/model"
)

// TopRounds returns the n highest scoring rounds. Ties keep the input order.
func TopRounds(rounds []model.Round, n int) []model.Round {
	if n <= 0 || len(rounds) == 0 {
		return nil
	}
	out := append([]model.Round(nil), rounds...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}

// EndAverages returns the mean end score for each end position across rounds.
func EndAverages(rounds []model.Round) []float64 {
	var sums []float64
	var counts []int
	for _, r := range rounds {
		for i, e := range r.Ends {
			for len(sums) <= i {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			sums[i] += float64(e.EndScore)
			counts[i]++
		}
	}
	out := make([]float64, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			out[i] = sums[i] / float64(counts[i])
		}
	}
	return out
}

// WeakestEnds returns the zero based end positions with the lowest mean score.
func WeakestEnds(rounds []model.Round, top int) []int {
	avgs := EndAverages(rounds)
	if len(avgs) == 0 {
		return nil
	}
	idx := make([]int, len(avgs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return avgs[idx[i]] < avgs[idx[j]]
	})
	if top <= 0 || top > len(idx) {
		top = len(idx)
	}
	return idx[:top]
}
