package stats

import (
	"context"

	"github.com/verte-zerg/quiver/internal/model"
)

// RoundLoader loads all rounds for a user, newest first.
type RoundLoader interface {
	LoadRounds(ctx context.Context, userID string) ([]model.Round, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds    []model.Round
	Summaries []model.RoundSummary
	Aggregate model.AggregateStats
	Window    model.AggregateStats
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, loader RoundLoader, userID string, cfg model.StatsConfig) (Report, error) {
	rounds, err := loader.LoadRounds(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	return NewReport(rounds, cfg), nil
}

// NewReport filters the user's full newest-first history with cfg and
// computes the report. Summary numbers count over the whole history, so a
// filtered table shows the same #N that round lookups accept.
func NewReport(all []model.Round, cfg model.StatsConfig) Report {
	keep := filterIndexes(all, cfg)
	rounds := make([]model.Round, 0, len(keep))
	sums := make([]model.RoundSummary, 0, len(keep))
	for _, i := range keep {
		rounds = append(rounds, all[i])
		sums = append(sums, Summarize(all[i], len(all)-i))
	}
	return Report{
		Rounds:    rounds,
		Summaries: sums,
		Aggregate: Aggregate(rounds),
		Window:    Aggregate(lastRounds(rounds, cfg.CurveWindow)),
	}
}

// filterIndexes applies the Since and Last filters to newest-first rounds.
func filterIndexes(rounds []model.Round, cfg model.StatsConfig) []int {
	keep := make([]int, 0, len(rounds))
	for i, r := range rounds {
		if cfg.Since != nil && r.CreatedAt.Before(*cfg.Since) {
			continue
		}
		keep = append(keep, i)
	}
	if cfg.Last > 0 && len(keep) > cfg.Last {
		keep = keep[:cfg.Last]
	}
	return keep
}

func lastRounds(rounds []model.Round, window int) []model.Round {
	if window <= 0 || len(rounds) <= window {
		return rounds
	}
	return rounds[:window]
}
