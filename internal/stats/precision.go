package stats

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/quiver/internal/model"
	"github.com/verte-zerg/quiver/internal/target"
)

const maxShotScore = 10

// Average returns the arithmetic mean of values, or 0 when values is empty.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// EndPrecision returns the mean distance of each shot from the centroid of the
// group, scaled by radius. Fewer than two shots have no spread and yield 0.
//
// Precision measures grouping only: a tight group far from the centre has a
// small value.
func EndPrecision(shots []model.Shot, radius float64) float64 {
	if len(shots) <= 1 {
		return 0
	}
	var cx, cy float64
	for _, s := range shots {
		cx += s.X
		cy += s.Y
	}
	n := float64(len(shots))
	cx /= n
	cy /= n

	face := target.Target{Radius: radius}
	dists := make([]float64, len(shots))
	for i, s := range shots {
		dists[i] = face.DistanceBetween(cx, cy, s.X, s.Y)
	}
	return Average(dists)
}

// BuildEnd returns an End holding a copy of shots with its score and precision
// computed from them.
func BuildEnd(shots []model.Shot, radius float64) model.End {
	cp := make([]model.Shot, len(shots))
	copy(cp, shots)
	score := 0
	for _, s := range cp {
		score += s.Score
	}
	return model.End{
		Shots:     cp,
		EndScore:  score,
		Precision: EndPrecision(cp, radius),
	}
}

// Recompute rebuilds every end and the total score of r from its raw shots.
// A zero radius is replaced with the default target radius.
func Recompute(r model.Round) model.Round {
	if r.TargetRadius <= 0 {
		r.TargetRadius = target.DefaultRadius
	}
	ends := make([]model.End, len(r.Ends))
	total := 0
	for i, e := range r.Ends {
		ends[i] = BuildEnd(e.Shots, r.TargetRadius)
		total += ends[i].EndScore
	}
	r.Ends = ends
	r.TotalScore = total
	return r
}

// ValidateRound checks the shape of a round coming from outside the recorder.
// Every end must hold shots, every score must be a ring value and shots off
// the face must score 0.
func ValidateRound(r model.Round) error {
	if len(r.Ends) == 0 {
		return errors.New("round has no ends")
	}
	face := target.Target{Radius: roundRadius(r)}
	for i, e := range r.Ends {
		if len(e.Shots) == 0 {
			return fmt.Errorf("end %d has no shots", i+1)
		}
		for j, s := range e.Shots {
			switch {
			case s.Score < 0 || s.Score > maxShotScore:
				return fmt.Errorf("end %d shot %d: score %d out of range 0-%d", i+1, j+1, s.Score, maxShotScore)
			case s.Score != 0 && !face.OnTarget(s.X, s.Y):
				return fmt.Errorf("end %d shot %d: off the face but scores %d", i+1, j+1, s.Score)
			}
		}
	}
	return nil
}

func roundRadius(r model.Round) float64 {
	if r.TargetRadius <= 0 {
		return target.DefaultRadius
	}
	return r.TargetRadius
}
