// Package target maps normalized target coordinates to scores and distances.
//
// Coordinates are offsets from the target centre divided by the target radius,
// so the face is the unit disc. A shot at distance exactly 1.0 is on the
// target and scores the outermost ring; anything beyond 1.0 is a miss.
package target

import "math"

const (
	// DefaultRings is the number of scoring rings on a standard face.
	DefaultRings = 10
	// DefaultRadius is the physical target radius in centimetres.
	DefaultRadius = 10.0

	maxScore = 10
)

// Target describes a scoring face.
type Target struct {
	Rings  int
	Radius float64
}

// Default returns a ten ring face with a radius of DefaultRadius.
func Default() Target {
	return Target{Rings: DefaultRings, Radius: DefaultRadius}
}

// Score scores a shot on the default face.
func Score(x, y float64) int {
	return Default().Score(x, y)
}

// Score returns the ring score in [0, 10] for the point (x, y).
func (t Target) Score(x, y float64) int {
	d := norm(x, y)
	if math.IsNaN(d) || d > 1 {
		return 0
	}
	rings := t.rings()
	idx := int(math.Floor(d * float64(rings)))
	if idx > rings-1 {
		idx = rings - 1
	}
	score := maxScore - idx
	if score < 0 {
		return 0
	}
	return score
}

// OnTarget reports whether the point lies on the face, edge included.
func (t Target) OnTarget(x, y float64) bool {
	return norm(x, y) <= 1
}

// DistanceFromCenter returns the physical distance of (x, y) from the centre.
func (t Target) DistanceFromCenter(x, y float64) float64 {
	return norm(x, y) * t.Radius
}

// DistanceBetween returns the physical distance between two normalized points.
func (t Target) DistanceBetween(x1, y1, x2, y2 float64) float64 {
	return norm(x2-x1, y2-y1) * t.Radius
}

// RingIndex returns the zero based ring index counted from the centre, or
// Rings for points off the face.
func (t Target) RingIndex(x, y float64) int {
	d := norm(x, y)
	rings := t.rings()
	if math.IsNaN(d) || d > 1 {
		return rings
	}
	idx := int(math.Floor(d * float64(rings)))
	if idx > rings-1 {
		idx = rings - 1
	}
	return idx
}

func (t Target) rings() int {
	if t.Rings <= 0 {
		return DefaultRings
	}
	return t.Rings
}

func norm(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
