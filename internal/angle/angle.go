// Package angle computes joint angles from landmark positions and smooths
// them over a short rolling window.
package angle

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// epsilon guards the cosine division when a limb vector collapses to a point.
const epsilon = 1e-6

// Between returns the angle at vertex b, in degrees within [0, 180], formed by
// the vectors b->a and b->c. Points may have two or three components but all
// three must share the same dimension.
func Between(a, b, c []float64) float64 {
	ba := floats.SubTo(make([]float64, len(a)), a, b)
	bc := floats.SubTo(make([]float64, len(c)), c, b)

	// Clamped rather than offset by epsilon so colinear points give exactly 180.
	denom := floats.Norm(ba, 2) * floats.Norm(bc, 2)
	if denom < epsilon {
		denom = epsilon
	}

	cosine := floats.Dot(ba, bc) / denom
	cosine = math.Max(-1, math.Min(1, cosine))

	return math.Acos(cosine) * (180 / math.Pi)
}

// Planar returns the angle at vertex b using only the x and y components,
// computed from the difference of the two arc-tangents and folded into [0, 180].
func Planar(a, b, c []float64) float64 {
	radians := math.Atan2(c[1]-b[1], c[0]-b[0]) - math.Atan2(a[1]-b[1], a[0]-b[0])
	deg := math.Abs(radians * (180 / math.Pi))
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}
