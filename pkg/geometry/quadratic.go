package geometry

import (
	"math"

	"github.com/mohamed3ma/helios/pkg/core"
)

// quadraticIntersect solves a·t² + 2k·t + c = 0 for the distance at which a
// ray leaves the half-space of the given sense.
//
// Along the ray f'(t) = 2(a·t + k), which equals -2·sqrt(q) at (-k - sqrt(q))/a
// and +2·sqrt(q) at (-k + sqrt(q))/a. Leaving the positive half-space means f
// is decreasing, so each sense owns exactly one root whatever the sign of a.
// A particle sitting on the surface it just crossed gets the next crossing,
// never 0. A tangent ray (q == 0) touches the surface without changing sense
// and is not a crossing.
func quadraticIntersect(a, k, c float64, sense Sense) (float64, bool) {
	if math.Abs(a) < core.Epsilon {
		return linearIntersect(2*k, c, sense)
	}

	q := k*k - a*c
	if q <= 0 {
		return 0, false
	}
	sqrtQ := math.Sqrt(q)

	var t float64
	if sense == Positive {
		t = (-k - sqrtQ) / a
	} else {
		t = (-k + sqrtQ) / a
	}

	if t <= 0 {
		return 0, false
	}
	return t, true
}

// linearIntersect solves b·t + c = 0 for a ray leaving the half-space of the
// given sense: leaving the positive side needs b < 0, the negative side b > 0.
func linearIntersect(b, c float64, sense Sense) (float64, bool) {
	if sense == Positive && b > -core.Epsilon {
		return 0, false
	}
	if sense == Negative && b < core.Epsilon {
		return 0, false
	}

	t := -c / b
	if t <= 0 {
		return 0, false
	}
	return t, true
}
