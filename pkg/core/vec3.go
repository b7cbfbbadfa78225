package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the tolerance below which a quadratic coefficient or a
// direction/normal projection is treated as zero.
const Epsilon = 1e-12

// Axis selects one of the three cartesian coordinates
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// String returns the lower-case axis letter
func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Others returns the two axes different from a, in increasing order
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case X:
		return Y, Z
	case Y:
		return X, Z
	}
	return X, Y
}

// NewVec3 creates a new vector
func NewVec3(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

// Component returns the coordinate of v along axis
func Component(v r3.Vec, axis Axis) float64 {
	switch axis {
	case X:
		return v.X
	case Y:
		return v.Y
	}
	return v.Z
}

// WithComponent returns a copy of v with the coordinate along axis set to value
func WithComponent(v r3.Vec, axis Axis, value float64) r3.Vec {
	switch axis {
	case X:
		v.X = value
	case Y:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Unit returns v normalized, or the zero vector if v has no length
func Unit(v r3.Vec) r3.Vec {
	if r3.Norm2(v) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(v)
}

// IsFinite reports whether every component of v is a finite number
func IsFinite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Reflect mirrors direction about the plane with the given unit normal
func Reflect(direction, normal r3.Vec) r3.Vec {
	return r3.Sub(direction, r3.Scale(2*r3.Dot(direction, normal), normal))
}

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// NewRay creates a new ray
func NewRay(origin, direction r3.Vec) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}
