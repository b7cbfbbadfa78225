package geometry

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceID is the user identifier of a surface
type SurfaceID string

// Surface is an implicit function f(p) splitting space into the half-space
// where f > 0 (positive sense) and the one where f <= 0 (negative sense).
// Implementations are immutable.
type Surface interface {
	// ID returns the user identifier of the surface
	ID() SurfaceID
	// Family returns the algebraic family tag used to build the surface
	Family() Family
	// Boundary returns the boundary condition of the surface
	Boundary() Boundary
	// Function evaluates the implicit function at a point
	Function(point r3.Vec) float64
	// Normal returns the outward unit normal at a point on the surface
	Normal(point r3.Vec) r3.Vec
	// Intersect returns the distance along the unit direction dir at which a
	// ray starting at pos leaves the half-space of the given sense. Only
	// strictly positive distances are reported.
	Intersect(pos, dir r3.Vec, sense Sense) (float64, bool)
	// Transformate returns a copy translated by offset, so that
	// new.Function(p) == old.Function(p - offset)
	Transformate(offset r3.Vec) Surface
	// Coefficients returns the defining coefficients for Family
	Coefficients() []float64
	// String describes the surface and its parameters
	String() string
}

// Sense selects one of the two half-spaces of a surface
type Sense bool

const (
	Negative Sense = false
	Positive Sense = true
)

// Opposite returns the other half-space
func (s Sense) Opposite() Sense {
	return !s
}

// String returns "+" or "-"
func (s Sense) String() string {
	if s == Positive {
		return "+"
	}
	return "-"
}

// SenseOf returns the half-space of surface s containing point
func SenseOf(s Surface, point r3.Vec) Sense {
	return s.Function(point) > 0
}

// Boundary is the boundary condition applied when a particle reaches a surface
type Boundary int

const (
	Transmitting Boundary = iota // Particles cross into the neighbouring cell
	Vacuum                       // Particles crossing the surface are lost from the problem
	Reflecting                   // Particles are mirrored back into the cell
)

// String returns the lower-case name of the boundary condition
func (b Boundary) String() string {
	switch b {
	case Vacuum:
		return "vacuum"
	case Reflecting:
		return "reflecting"
	}
	return "transmitting"
}

// ParseBoundary parses a boundary condition name. The empty string and
// "transmitting" both select Transmitting.
func ParseBoundary(name string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "transmitting":
		return Transmitting, nil
	case "vacuum":
		return Vacuum, nil
	case "reflecting", "reflective":
		return Reflecting, nil
	}
	return Transmitting, fmt.Errorf("unknown boundary condition %q", name)
}
