package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Sphere represents the sphere |p - center|² = radius² (so, s, sx, sy, sz).
// The family records how the center was given so that Coefficients can
// re-emit it in the same form.
type Sphere struct {
	surfaceInfo
	family Family
	center r3.Vec
	radius float64
}

// NewSphere creates a general sphere (family s)
func NewSphere(id SurfaceID, center r3.Vec, radius float64, boundary Boundary) (*Sphere, error) {
	if err := checkRadius(id, radius); err != nil {
		return nil, err
	}
	return &Sphere{
		surfaceInfo: surfaceInfo{id: id, boundary: boundary},
		family:      FamilySphere,
		center:      center,
		radius:      radius,
	}, nil
}

func sphereConstructor(family Family) constructor {
	return func(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error) {
		var center r3.Vec
		var radius float64

		switch family {
		case FamilySphereOrigin:
			if err := checkCoefficients(id, family, coeffs, 1); err != nil {
				return nil, err
			}
			radius = coeffs[0]
		case FamilySphere:
			if err := checkCoefficients(id, family, coeffs, 4); err != nil {
				return nil, err
			}
			center = core.NewVec3(coeffs[0], coeffs[1], coeffs[2])
			radius = coeffs[3]
		default:
			if err := checkCoefficients(id, family, coeffs, 2); err != nil {
				return nil, err
			}
			center = core.WithComponent(center, sphereAxis(family), coeffs[0])
			radius = coeffs[1]
		}

		sphere, err := NewSphere(id, center, radius, boundary)
		if err != nil {
			return nil, err
		}
		sphere.family = family
		return sphere, nil
	}
}

func sphereAxis(family Family) core.Axis {
	switch family {
	case FamilySphereX:
		return core.X
	case FamilySphereY:
		return core.Y
	}
	return core.Z
}

// fits reports whether center can be written with the coefficients of family
func (s *Sphere) fits(family Family, center r3.Vec) bool {
	switch family {
	case FamilySphereOrigin:
		return center == r3.Vec{}
	case FamilySphere:
		return true
	}
	a, b := sphereAxis(family).Others()
	return core.Component(center, a) == 0 && core.Component(center, b) == 0
}

// Center returns the sphere center
func (s *Sphere) Center() r3.Vec {
	return s.center
}

// Radius returns the sphere radius
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Family implements Surface
func (s *Sphere) Family() Family {
	return s.family
}

// Function implements Surface
func (s *Sphere) Function(point r3.Vec) float64 {
	oc := r3.Sub(point, s.center)
	return r3.Dot(oc, oc) - s.radius*s.radius
}

// Normal returns the outward normal (from center to point)
func (s *Sphere) Normal(point r3.Vec) r3.Vec {
	return core.Unit(r3.Sub(point, s.center))
}

// Intersect implements Surface
func (s *Sphere) Intersect(pos, dir r3.Vec, sense Sense) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := r3.Sub(pos, s.center)

	a := r3.Dot(dir, dir)
	k := r3.Dot(oc, dir)
	c := r3.Dot(oc, oc) - s.radius*s.radius

	return quadraticIntersect(a, k, c, sense)
}

// Transformate implements Surface
func (s *Sphere) Transformate(offset r3.Vec) Surface {
	center := r3.Add(s.center, offset)
	family := s.family
	if !s.fits(family, center) {
		family = FamilySphere
	}
	return &Sphere{
		surfaceInfo: s.surfaceInfo,
		family:      family,
		center:      center,
		radius:      s.radius,
	}
}

// Coefficients implements Surface
func (s *Sphere) Coefficients() []float64 {
	switch s.family {
	case FamilySphereOrigin:
		return []float64{s.radius}
	case FamilySphere:
		return []float64{s.center.X, s.center.Y, s.center.Z, s.radius}
	}
	return []float64{core.Component(s.center, sphereAxis(s.family)), s.radius}
}

func (s *Sphere) String() string {
	return s.describe(s.family, fmt.Sprintf("center = (%g, %g, %g) ; radius = %g",
		s.center.X, s.center.Y, s.center.Z, s.radius))
}
