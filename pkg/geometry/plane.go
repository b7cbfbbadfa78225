package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Plane represents the infinite plane normal·p = distance. The normal is
// stored normalized, so Function is the signed distance to the plane.
type Plane struct {
	surfaceInfo
	normal   r3.Vec
	distance float64
}

// NewPlane creates a plane from a (not necessarily unit) normal and the
// constant term of A·x + B·y + C·z - D
func NewPlane(id SurfaceID, normal r3.Vec, d float64, boundary Boundary) (*Plane, error) {
	length := r3.Norm(normal)
	if length < core.Epsilon {
		return nil, surfaceError(id, ErrBadCoefficients, "plane normal must not be zero")
	}
	return &Plane{
		surfaceInfo: surfaceInfo{id: id, boundary: boundary},
		normal:      r3.Scale(1/length, normal),
		distance:    d / length,
	}, nil
}

func newPlane(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error) {
	if err := checkCoefficients(id, FamilyPlane, coeffs, 4); err != nil {
		return nil, err
	}
	surface, err := NewPlane(id, core.NewVec3(coeffs[0], coeffs[1], coeffs[2]), coeffs[3], boundary)
	if err != nil {
		return nil, err
	}
	return surface, nil
}

// Family implements Surface
func (p *Plane) Family() Family {
	return FamilyPlane
}

// Function returns the signed distance from point to the plane
func (p *Plane) Function(point r3.Vec) float64 {
	return r3.Dot(p.normal, point) - p.distance
}

// Normal returns the plane normal, independent of point
func (p *Plane) Normal(r3.Vec) r3.Vec {
	return p.normal
}

// Intersect implements Surface
func (p *Plane) Intersect(pos, dir r3.Vec, sense Sense) (float64, bool) {
	return linearIntersect(r3.Dot(p.normal, dir), p.Function(pos), sense)
}

// Transformate returns the plane translated by offset
func (p *Plane) Transformate(offset r3.Vec) Surface {
	return &Plane{
		surfaceInfo: p.surfaceInfo,
		normal:      p.normal,
		distance:    p.distance + r3.Dot(p.normal, offset),
	}
}

// Coefficients returns A B C D with a unit normal
func (p *Plane) Coefficients() []float64 {
	return []float64{p.normal.X, p.normal.Y, p.normal.Z, p.distance}
}

func (p *Plane) String() string {
	return p.describe(FamilyPlane, fmt.Sprintf("normal = (%g, %g, %g) ; distance = %g",
		p.normal.X, p.normal.Y, p.normal.Z, p.distance))
}

// PlaneNormal represents the plane perpendicular to a coordinate axis at
// the given position along that axis (px, py, pz)
type PlaneNormal struct {
	surfaceInfo
	axis     core.Axis
	position float64
}

// NewPlaneNormal creates the plane {p : p[axis] = position}
func NewPlaneNormal(id SurfaceID, axis core.Axis, position float64, boundary Boundary) *PlaneNormal {
	return &PlaneNormal{
		surfaceInfo: surfaceInfo{id: id, boundary: boundary},
		axis:        axis,
		position:    position,
	}
}

func planeNormalConstructor(axis core.Axis) constructor {
	return func(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error) {
		if err := checkCoefficients(id, planeNormalFamily(axis), coeffs, 1); err != nil {
			return nil, err
		}
		return NewPlaneNormal(id, axis, coeffs[0], boundary), nil
	}
}

func planeNormalFamily(axis core.Axis) Family {
	return [...]Family{FamilyPlaneX, FamilyPlaneY, FamilyPlaneZ}[axis]
}

// Axis returns the axis the plane is perpendicular to
func (p *PlaneNormal) Axis() core.Axis {
	return p.axis
}

// Family implements Surface
func (p *PlaneNormal) Family() Family {
	return planeNormalFamily(p.axis)
}

// Function implements Surface
func (p *PlaneNormal) Function(point r3.Vec) float64 {
	return core.Component(point, p.axis) - p.position
}

// Normal returns the unit vector along the plane axis
func (p *PlaneNormal) Normal(r3.Vec) r3.Vec {
	return core.WithComponent(r3.Vec{}, p.axis, 1)
}

// Intersect implements Surface
func (p *PlaneNormal) Intersect(pos, dir r3.Vec, sense Sense) (float64, bool) {
	return linearIntersect(core.Component(dir, p.axis), p.Function(pos), sense)
}

// Transformate implements Surface
func (p *PlaneNormal) Transformate(offset r3.Vec) Surface {
	return NewPlaneNormal(p.id, p.axis, p.position+core.Component(offset, p.axis), p.boundary)
}

// Coefficients implements Surface
func (p *PlaneNormal) Coefficients() []float64 {
	return []float64{p.position}
}

func (p *PlaneNormal) String() string {
	return p.describe(p.Family(), fmt.Sprintf("position = %g", p.position))
}
