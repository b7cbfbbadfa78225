package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// CylinderOnAxis represents an infinite cylinder parallel to a coordinate
// axis (cx, cy, cz, c/x, c/y, c/z). The axis coordinate is excluded from
// every radial computation; point is any point the cylinder axis passes
// through and always has a zero component along the axis.
type CylinderOnAxis struct {
	surfaceInfo
	axis   core.Axis
	origin bool // Declared through the origin (cx, cy, cz)
	radius float64
	point  r3.Vec
}

// NewCylinderOnAxis creates a cylinder of the given radius parallel to axis
// and passing through point
func NewCylinderOnAxis(id SurfaceID, axis core.Axis, radius float64, point r3.Vec, boundary Boundary) (*CylinderOnAxis, error) {
	if err := checkRadius(id, radius); err != nil {
		return nil, err
	}
	return &CylinderOnAxis{
		surfaceInfo: surfaceInfo{id: id, boundary: boundary},
		axis:        axis,
		radius:      radius,
		point:       core.WithComponent(point, axis, 0),
	}, nil
}

func cylinderConstructor(axis core.Axis, throughOrigin bool) constructor {
	return func(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error) {
		family := cylinderFamily(axis, throughOrigin)
		var point r3.Vec

		if throughOrigin {
			if err := checkCoefficients(id, family, coeffs, 1); err != nil {
				return nil, err
			}
		} else {
			if err := checkCoefficients(id, family, coeffs, 3); err != nil {
				return nil, err
			}
			// Off-axis coordinates in increasing axis order
			a, b := axis.Others()
			point = core.WithComponent(point, a, coeffs[1])
			point = core.WithComponent(point, b, coeffs[2])
		}

		cylinder, err := NewCylinderOnAxis(id, axis, coeffs[0], point, boundary)
		if err != nil {
			return nil, err
		}
		cylinder.origin = throughOrigin
		return cylinder, nil
	}
}

func cylinderFamily(axis core.Axis, throughOrigin bool) Family {
	if throughOrigin {
		return [...]Family{FamilyCylinderX, FamilyCylinderY, FamilyCylinderZ}[axis]
	}
	return [...]Family{FamilyCylinderOnX, FamilyCylinderOnY, FamilyCylinderOnZ}[axis]
}

// radial returns v with its component along the cylinder axis removed
func (c *CylinderOnAxis) radial(v r3.Vec) r3.Vec {
	return core.WithComponent(v, c.axis, 0)
}

// Axis returns the coordinate axis the cylinder is parallel to
func (c *CylinderOnAxis) Axis() core.Axis {
	return c.axis
}

// Radius returns the cylinder radius
func (c *CylinderOnAxis) Radius() float64 {
	return c.radius
}

// Family implements Surface
func (c *CylinderOnAxis) Family() Family {
	return cylinderFamily(c.axis, c.origin)
}

// Function implements Surface
func (c *CylinderOnAxis) Function(point r3.Vec) float64 {
	d := c.radial(r3.Sub(point, c.point))
	return r3.Dot(d, d) - c.radius*c.radius
}

// Normal returns the radial outward normal
func (c *CylinderOnAxis) Normal(point r3.Vec) r3.Vec {
	return core.Unit(c.radial(r3.Sub(point, c.point)))
}

// Intersect implements Surface
func (c *CylinderOnAxis) Intersect(pos, dir r3.Vec, sense Sense) (float64, bool) {
	d := c.radial(r3.Sub(pos, c.point))
	u := c.radial(dir)

	// Only the off-axis part of the direction moves the particle radially
	a := r3.Dot(u, u)
	k := r3.Dot(u, d)
	cc := r3.Dot(d, d) - c.radius*c.radius

	return quadraticIntersect(a, k, cc, sense)
}

// Transformate implements Surface. Translating along the cylinder axis
// leaves it unchanged.
func (c *CylinderOnAxis) Transformate(offset r3.Vec) Surface {
	point := c.radial(r3.Add(c.point, offset))
	return &CylinderOnAxis{
		surfaceInfo: c.surfaceInfo,
		axis:        c.axis,
		origin:      c.origin && point == r3.Vec{},
		radius:      c.radius,
		point:       point,
	}
}

// Coefficients implements Surface
func (c *CylinderOnAxis) Coefficients() []float64 {
	if c.origin {
		return []float64{c.radius}
	}
	a, b := c.axis.Others()
	return []float64{c.radius, core.Component(c.point, a), core.Component(c.point, b)}
}

func (c *CylinderOnAxis) String() string {
	return c.describe(c.Family(), fmt.Sprintf("radius = %g ; point = (%g, %g, %g)",
		c.radius, c.point.X, c.point.Y, c.point.Z))
}
