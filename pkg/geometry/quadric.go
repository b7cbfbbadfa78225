package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Quadric represents the general quadric surface
//
//	A·x² + B·y² + C·z² + D·xy + E·yz + F·zx + G·x + H·y + J·z + K = 0
type Quadric struct {
	surfaceInfo
	a, b, c, d, e, f, g, h, j, k float64
}

// NewQuadric creates a general quadric from its ten coefficients in the
// order A B C D E F G H J K
func NewQuadric(id SurfaceID, coeffs []float64, boundary Boundary) (*Quadric, error) {
	if err := checkCoefficients(id, FamilyGeneralQuadric, coeffs, 10); err != nil {
		return nil, err
	}
	allZero := true
	for _, c := range coeffs[:9] {
		if c != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, surfaceError(id, ErrBadCoefficients, "quadric has no variable terms")
	}
	q := &Quadric{surfaceInfo: surfaceInfo{id: id, boundary: boundary}}
	q.a, q.b, q.c = coeffs[0], coeffs[1], coeffs[2]
	q.d, q.e, q.f = coeffs[3], coeffs[4], coeffs[5]
	q.g, q.h, q.j = coeffs[6], coeffs[7], coeffs[8]
	q.k = coeffs[9]
	return q, nil
}

func newQuadric(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error) {
	surface, err := NewQuadric(id, coeffs, boundary)
	if err != nil {
		return nil, err
	}
	return surface, nil
}

// Family implements Surface
func (q *Quadric) Family() Family {
	return FamilyGeneralQuadric
}

// Function implements Surface
func (q *Quadric) Function(p r3.Vec) float64 {
	x, y, z := p.X, p.Y, p.Z
	return x*(q.a*x+q.d*y+q.g) +
		y*(q.b*y+q.e*z+q.h) +
		z*(q.c*z+q.f*x+q.j) + q.k
}

// gradient returns the (unnormalized) gradient of Function at p
func (q *Quadric) gradient(p r3.Vec) r3.Vec {
	return core.NewVec3(
		2*q.a*p.X+q.d*p.Y+q.f*p.Z+q.g,
		2*q.b*p.Y+q.d*p.X+q.e*p.Z+q.h,
		2*q.c*p.Z+q.e*p.Y+q.f*p.X+q.j,
	)
}

// Normal returns the normalized gradient
func (q *Quadric) Normal(point r3.Vec) r3.Vec {
	return core.Unit(q.gradient(point))
}

// Intersect implements Surface
func (q *Quadric) Intersect(pos, dir r3.Vec, sense Sense) (float64, bool) {
	u, v, w := dir.X, dir.Y, dir.Z

	// Quadratic part of the function evaluated on the direction
	a := q.a*u*u + q.b*v*v + q.c*w*w + q.d*u*v + q.e*v*w + q.f*w*u
	// Half the directional derivative at the ray origin
	k := 0.5 * r3.Dot(q.gradient(pos), dir)
	c := q.Function(pos)

	return quadraticIntersect(a, k, c, sense)
}

// Transformate implements Surface. Substituting p - offset keeps the
// quadratic terms and moves the linear and constant ones.
func (q *Quadric) Transformate(offset r3.Vec) Surface {
	ox, oy, oz := offset.X, offset.Y, offset.Z
	moved := *q
	moved.g = q.g - 2*q.a*ox - q.d*oy - q.f*oz
	moved.h = q.h - 2*q.b*oy - q.d*ox - q.e*oz
	moved.j = q.j - 2*q.c*oz - q.e*oy - q.f*ox
	moved.k = q.Function(r3.Scale(-1, offset))
	return &moved
}

// Coefficients implements Surface
func (q *Quadric) Coefficients() []float64 {
	return []float64{q.a, q.b, q.c, q.d, q.e, q.f, q.g, q.h, q.j, q.k}
}

func (q *Quadric) String() string {
	return q.describe(FamilyGeneralQuadric, fmt.Sprintf("coefficients = %v", q.Coefficients()))
}
