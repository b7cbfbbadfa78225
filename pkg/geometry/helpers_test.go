package geometry

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// mustSurface builds a surface or fails the test
func mustSurface(t *testing.T, id SurfaceID, family Family, coeffs ...float64) Surface {
	t.Helper()
	s, err := NewSurface(id, family, coeffs, Transmitting)
	if err != nil {
		t.Fatalf("NewSurface(%s, %s, %v) failed: %v", id, family, coeffs, err)
	}
	return s
}

// mustGeometry builds a geometry or fails the test
func mustGeometry(t *testing.T, defs Definitions) *Geometry {
	t.Helper()
	g, err := New(defs, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func senses(t *testing.T, list string) []SurfaceSense {
	t.Helper()
	ss, err := ParseSurfaceSenses(list)
	if err != nil {
		t.Fatal(err)
	}
	return ss
}

func vecNear(a, b r3.Vec, tolerance float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tolerance) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tolerance) &&
		scalar.EqualWithinAbs(a.Z, b.Z, tolerance)
}

var vec = core.NewVec3
