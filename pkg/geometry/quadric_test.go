package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

func TestQuadric_MatchesSphere(t *testing.T) {
	// x² + y² + z² - 4 = 0
	quadric := mustSurface(t, "1", FamilyGeneralQuadric, 1, 1, 1, 0, 0, 0, 0, 0, 0, -4)
	sphere := mustSurface(t, "2", FamilySphereOrigin, 2)

	random := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		pos := vec(random.Float64()*8-4, random.Float64()*8-4, random.Float64()*8-4)
		dir := core.SampleOnUnitSphere(random.Float64(), random.Float64())
		sense := SenseOf(sphere, pos)

		if math.Abs(quadric.Function(pos)-sphere.Function(pos)) > 1e-9 {
			t.Fatalf("Function mismatch at %v", pos)
		}

		dq, okq := quadric.Intersect(pos, dir, sense)
		ds, oks := sphere.Intersect(pos, dir, sense)
		if okq != oks || (okq && math.Abs(dq-ds) > 1e-9) {
			t.Fatalf("Intersect mismatch at %v along %v: quadric (%f,%t) sphere (%f,%t)", pos, dir, dq, okq, ds, oks)
		}
	}
}

func TestQuadric_Hyperboloid(t *testing.T) {
	// Cone x² + y² - z² = 0 opening along z
	cone := mustSurface(t, "1", FamilyGeneralQuadric, 1, 1, -1, 0, 0, 0, 0, 0, 0, 0)

	// From (2,0,1) (positive side) toward the axis
	d, ok := cone.Intersect(vec(2, 0, 1), vec(-1, 0, 0), Positive)
	if !ok || math.Abs(d-1) > 1e-12 {
		t.Fatalf("Expected distance 1, got %f (hit=%t)", d, ok)
	}

	// Along the z axis inside the cone nothing is crossed
	if d, ok := cone.Intersect(vec(0, 0, 1), vec(0, 0, 1), Negative); ok {
		t.Errorf("Expected no crossing along the axis, got %f", d)
	}

	normal := cone.Normal(vec(1, 0, 1))
	if !vecNear(normal, r3.Unit(vec(1, 0, -1)), 1e-12) {
		t.Errorf("Unexpected normal %v", normal)
	}
}

func TestQuadric_TransformateMatchesMovedSphere(t *testing.T) {
	quadric := mustSurface(t, "1", FamilyGeneralQuadric, 1, 1, 1, 0, 0, 0, 0, 0, 0, -4)
	offset := vec(1, -2, 3)
	moved := quadric.Transformate(offset)
	sphere := mustSurface(t, "2", FamilySphere, 1, -2, 3, 2)

	for _, p := range []r3.Vec{vec(0, 0, 0), vec(1, -2, 3), vec(3, -2, 3), vec(-5, 4, 1)} {
		if math.Abs(moved.Function(p)-sphere.Function(p)) > 1e-9 {
			t.Errorf("At %v: moved quadric %f, sphere %f", p, moved.Function(p), sphere.Function(p))
		}
	}
}

func TestQuadric_NoVariableTerms(t *testing.T) {
	_, err := NewSurface("1", FamilyGeneralQuadric, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, Transmitting)
	if !errors.Is(err, ErrBadCoefficients) {
		t.Errorf("Expected ErrBadCoefficients, got %v", err)
	}
}
