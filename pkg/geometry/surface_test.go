package geometry

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// sampleSurfaces returns one surface of every family
func sampleSurfaces(t *testing.T) []Surface {
	t.Helper()
	return []Surface{
		mustSurface(t, "p", FamilyPlane, 1, -2, 0.5, 3),
		mustSurface(t, "px", FamilyPlaneX, 1.5),
		mustSurface(t, "py", FamilyPlaneY, -2),
		mustSurface(t, "pz", FamilyPlaneZ, 0),
		mustSurface(t, "so", FamilySphereOrigin, 3),
		mustSurface(t, "s", FamilySphere, 1, 2, -1, 2.5),
		mustSurface(t, "sx", FamilySphereX, 1, 2),
		mustSurface(t, "sy", FamilySphereY, -1, 2),
		mustSurface(t, "sz", FamilySphereZ, 2, 1),
		mustSurface(t, "cx", FamilyCylinderX, 1),
		mustSurface(t, "cy", FamilyCylinderY, 2),
		mustSurface(t, "cz", FamilyCylinderZ, 0.5),
		mustSurface(t, "c/x", FamilyCylinderOnX, 1, 0.5, -0.5),
		mustSurface(t, "c/y", FamilyCylinderOnY, 2, 1, 1),
		mustSurface(t, "c/z", FamilyCylinderOnZ, 1.5, -1, 2),
		mustSurface(t, "gq", FamilyGeneralQuadric, 1, 2, -0.5, 0.3, 0, -0.2, 1, 0, -1, -4),
	}
}

func TestNewSurface_EveryFamilyCovered(t *testing.T) {
	seen := make(map[Family]bool)
	for _, s := range sampleSurfaces(t) {
		seen[s.Family()] = true
	}
	for _, family := range Families() {
		if !seen[family] {
			t.Errorf("Family %s has no sample surface", family)
		}
	}
}

func TestNewSurface_UnknownFamily(t *testing.T) {
	_, err := NewSurface("3", "torus", []float64{1, 2}, Transmitting)
	if !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("Expected ErrUnknownFamily, got %v", err)
	}
	if !strings.Contains(err.Error(), "surface 3") {
		t.Errorf("Expected error to name surface 3, got %q", err)
	}
}

func TestNewSurface_FamilyTagIsCaseInsensitive(t *testing.T) {
	s, err := NewSurface("1", "C/Z", []float64{1, 0, 0}, Reflecting)
	if err != nil {
		t.Fatal(err)
	}
	if s.Family() != FamilyCylinderOnZ || s.Boundary() != Reflecting {
		t.Errorf("Unexpected surface %s", s)
	}
}

func TestNewSurface_WrongArity(t *testing.T) {
	for _, family := range Families() {
		t.Run(string(family), func(t *testing.T) {
			_, err := NewSurface("5", family, make([]float64, 11), Transmitting)
			if !errors.Is(err, ErrBadCoefficients) {
				t.Errorf("Expected ErrBadCoefficients, got %v", err)
			}
		})
	}
}

func TestSurface_TransformateProperty(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	randomVec := func(scale float64) r3.Vec {
		return vec((random.Float64()*2-1)*scale, (random.Float64()*2-1)*scale, (random.Float64()*2-1)*scale)
	}

	for _, s := range sampleSurfaces(t) {
		t.Run(string(s.ID()), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				offset := randomVec(5)
				moved := s.Transformate(offset)
				p := randomVec(10)

				want := s.Function(r3.Sub(p, offset))
				got := moved.Function(p)
				if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
					t.Fatalf("offset %v point %v: expected %g, got %g", offset, p, want, got)
				}
			}
		})
	}
}

func TestSurface_TransformateKeepsOriginal(t *testing.T) {
	for _, s := range sampleSurfaces(t) {
		before := s.Coefficients()
		s.Transformate(vec(1, 2, 3))
		after := s.Coefficients()
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("%s: Transformate modified the original (%v -> %v)", s.ID(), before, after)
				break
			}
		}
	}
}

func TestSurface_CoefficientsRoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	for _, s := range sampleSurfaces(t) {
		for _, candidate := range []Surface{s, s.Transformate(vec(0.5, -1, 2))} {
			rebuilt, err := NewSurface(candidate.ID(), candidate.Family(), candidate.Coefficients(), candidate.Boundary())
			if err != nil {
				t.Fatalf("%s: rebuilding from %v failed: %v", candidate, candidate.Coefficients(), err)
			}
			for i := 0; i < 20; i++ {
				p := vec(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
				if math.Abs(rebuilt.Function(p)-candidate.Function(p)) > 1e-9 {
					t.Fatalf("%s: rebuilt surface differs at %v", candidate, p)
				}
			}
		}
	}
}

func TestSurface_IntersectBackStep(t *testing.T) {
	random := rand.New(rand.NewSource(17))
	for _, s := range sampleSurfaces(t) {
		t.Run(string(s.ID()), func(t *testing.T) {
			hits := 0
			for i := 0; i < 500; i++ {
				pos := vec(random.Float64()*8-4, random.Float64()*8-4, random.Float64()*8-4)
				dir := core.SampleOnUnitSphere(random.Float64(), random.Float64())
				sense := SenseOf(s, pos)

				d, ok := s.Intersect(pos, dir, sense)
				if !ok {
					continue
				}
				if d <= 0 {
					t.Fatalf("Non-positive distance %g", d)
				}
				hits++

				hit := core.NewRay(pos, dir).At(d)
				// Rounding in f grows with the squared distance from the origin
				if f := s.Function(hit); math.Abs(f) > 1e-8*math.Max(1, r3.Norm2(hit)) {
					t.Fatalf("From %v along %v: f at crossing = %g", pos, dir, f)
				}

				// Restarting on the surface with the new sense never returns 0
				if d2, ok := s.Intersect(hit, dir, sense.Opposite()); ok && d2 < 1e-9 {
					t.Fatalf("Self intersection at %v: %g", hit, d2)
				}
			}
			if hits == 0 {
				t.Error("No ray crossed the surface")
			}
		})
	}
}

func TestSurface_NormalIsUnit(t *testing.T) {
	for _, s := range sampleSurfaces(t) {
		n := s.Normal(vec(0.3, 1.7, -2.2))
		if math.Abs(r3.Norm(n)-1) > 1e-12 {
			t.Errorf("%s: normal %v is not unit length", s.ID(), n)
		}
	}
}

func TestSurface_String(t *testing.T) {
	s, err := NewSurface("12", FamilySphereOrigin, []float64{2}, Vacuum)
	if err != nil {
		t.Fatal(err)
	}
	out := s.String()
	for _, want := range []string{"surface = 12", "type = so", "radius = 2", "boundary = vacuum"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		name string
		want Boundary
	}{
		{"", Transmitting},
		{"transmitting", Transmitting},
		{"Vacuum", Vacuum},
		{" reflecting ", Reflecting},
		{"reflective", Reflecting},
	}
	for _, tt := range tests {
		got, err := ParseBoundary(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseBoundary(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
		}
		if got.String() != tt.want.String() {
			t.Errorf("Boundary %v does not print as %v", got, tt.want)
		}
	}
	if _, err := ParseBoundary("white"); err == nil {
		t.Error("Expected an error for an unknown boundary condition")
	}
}
