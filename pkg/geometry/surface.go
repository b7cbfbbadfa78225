package geometry

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Family is the tag naming the algebraic family of a surface
type Family string

const (
	FamilyPlane          Family = "p"
	FamilyPlaneX         Family = "px"
	FamilyPlaneY         Family = "py"
	FamilyPlaneZ         Family = "pz"
	FamilySphereOrigin   Family = "so"
	FamilySphere         Family = "s"
	FamilySphereX        Family = "sx"
	FamilySphereY        Family = "sy"
	FamilySphereZ        Family = "sz"
	FamilyCylinderX      Family = "cx"
	FamilyCylinderY      Family = "cy"
	FamilyCylinderZ      Family = "cz"
	FamilyCylinderOnX    Family = "c/x"
	FamilyCylinderOnY    Family = "c/y"
	FamilyCylinderOnZ    Family = "c/z"
	FamilyGeneralQuadric Family = "gq"
)

// constructor builds a surface of one family from its raw coefficients
type constructor func(id SurfaceID, coeffs []float64, boundary Boundary) (Surface, error)

var constructors = map[Family]constructor{
	FamilyPlane:          newPlane,
	FamilyPlaneX:         planeNormalConstructor(core.X),
	FamilyPlaneY:         planeNormalConstructor(core.Y),
	FamilyPlaneZ:         planeNormalConstructor(core.Z),
	FamilySphereOrigin:   sphereConstructor(FamilySphereOrigin),
	FamilySphere:         sphereConstructor(FamilySphere),
	FamilySphereX:        sphereConstructor(FamilySphereX),
	FamilySphereY:        sphereConstructor(FamilySphereY),
	FamilySphereZ:        sphereConstructor(FamilySphereZ),
	FamilyCylinderX:      cylinderConstructor(core.X, true),
	FamilyCylinderY:      cylinderConstructor(core.Y, true),
	FamilyCylinderZ:      cylinderConstructor(core.Z, true),
	FamilyCylinderOnX:    cylinderConstructor(core.X, false),
	FamilyCylinderOnY:    cylinderConstructor(core.Y, false),
	FamilyCylinderOnZ:    cylinderConstructor(core.Z, false),
	FamilyGeneralQuadric: newQuadric,
}

// NewSurface builds a surface from a family tag and its raw coefficients.
// It fails with a *CreationError when the family is unknown or the
// coefficients do not fit it.
func NewSurface(id SurfaceID, family Family, coeffs []float64, boundary Boundary) (Surface, error) {
	build, ok := constructors[Family(strings.ToLower(string(family)))]
	if !ok {
		return nil, surfaceError(id, ErrUnknownFamily, "%q", family)
	}
	return build(id, coeffs, boundary)
}

// Families returns every supported family tag in lexical order
func Families() []Family {
	families := make([]Family, 0, len(constructors))
	for family := range constructors {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })
	return families
}

// surfaceInfo holds the data shared by every surface family
type surfaceInfo struct {
	id       SurfaceID
	boundary Boundary
}

// ID returns the user identifier of the surface
func (s surfaceInfo) ID() SurfaceID {
	return s.id
}

// Boundary returns the boundary condition of the surface
func (s surfaceInfo) Boundary() Boundary {
	return s.boundary
}

func (s surfaceInfo) describe(family Family, details string) string {
	out := fmt.Sprintf("surface = %s ; type = %s ; %s", s.id, family, details)
	if s.boundary != Transmitting {
		out += " ; boundary = " + s.boundary.String()
	}
	return out
}

// checkCoefficients validates arity and finiteness of a coefficient list
func checkCoefficients(id SurfaceID, family Family, coeffs []float64, count int) error {
	if len(coeffs) != count {
		return surfaceError(id, ErrBadCoefficients, "%s expects %d coefficients, got %d", family, count, len(coeffs))
	}
	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return surfaceError(id, ErrBadCoefficients, "coefficient %d is not finite (%v)", i, c)
		}
	}
	return nil
}

// checkRadius validates a radius coefficient
func checkRadius(id SurfaceID, radius float64) error {
	if radius <= 0 {
		return surfaceError(id, ErrBadCoefficients, "radius must be positive, got %g", radius)
	}
	return nil
}
