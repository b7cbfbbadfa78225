package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrBadCoefficients is reported for a surface whose coefficient list
	// has the wrong arity or invalid values.
	ErrBadCoefficients = errors.New("bad coefficients")
	// ErrUnknownFamily is reported for an unsupported surface family tag.
	ErrUnknownFamily = errors.New("unknown surface family")
	// ErrDuplicateID is reported when two definitions of the same kind share an id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDanglingReference is reported for an id that names no definition.
	ErrDanglingReference = errors.New("dangling reference")
	// ErrEmptyCell is reported for a cell without bounding surfaces.
	ErrEmptyCell = errors.New("cell without surfaces")
	// ErrCyclicFill is reported when a chain of fills returns to one of its ancestors.
	ErrCyclicFill = errors.New("cyclic fill reference")
	// ErrMissingBase is reported when no cell ends up in the base universe.
	ErrMissingBase = errors.New("missing base universe")

	// ErrLostParticle is matched by every *LostParticleError.
	ErrLostParticle = errors.New("lost particle")

	// ErrEscape is returned by NeighborAcross when a particle leaves the base
	// universe. Like io.EOF it marks the normal end of a particle history,
	// not a failure.
	ErrEscape = errors.New("particle escaped the geometry")
)

// CreationError reports a malformed or contradictory definition. It always
// names the offending entity; Err is one of the sentinel errors above.
type CreationError struct {
	Kind   string // "surface", "cell" or "universe"
	ID     string
	Reason string
	Err    error
}

func (e *CreationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("geometry: %s %s: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("geometry: %s %s: %v: %s", e.Kind, e.ID, e.Err, e.Reason)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

func surfaceError(id SurfaceID, err error, format string, args ...interface{}) error {
	return &CreationError{Kind: "surface", ID: string(id), Reason: fmt.Sprintf(format, args...), Err: err}
}

func cellError(id CellID, err error, format string, args ...interface{}) error {
	return &CreationError{Kind: "cell", ID: string(id), Reason: fmt.Sprintf(format, args...), Err: err}
}

func universeError(id UniverseID, err error, format string, args ...interface{}) error {
	return &CreationError{Kind: "universe", ID: string(id), Reason: fmt.Sprintf(format, args...), Err: err}
}

// LostParticleError reports a point that no cell of a universe contains.
// It ends the current particle history only.
type LostParticleError struct {
	Point    r3.Vec
	Universe UniverseID

	in *Universe // Instance that had no matching cell
}

func (e *LostParticleError) Error() string {
	return fmt.Sprintf("geometry: lost particle at (%g, %g, %g) in universe %s",
		e.Point.X, e.Point.Y, e.Point.Z, e.Universe)
}

// Is makes errors.Is(err, ErrLostParticle) hold.
func (e *LostParticleError) Is(target error) bool {
	return target == ErrLostParticle
}
