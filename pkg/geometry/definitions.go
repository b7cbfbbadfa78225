package geometry

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceDefinition is the raw record of one surface
type SurfaceDefinition struct {
	ID           SurfaceID
	Family       Family
	Coefficients []float64
	Boundary     Boundary
}

// SurfaceSense is a reference to a surface with the sense a cell requires on it
type SurfaceSense struct {
	Surface SurfaceID
	Sense   Sense
}

// String returns the signed form used in definition files, e.g. "-3"
func (s SurfaceSense) String() string {
	return s.Sense.String() + string(s.Surface)
}

// ParseSurfaceSense parses a signed surface reference. A leading '-' selects
// the negative sense; '+' or no sign selects the positive one.
func ParseSurfaceSense(token string) (SurfaceSense, error) {
	token = strings.TrimSpace(token)
	sense := Positive
	switch {
	case strings.HasPrefix(token, "-"):
		sense = Negative
		token = token[1:]
	case strings.HasPrefix(token, "+"):
		token = token[1:]
	}
	if token == "" {
		return SurfaceSense{}, fmt.Errorf("empty surface reference")
	}
	return SurfaceSense{Surface: SurfaceID(token), Sense: sense}, nil
}

// ParseSurfaceSenses parses a whitespace separated list such as "-1 2 +3"
func ParseSurfaceSenses(list string) ([]SurfaceSense, error) {
	fields := strings.Fields(list)
	senses := make([]SurfaceSense, 0, len(fields))
	for _, field := range fields {
		ss, err := ParseSurfaceSense(field)
		if err != nil {
			return nil, fmt.Errorf("bad surface list %q: %v", list, err)
		}
		senses = append(senses, ss)
	}
	return senses, nil
}

// CellDefinition is the raw record of one cell
type CellDefinition struct {
	ID       CellID
	Surfaces []SurfaceSense
	// Fill names the universe placed inside the cell; empty for a leaf cell
	Fill UniverseID
	// Translation places the fill universe; zero keeps it at the origin
	Translation r3.Vec
	// Universe optionally names the universe owning the cell. Cells that no
	// universe record lists and that name no universe belong to the base.
	Universe UniverseID
}

// UniverseDefinition is the raw record of one universe
type UniverseDefinition struct {
	ID    UniverseID
	Cells []CellID
}

// Definitions holds every raw record needed to build a geometry, in
// declaration order
type Definitions struct {
	Surfaces  []SurfaceDefinition
	Cells     []CellDefinition
	Universes []UniverseDefinition
}
