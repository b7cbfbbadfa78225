package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Geometry owns every surface, cell and universe instance of a problem and
// answers the point-location and ray-crossing queries of the transport
// loop. It is immutable once built, so any number of goroutines may query
// it concurrently.
type Geometry struct {
	surfaces  []Surface
	cells     []*Cell
	universes []*Universe
	base      *Universe

	surfaceByID  map[SurfaceID]Surface
	cellByID     map[CellID]*Cell
	universeByID map[UniverseID]*Universe

	logger core.Logger
}

// Location is the result of a point-location query: the chain of universes
// from the base down to the one holding Cell, which is always a leaf.
type Location struct {
	Path []*Universe
	Cell *Cell
}

// New builds a geometry from raw definitions. Any malformed or contradictory
// definition aborts the construction with a *CreationError.
func New(defs Definitions, logger core.Logger) (*Geometry, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	g := &Geometry{
		cellByID:     make(map[CellID]*Cell),
		universeByID: make(map[UniverseID]*Universe),
		logger:       logger,
	}

	b := newBuilder(g)
	if err := b.build(defs); err != nil {
		return nil, err
	}
	g.surfaceByID = b.surfaceDefs

	logger.Printf("Geometry built: %d surfaces (%d placed), %d cells, %d universes\n",
		len(defs.Surfaces), len(g.surfaces), len(g.cells), len(g.universes))
	return g, nil
}

func (g *Geometry) addUniverse(u *Universe) {
	u.index = len(g.universes)
	g.universes = append(g.universes, u)
	if _, ok := g.universeByID[u.id]; !ok {
		g.universeByID[u.id] = u
	}
}

func (g *Geometry) addCell(c *Cell) {
	c.index = len(g.cells)
	g.cells = append(g.cells, c)
	if _, ok := g.cellByID[c.id]; !ok {
		g.cellByID[c.id] = c
	}
}

// Base returns the root universe
func (g *Geometry) Base() *Universe {
	return g.base
}

// Surface returns the surface defined with id, as declared (untranslated)
func (g *Geometry) Surface(id SurfaceID) (Surface, bool) {
	s, ok := g.surfaceByID[id]
	return s, ok
}

// Cell returns the first instance of the cell defined with id
func (g *Geometry) Cell(id CellID) (*Cell, bool) {
	c, ok := g.cellByID[id]
	return c, ok
}

// Universe returns the first instance of the universe defined with id
func (g *Geometry) Universe(id UniverseID) (*Universe, bool) {
	u, ok := g.universeByID[id]
	return u, ok
}

// Surfaces returns every placed surface instance
func (g *Geometry) Surfaces() []Surface {
	return g.surfaces
}

// Cells returns every cell instance
func (g *Geometry) Cells() []*Cell {
	return g.cells
}

// Universes returns every universe instance, the base first
func (g *Geometry) Universes() []*Universe {
	return g.universes
}

// Parent returns the universe containing cell
func (g *Geometry) Parent(cell *Cell) *Universe {
	if cell.parent < 0 {
		return nil
	}
	return g.universes[cell.parent]
}

// FilledCell returns the cell a nested universe fills, or nil for the base
func (g *Geometry) FilledCell(u *Universe) *Cell {
	if u.parent < 0 {
		return nil
	}
	return g.cells[u.parent]
}

// Locate finds the leaf cell containing point, starting at the base
// universe. It returns ErrLostParticle (as *LostParticleError) when some
// universe along the way has no cell containing the point.
func (g *Geometry) Locate(point r3.Vec) (Location, error) {
	cell, err := g.base.FindCell(point)
	if err != nil {
		var lost *LostParticleError
		if errors.As(err, &lost) && lost.in != nil {
			return Location{Path: g.pathTo(lost.in)}, err
		}
		return Location{}, err
	}
	return Location{Path: g.pathTo(g.Parent(cell)), Cell: cell}, nil
}

// pathTo returns the universes from the base down to u, following the
// filling-cell handles upwards
func (g *Geometry) pathTo(u *Universe) []*Universe {
	var path []*Universe
	for u != nil {
		path = append(path, u)
		filled := g.FilledCell(u)
		if filled == nil {
			break
		}
		u = g.Parent(filled)
	}
	return lo.Reverse(path)
}

// CrossingDistance returns the distance from pos along dir to the boundary
// of cell and the surface crossed there. Cells of a nested universe are
// clipped by the cell the universe fills, so the bounds of every enclosing
// cell are considered too. A ray that crosses nothing leaves the geometry
// and ErrEscape is returned.
func (g *Geometry) CrossingDistance(cell *Cell, pos, dir r3.Vec) (float64, Surface, error) {
	closest := math.Inf(1)
	var exit Surface

	for current := cell; current != nil; {
		if distance, bound, ok := current.DistanceToBoundary(pos, dir); ok && distance < closest {
			closest = distance
			exit = bound.Surface
		}
		u := g.Parent(current)
		if u == nil {
			break
		}
		current = g.FilledCell(u)
	}

	if exit == nil {
		return closest, nil, ErrEscape
	}
	return closest, exit, nil
}

// NeighborAcross returns the leaf cell a particle enters after crossing
// surface at point pos while leaving cell. When surface bounds the cell a
// nested universe fills, the search continues in the enclosing universe.
// Leaving the base universe returns ErrEscape.
func (g *Geometry) NeighborAcross(surface Surface, cell *Cell, pos r3.Vec) (*Cell, error) {
	current := cell
	for {
		u := g.Parent(current)
		if u == nil {
			return nil, fmt.Errorf("geometry: cell %s belongs to no universe", current.id)
		}

		if !u.IsBase() {
			filled := g.FilledCell(u)
			if _, ok := filled.SenseOn(surface); ok {
				current = filled
				continue
			}
		}

		if next := u.neighbor(surface, current, pos); next != nil {
			if next.fill == nil {
				return next, nil
			}
			return next.fill.findCell(pos, surface)
		}

		if u.IsBase() {
			return nil, ErrEscape
		}
		current = g.FilledCell(u)
	}
}

// String dumps the universe tree
func (g *Geometry) String() string {
	var sb strings.Builder
	if g.base != nil {
		writeUniverse(&sb, g.base, 0)
	}
	return sb.String()
}

func writeUniverse(sb *strings.Builder, u *Universe, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%suniverse = %s\n", indent, u.id)
	for _, cell := range u.cells {
		fmt.Fprintf(sb, "%s  %s\n", indent, cell)
		if cell.fill != nil {
			writeUniverse(sb, cell.fill, depth+2)
		}
	}
}
