package geometry

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// CellID is the user identifier of a cell
type CellID string

// Bound pairs a bounding surface with the sense a cell requires on it
type Bound struct {
	Surface Surface
	Sense   Sense
}

// Cell is the region where every bounding surface has its required sense.
// A cell is either a leaf or filled with a nested universe.
type Cell struct {
	id     CellID
	bounds []Bound
	fill   *Universe

	index  int // Slot in the owning geometry
	parent int // Slot of the containing universe, -1 until added to one
}

// NewCell creates a cell from its ordered bounds
func NewCell(id CellID, bounds []Bound) (*Cell, error) {
	if len(bounds) == 0 {
		return nil, cellError(id, ErrEmptyCell, "")
	}
	return &Cell{
		id:     id,
		bounds: append([]Bound(nil), bounds...),
		index:  -1,
		parent: -1,
	}, nil
}

// ID returns the user identifier of the cell
func (c *Cell) ID() CellID {
	return c.id
}

// Bounds returns the ordered (surface, sense) pairs of the cell
func (c *Cell) Bounds() []Bound {
	return c.bounds
}

// Fill returns the universe filling the cell, or nil for a leaf cell
func (c *Cell) Fill() *Universe {
	return c.fill
}

// IsLeaf reports whether the cell has no fill
func (c *Cell) IsLeaf() bool {
	return c.fill == nil
}

// SenseOn returns the sense the cell requires on s, if s bounds the cell
func (c *Cell) SenseOn(s Surface) (Sense, bool) {
	for _, b := range c.bounds {
		if b.Surface == s {
			return b.Sense, true
		}
	}
	return Negative, false
}

// Contains reports whether point lies in the cell
func (c *Cell) Contains(point r3.Vec) bool {
	return c.ContainsSkipping(point, nil)
}

// ContainsSkipping is Contains ignoring the surface skip, used for a point
// lying on a surface it has just crossed
func (c *Cell) ContainsSkipping(point r3.Vec, skip Surface) bool {
	for _, b := range c.bounds {
		if b.Surface == skip {
			continue
		}
		if SenseOf(b.Surface, point) != b.Sense {
			return false
		}
	}
	return true
}

// DistanceToBoundary returns the distance along dir at which a particle at
// pos leaves the cell, and the bound it crosses there
func (c *Cell) DistanceToBoundary(pos, dir r3.Vec) (float64, Bound, bool) {
	closest := math.Inf(1)
	var exit Bound
	found := false

	for _, b := range c.bounds {
		distance, ok := b.Surface.Intersect(pos, dir, b.Sense)
		if ok && distance < closest {
			closest = distance
			exit = b
			found = true
		}
	}

	return closest, exit, found
}

func (c *Cell) String() string {
	senses := make([]string, len(c.bounds))
	for i, b := range c.bounds {
		senses[i] = b.Sense.String() + string(b.Surface.ID())
	}
	out := fmt.Sprintf("cell = %s ; surfaces = %s", c.id, strings.Join(senses, " "))
	if c.fill != nil {
		out += " ; fill = " + string(c.fill.id)
	}
	return out
}
