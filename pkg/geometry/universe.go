package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// UniverseID is the user identifier of a universe
type UniverseID string

// BaseUniverse is the root of every geometry
const BaseUniverse UniverseID = "0"

// Universe is an ordered collection of cells. A nested universe keeps a
// handle to the cell it fills.
type Universe struct {
	id    UniverseID
	cells []*Cell

	index  int // Slot in the owning geometry
	parent int // Slot of the filling cell, -1 for the base universe
}

// NewUniverse creates an empty universe
func NewUniverse(id UniverseID) *Universe {
	return &Universe{id: id, index: -1, parent: -1}
}

// ID returns the user identifier of the universe
func (u *Universe) ID() UniverseID {
	return u.id
}

// Cells returns the cells in declaration order
func (u *Universe) Cells() []*Cell {
	return u.cells
}

// IsBase reports whether the universe is not filling any cell
func (u *Universe) IsBase() bool {
	return u.parent < 0
}

// AddCell links the cell to this universe and appends it
func (u *Universe) AddCell(cell *Cell) {
	cell.parent = u.index
	u.cells = append(u.cells, cell)
}

// FindCell returns the leaf cell containing point, descending through fills.
// The first matching cell in declaration order wins.
func (u *Universe) FindCell(point r3.Vec) (*Cell, error) {
	return u.findCell(point, nil)
}

func (u *Universe) findCell(point r3.Vec, skip Surface) (*Cell, error) {
	cell := u.match(point, skip)
	if cell == nil {
		return nil, &LostParticleError{Point: point, Universe: u.id, in: u}
	}
	if cell.fill != nil {
		return cell.fill.findCell(point, skip)
	}
	return cell, nil
}

// match returns the first cell of this universe containing point, without
// descending into fills
func (u *Universe) match(point r3.Vec, skip Surface) *Cell {
	for _, cell := range u.cells {
		if cell.ContainsSkipping(point, skip) {
			return cell
		}
	}
	return nil
}

// neighbor returns the cell of this universe a particle enters when it
// leaves from across surface at point
func (u *Universe) neighbor(surface Surface, from *Cell, point r3.Vec) *Cell {
	sense, bounded := from.SenseOn(surface)

	// Cells bounded by the crossed surface on the other side
	for _, cell := range u.cells {
		if cell == from {
			continue
		}
		s, ok := cell.SenseOn(surface)
		if !ok || (bounded && s == sense) {
			continue
		}
		if cell.ContainsSkipping(point, surface) {
			return cell
		}
	}

	// Cells meeting the crossing point through other, coincident surfaces
	for _, cell := range u.cells {
		if cell == from {
			continue
		}
		if _, ok := cell.SenseOn(surface); ok {
			continue
		}
		if cell.ContainsSkipping(point, surface) {
			return cell
		}
	}
	return nil
}
