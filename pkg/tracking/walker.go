package tracking

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

// Outcome is the way a particle history ended
type Outcome int

const (
	Escaped   Outcome = iota // Left the base universe
	Leaked                   // Crossed a vacuum surface
	Lost                     // Reached a point no cell contains
	Truncated                // Hit the crossing limit
)

func (o Outcome) String() string {
	switch o {
	case Escaped:
		return "escaped"
	case Leaked:
		return "leaked"
	case Lost:
		return "lost"
	case Truncated:
		return "truncated"
	}
	return "unknown"
}

// DefaultMaxCrossings bounds histories that never leave the geometry, such
// as a particle bouncing between two reflecting planes
const DefaultMaxCrossings = 10000

// Walker follows particles in straight lines through a geometry, moving
// from cell to cell until they leave it. There are no collisions: this is
// void transport, which exercises every geometry query of a real run.
type Walker struct {
	geometry     *geometry.Geometry
	maxCrossings int
	stats        Stats
}

// NewWalker creates a walker for g. maxCrossings <= 0 selects
// DefaultMaxCrossings.
func NewWalker(g *geometry.Geometry, maxCrossings int) *Walker {
	if maxCrossings <= 0 {
		maxCrossings = DefaultMaxCrossings
	}
	return &Walker{geometry: g, maxCrossings: maxCrossings, stats: NewStats()}
}

// Stats returns the statistics accumulated so far
func (w *Walker) Stats() Stats {
	return w.stats
}

// Reset clears the accumulated statistics
func (w *Walker) Reset() {
	w.stats = NewStats()
}

// Walk follows one particle from pos along the unit direction dir
func (w *Walker) Walk(pos, dir r3.Vec) Outcome {
	outcome := w.walk(pos, dir)
	w.stats.record(outcome)
	return outcome
}

func (w *Walker) walk(pos, dir r3.Vec) Outcome {
	loc, err := w.geometry.Locate(pos)
	if err != nil {
		w.stats.addLostPoint(pos)
		return Lost
	}
	cell := loc.Cell

	for crossings := 0; crossings < w.maxCrossings; crossings++ {
		distance, surface, err := w.geometry.CrossingDistance(cell, pos, dir)
		if errors.Is(err, geometry.ErrEscape) {
			return Escaped
		}

		w.stats.TrackLength[cell.ID()] += distance
		pos = core.NewRay(pos, dir).At(distance)
		w.stats.Crossings++

		switch surface.Boundary() {
		case geometry.Vacuum:
			return Leaked
		case geometry.Reflecting:
			w.stats.Reflections++
			dir = core.Unit(core.Reflect(dir, surface.Normal(pos)))
			continue
		}

		cell, err = w.geometry.NeighborAcross(surface, cell, pos)
		switch {
		case errors.Is(err, geometry.ErrEscape):
			return Escaped
		case err != nil:
			w.stats.addLostPoint(pos)
			return Lost
		}
	}
	return Truncated
}
