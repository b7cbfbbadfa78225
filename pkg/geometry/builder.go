package geometry

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// builder turns validated definitions into the surface/cell/universe graph
type builder struct {
	g *Geometry

	surfaceDefs map[SurfaceID]Surface
	cellDefs    map[CellID]CellDefinition
	members     map[UniverseID][]CellID
	order       []UniverseID // Universes in declaration order

	placed map[placement]Surface
}

// placement identifies a surface instance translated by an offset
type placement struct {
	id     SurfaceID
	offset r3.Vec
}

func newBuilder(g *Geometry) *builder {
	return &builder{
		g:           g,
		surfaceDefs: make(map[SurfaceID]Surface),
		cellDefs:    make(map[CellID]CellDefinition),
		members:     make(map[UniverseID][]CellID),
		placed:      make(map[placement]Surface),
	}
}

func (b *builder) build(defs Definitions) error {
	if err := b.buildSurfaces(defs.Surfaces); err != nil {
		return err
	}
	if err := b.collectCells(defs.Cells); err != nil {
		return err
	}
	if err := b.collectUniverses(defs.Universes, defs.Cells); err != nil {
		return err
	}
	if err := b.checkFills(); err != nil {
		return err
	}
	if err := b.checkCycles(); err != nil {
		return err
	}
	if len(b.members[BaseUniverse]) == 0 {
		return universeError(BaseUniverse, ErrMissingBase, "no cell belongs to the base universe")
	}

	b.g.base = b.instantiate(BaseUniverse, r3.Vec{}, -1)

	for _, id := range b.order {
		if _, ok := b.g.universeByID[id]; !ok {
			b.g.logger.Printf("Warning: universe %s is never placed in the base universe\n", id)
		}
	}
	return nil
}

func (b *builder) buildSurfaces(defs []SurfaceDefinition) error {
	if dup := lo.FindDuplicatesBy(defs, func(d SurfaceDefinition) SurfaceID { return d.ID }); len(dup) > 0 {
		return surfaceError(dup[0].ID, ErrDuplicateID, "")
	}
	for _, def := range defs {
		surface, err := NewSurface(def.ID, def.Family, def.Coefficients, def.Boundary)
		if err != nil {
			return err
		}
		b.surfaceDefs[def.ID] = surface
	}
	return nil
}

func (b *builder) collectCells(defs []CellDefinition) error {
	if dup := lo.FindDuplicatesBy(defs, func(d CellDefinition) CellID { return d.ID }); len(dup) > 0 {
		return cellError(dup[0].ID, ErrDuplicateID, "")
	}
	for _, def := range defs {
		if len(def.Surfaces) == 0 {
			return cellError(def.ID, ErrEmptyCell, "")
		}
		for _, ss := range def.Surfaces {
			if _, ok := b.surfaceDefs[ss.Surface]; !ok {
				return cellError(def.ID, ErrDanglingReference, "surface %s is not defined", ss.Surface)
			}
		}
		b.cellDefs[def.ID] = def
	}
	return nil
}

// collectUniverses assigns every cell to exactly one universe, keeping
// declaration order inside each universe
func (b *builder) collectUniverses(universes []UniverseDefinition, cells []CellDefinition) error {
	if dup := lo.FindDuplicatesBy(universes, func(d UniverseDefinition) UniverseID { return d.ID }); len(dup) > 0 {
		return universeError(dup[0].ID, ErrDuplicateID, "")
	}

	owner := make(map[CellID]UniverseID)
	add := func(u UniverseID, c CellID) {
		if _, ok := b.members[u]; !ok {
			b.order = append(b.order, u)
		}
		b.members[u] = append(b.members[u], c)
		owner[c] = u
	}

	for _, def := range universes {
		if _, ok := b.members[def.ID]; !ok {
			b.order = append(b.order, def.ID)
			b.members[def.ID] = nil
		}
		for _, c := range def.Cells {
			cell, ok := b.cellDefs[c]
			if !ok {
				return universeError(def.ID, ErrDanglingReference, "cell %s is not defined", c)
			}
			if prev, taken := owner[c]; taken {
				return cellError(c, ErrDuplicateID, "listed in universes %s and %s", prev, def.ID)
			}
			if cell.Universe != "" && cell.Universe != def.ID {
				return cellError(c, ErrDuplicateID, "declares universe %s but is listed in %s", cell.Universe, def.ID)
			}
			add(def.ID, c)
		}
	}

	for _, cell := range cells {
		if _, taken := owner[cell.ID]; taken {
			continue
		}
		u := cell.Universe
		if u == "" {
			u = BaseUniverse
		}
		add(u, cell.ID)
	}
	return nil
}

func (b *builder) checkFills() error {
	for _, u := range b.order {
		for _, c := range b.members[u] {
			def := b.cellDefs[c]
			if def.Fill == "" {
				continue
			}
			if _, ok := b.members[def.Fill]; !ok {
				return cellError(c, ErrDanglingReference, "fill universe %s is not defined", def.Fill)
			}
			if len(b.members[def.Fill]) == 0 {
				return cellError(c, ErrDanglingReference, "fill universe %s has no cells", def.Fill)
			}
			if def.Fill == BaseUniverse {
				return cellError(c, ErrCyclicFill, "the base universe cannot fill a cell")
			}
			if !core.IsFinite(def.Translation) {
				return cellError(c, ErrBadCoefficients, "translation is not finite")
			}
		}
	}
	return nil
}

// checkCycles walks the fill graph with three-colour DFS. White nodes are
// unvisited, gray ones are on the current path, black ones fully explored;
// reaching a gray node closes a cycle.
func (b *builder) checkCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[UniverseID]int)
	var path []UniverseID

	var visit func(id UniverseID) error
	visit = func(id UniverseID) error {
		switch color[id] {
		case black:
			return nil
		case gray:
			start := lo.IndexOf(path, id)
			chain := append(append([]UniverseID(nil), path[start:]...), id)
			names := lo.Map(chain, func(u UniverseID, _ int) string { return string(u) })
			return universeError(id, ErrCyclicFill, "%s", strings.Join(names, " -> "))
		}

		color[id] = gray
		path = append(path, id)
		for _, c := range b.members[id] {
			if fill := b.cellDefs[c].Fill; fill != "" {
				if err := visit(fill); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	ids := append([]UniverseID(nil), b.order...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// instantiate creates an instance of universe id translated by offset and
// filling the cell in slot parent
func (b *builder) instantiate(id UniverseID, offset r3.Vec, parent int) *Universe {
	u := NewUniverse(id)
	u.parent = parent
	b.g.addUniverse(u)

	for _, cid := range b.members[id] {
		def := b.cellDefs[cid]

		bounds := make([]Bound, len(def.Surfaces))
		for i, ss := range def.Surfaces {
			bounds[i] = Bound{Surface: b.place(ss.Surface, offset), Sense: ss.Sense}
		}

		// Definitions were validated, bounds are never empty here
		cell, _ := NewCell(cid, bounds)
		b.g.addCell(cell)
		u.AddCell(cell)

		if def.Fill != "" {
			cell.fill = b.instantiate(def.Fill, r3.Add(offset, def.Translation), cell.index)
		}
	}
	return u
}

// place returns the instance of surface id translated by offset, cloning
// it through Transformate the first time the placement is seen
func (b *builder) place(id SurfaceID, offset r3.Vec) Surface {
	key := placement{id: id, offset: offset}
	if surface, ok := b.placed[key]; ok {
		return surface
	}

	surface := b.surfaceDefs[id]
	if offset != (r3.Vec{}) {
		surface = surface.Transformate(offset)
	}
	b.placed[key] = surface
	b.g.surfaces = append(b.g.surfaces, surface)
	return surface
}
