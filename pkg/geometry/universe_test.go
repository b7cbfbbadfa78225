package geometry

import (
	"errors"
	"testing"
)

func TestUniverse_FindCell(t *testing.T) {
	sphere := mustSurface(t, "1", FamilySphereOrigin, 1)
	inner, _ := NewCell("inner", []Bound{{sphere, Negative}})

	u := NewUniverse("3")
	u.AddCell(inner)

	cell, err := u.FindCell(vec(0.5, 0, 0))
	if err != nil || cell != inner {
		t.Fatalf("Expected inner cell, got %v (%v)", cell, err)
	}

	_, err = u.FindCell(vec(2, 0, 0))
	if !errors.Is(err, ErrLostParticle) {
		t.Fatalf("Expected ErrLostParticle, got %v", err)
	}
	var lost *LostParticleError
	if !errors.As(err, &lost) || lost.Universe != "3" || lost.Point != vec(2, 0, 0) {
		t.Errorf("Unexpected lost particle error %#v", err)
	}
}

func TestUniverse_DeclarationOrderWins(t *testing.T) {
	sphere := mustSurface(t, "1", FamilySphereOrigin, 1)
	first, _ := NewCell("first", []Bound{{sphere, Negative}})
	second, _ := NewCell("second", []Bound{{sphere, Negative}})

	u := NewUniverse("0")
	u.AddCell(first)
	u.AddCell(second)

	for i := 0; i < 3; i++ {
		cell, err := u.FindCell(vec(0, 0, 0))
		if err != nil || cell != first {
			t.Fatalf("Expected the first declared cell, got %v (%v)", cell, err)
		}
	}
}

func TestUniverse_FindCellDescendsIntoFill(t *testing.T) {
	outer := mustSurface(t, "1", FamilySphereOrigin, 5)
	inner := mustSurface(t, "2", FamilySphereOrigin, 1)

	nested := NewUniverse("1")
	core, _ := NewCell("core", []Bound{{inner, Negative}})
	shell, _ := NewCell("shell", []Bound{{inner, Positive}})
	nested.AddCell(core)
	nested.AddCell(shell)

	container, _ := NewCell("container", []Bound{{outer, Negative}})
	container.fill = nested

	base := NewUniverse(BaseUniverse)
	base.AddCell(container)

	cell, err := base.FindCell(vec(0, 0.5, 0))
	if err != nil || cell != core {
		t.Errorf("Expected core, got %v (%v)", cell, err)
	}
	cell, err = base.FindCell(vec(0, 3, 0))
	if err != nil || cell != shell {
		t.Errorf("Expected shell, got %v (%v)", cell, err)
	}
	if _, err := base.FindCell(vec(0, 6, 0)); !errors.Is(err, ErrLostParticle) {
		t.Errorf("Expected ErrLostParticle outside the container, got %v", err)
	}
}
