package geometry

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// unitBox returns a cell bounded by the planes x=±1, y=±1, z=±1
func unitBox(t *testing.T) (*Cell, []Surface) {
	t.Helper()
	planes := []Surface{
		mustSurface(t, "1", FamilyPlaneX, -1),
		mustSurface(t, "2", FamilyPlaneX, 1),
		mustSurface(t, "3", FamilyPlaneY, -1),
		mustSurface(t, "4", FamilyPlaneY, 1),
		mustSurface(t, "5", FamilyPlaneZ, -1),
		mustSurface(t, "6", FamilyPlaneZ, 1),
	}
	bounds := []Bound{
		{planes[0], Positive}, {planes[1], Negative},
		{planes[2], Positive}, {planes[3], Negative},
		{planes[4], Positive}, {planes[5], Negative},
	}
	cell, err := NewCell("box", bounds)
	if err != nil {
		t.Fatal(err)
	}
	return cell, planes
}

func TestCell_Contains(t *testing.T) {
	cell, planes := unitBox(t)

	if !cell.Contains(vec(0, 0, 0)) {
		t.Error("Expected origin inside the box")
	}
	if cell.Contains(vec(0, 2, 0)) {
		t.Error("Expected (0,2,0) outside the box")
	}
	// On x=-1 the plane function is 0, which is the negative sense
	if cell.Contains(vec(-1, 0, 0)) {
		t.Error("Expected the face x=-1 to be outside")
	}
	if !cell.ContainsSkipping(vec(-1, 0, 0), planes[0]) {
		t.Error("Expected the face x=-1 inside when skipping that plane")
	}
}

func TestCell_DistanceToBoundary(t *testing.T) {
	cell, planes := unitBox(t)

	tests := []struct {
		name     string
		pos, dir [3]float64
		distance float64
		exit     Surface
	}{
		{"toward +x", [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 1, planes[1]},
		{"toward -y", [3]float64{0, 0.5, 0}, [3]float64{0, -1, 0}, 1.5, planes[2]},
		{"diagonal", [3]float64{0, 0, 0}, [3]float64{0, 0.6, 0.8}, 1.25, planes[5]},
		{"from a face", [3]float64{-1, 0, 0}, [3]float64{1, 0, 0}, 2, planes[1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := vec(tt.pos[0], tt.pos[1], tt.pos[2])
			dir := vec(tt.dir[0], tt.dir[1], tt.dir[2])
			d, bound, ok := cell.DistanceToBoundary(pos, dir)
			if !ok {
				t.Fatal("Expected a boundary crossing")
			}
			if math.Abs(d-tt.distance) > 1e-12 {
				t.Errorf("Expected distance %f, got %f", tt.distance, d)
			}
			if bound.Surface != tt.exit {
				t.Errorf("Expected exit through %s, got %s", tt.exit.ID(), bound.Surface.ID())
			}
		})
	}
}

func TestCell_SenseOn(t *testing.T) {
	cell, planes := unitBox(t)
	if s, ok := cell.SenseOn(planes[1]); !ok || s != Negative {
		t.Errorf("Expected negative sense on surface 2, got %s (%t)", s, ok)
	}
	if _, ok := cell.SenseOn(mustSurface(t, "9", FamilySphereOrigin, 1)); ok {
		t.Error("Expected unrelated surface not to bound the cell")
	}
}

func TestCell_Empty(t *testing.T) {
	_, err := NewCell("empty", nil)
	if !errors.Is(err, ErrEmptyCell) {
		t.Errorf("Expected ErrEmptyCell, got %v", err)
	}
}

func TestCell_String(t *testing.T) {
	cell, _ := unitBox(t)
	if got := cell.String(); !strings.Contains(got, "cell = box ; surfaces = +1 -2 +3 -4 +5 -6") {
		t.Errorf("Unexpected description %q", got)
	}
}
