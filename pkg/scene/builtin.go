package scene

import (
	"fmt"

	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

const builtinGroup = "Built-in Scenes"

type builtin struct {
	info  SceneInfo
	build func() *Scene
}

var builtins []builtin

func init() {
	builtins = []builtin{
		{
			info: SceneInfo{
				ID:          "slab",
				Name:        "Slab",
				Description: "Three slabs along x between vacuum faces, reflecting sides",
			},
			build: NewSlabScene,
		},
		{
			info: SceneInfo{
				ID:          "sphere-shell",
				Name:        "Sphere Shell",
				Description: "Concentric spheres with a vacuum outer surface",
			},
			build: NewSphereShellScene,
		},
		{
			info: SceneInfo{
				ID:          "pin-lattice",
				Name:        "Pin Lattice",
				Description: "3x3 lattice of clad fuel pins placed by translated fills",
			},
			build: func() *Scene { return NewPinLatticeScene(3, 1.26, 0.41) },
		},
		{
			info: SceneInfo{
				ID:          "quadric",
				Name:        "Quadric",
				Description: "Double cone as a general quadric crossed by an off-axis rod",
			},
			build: NewQuadricScene,
		},
	}

	for i := range builtins {
		builtins[i].info.DisplayName = builtins[i].info.Name
		builtins[i].info.Group = builtinGroup
		builtins[i].info.Type = "builtin"
	}
}

// Builtin returns the built-in scene with the given id
func Builtin(id string) (*Scene, bool) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.build(), true
		}
	}
	return nil, false
}

// BuiltinScenes lists the built-in scenes in registration order
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		infos[i] = b.info
	}
	return infos
}

func builtinInfo(id string) SceneInfo {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.info
		}
	}
	return SceneInfo{ID: id, Name: id, DisplayName: id, Group: builtinGroup, Type: "builtin"}
}

func surface(id string, family geometry.Family, boundary geometry.Boundary, coeffs ...float64) geometry.SurfaceDefinition {
	return geometry.SurfaceDefinition{
		ID:           geometry.SurfaceID(id),
		Family:       family,
		Coefficients: coeffs,
		Boundary:     boundary,
	}
}

// cell builds a cell record from a surface list such as "-1 2"; the lists
// below are literals, so a parse failure is a programming error
func cell(id, surfaces string) geometry.CellDefinition {
	senses, err := geometry.ParseSurfaceSenses(surfaces)
	if err != nil {
		panic(err)
	}
	return geometry.CellDefinition{ID: geometry.CellID(id), Surfaces: senses}
}

// NewSlabScene creates three slabs stacked along x. The x faces are vacuum
// and the four sides reflect, so particles can only escape through x.
func NewSlabScene() *Scene {
	const side = 3.0
	sides := "+5 -6 +7 -8"

	return &Scene{
		Info: builtinInfo("slab"),
		Definitions: geometry.Definitions{
			Surfaces: []geometry.SurfaceDefinition{
				surface("1", geometry.FamilyPlaneX, geometry.Vacuum, -3),
				surface("2", geometry.FamilyPlaneX, geometry.Transmitting, -1),
				surface("3", geometry.FamilyPlaneX, geometry.Transmitting, 1),
				surface("4", geometry.FamilyPlaneX, geometry.Vacuum, 3),
				surface("5", geometry.FamilyPlaneY, geometry.Reflecting, -side),
				surface("6", geometry.FamilyPlaneY, geometry.Reflecting, side),
				surface("7", geometry.FamilyPlaneZ, geometry.Reflecting, -side),
				surface("8", geometry.FamilyPlaneZ, geometry.Reflecting, side),
			},
			Cells: []geometry.CellDefinition{
				cell("left", "+1 -2 "+sides),
				cell("middle", "+2 -3 "+sides),
				cell("right", "+3 -4 "+sides),
			},
		},
		Source: core.NewAABB(core.NewVec3(-1, -side, -side), core.NewVec3(1, side, side)),
	}
}

// NewSphereShellScene creates a core sphere inside two shells
func NewSphereShellScene() *Scene {
	return &Scene{
		Info: builtinInfo("sphere-shell"),
		Definitions: geometry.Definitions{
			Surfaces: []geometry.SurfaceDefinition{
				surface("1", geometry.FamilySphereOrigin, geometry.Transmitting, 1),
				surface("2", geometry.FamilySphereOrigin, geometry.Transmitting, 2),
				surface("3", geometry.FamilySphereOrigin, geometry.Vacuum, 3),
			},
			Cells: []geometry.CellDefinition{
				cell("core", "-1"),
				cell("inner-shell", "+1 -2"),
				cell("outer-shell", "+2 -3"),
			},
		},
		Source: core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)),
	}
}

// NewPinLatticeScene creates an n x n lattice of square pin cells of the
// given pitch, centred on the origin. Every lattice cell is filled with the
// same pin universe (fuel, clad and water) translated to the cell centre.
// The lattice is open in x and y and reflecting in z.
func NewPinLatticeScene(n int, pitch, radius float64) *Scene {
	half := float64(n) * pitch / 2
	height := 10 * pitch

	defs := geometry.Definitions{
		Surfaces: []geometry.SurfaceDefinition{
			surface("fuel", geometry.FamilyCylinderZ, geometry.Transmitting, radius),
			surface("clad", geometry.FamilyCylinderZ, geometry.Transmitting, radius*1.15),
			surface("bottom", geometry.FamilyPlaneZ, geometry.Reflecting, -height/2),
			surface("top", geometry.FamilyPlaneZ, geometry.Reflecting, height/2),
		},
	}

	for i := 0; i <= n; i++ {
		boundary := geometry.Transmitting
		if i == 0 || i == n {
			boundary = geometry.Vacuum
		}
		position := -half + float64(i)*pitch
		defs.Surfaces = append(defs.Surfaces,
			surface(fmt.Sprintf("x%d", i), geometry.FamilyPlaneX, boundary, position),
			surface(fmt.Sprintf("y%d", i), geometry.FamilyPlaneY, boundary, position),
		)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := cell(fmt.Sprintf("lattice-%d-%d", i, j),
				fmt.Sprintf("+x%d -x%d +y%d -y%d +bottom -top", i, i+1, j, j+1))
			c.Fill = "pin"
			c.Translation = core.NewVec3(-half+(float64(i)+0.5)*pitch, -half+(float64(j)+0.5)*pitch, 0)
			defs.Cells = append(defs.Cells, c)
		}
	}

	pin := []geometry.CellDefinition{
		cell("fuel", "-fuel"),
		cell("clad", "+fuel -clad"),
		cell("water", "+clad"),
	}
	for _, c := range pin {
		c.Universe = "pin"
		defs.Cells = append(defs.Cells, c)
	}

	return &Scene{
		Info:        builtinInfo("pin-lattice"),
		Definitions: defs,
		Source:      core.NewAABB(core.NewVec3(-half, -half, -height/2), core.NewVec3(half, half, height/2)),
	}
}

// NewQuadricScene creates the double cone x^2 + y^2 - z^2 = 0 split by the
// plane z = 0, crossed by a rod parallel to y, inside a vacuum sphere
func NewQuadricScene() *Scene {
	return &Scene{
		Info: builtinInfo("quadric"),
		Definitions: geometry.Definitions{
			Surfaces: []geometry.SurfaceDefinition{
				surface("1", geometry.FamilyGeneralQuadric, geometry.Transmitting, 1, 1, -1, 0, 0, 0, 0, 0, 0, 0),
				surface("2", geometry.FamilyPlaneZ, geometry.Transmitting, 0),
				surface("3", geometry.FamilySphereOrigin, geometry.Vacuum, 5),
				surface("4", geometry.FamilyCylinderOnY, geometry.Transmitting, 0.5, 3, 0),
			},
			Cells: []geometry.CellDefinition{
				cell("upper-cone", "-1 +2 -3"),
				cell("lower-cone", "-1 -2 -3"),
				cell("rod", "+1 -4 -3"),
				cell("outside", "+1 +4 -3"),
			},
		},
		Source: core.NewAABB(core.NewVec3(-2.8, -2.8, -2.8), core.NewVec3(2.8, 2.8, 2.8)),
	}
}
