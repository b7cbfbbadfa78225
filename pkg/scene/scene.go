package scene

import (
	"github.com/mohamed3ma/helios/pkg/core"
	"github.com/mohamed3ma/helios/pkg/geometry"
)

// Scene is a named geometry problem ready to be built and tracked
type Scene struct {
	Info        SceneInfo
	Definitions geometry.Definitions
	Source      core.AABB // Region where source particles are born
}

// DefaultSource is used for definition files that declare no source region
var DefaultSource = core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))

// Build constructs the geometry of the scene
func (s *Scene) Build(logger core.Logger) (*geometry.Geometry, error) {
	return geometry.New(s.Definitions, logger)
}
