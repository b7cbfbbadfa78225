package tracking

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/core"
)

// Source emits particles uniformly inside a box with isotropic directions
type Source struct {
	Box core.AABB
}

// Sample draws a starting position and unit direction
func (s Source) Sample(sampler core.Sampler) (r3.Vec, r3.Vec) {
	pos := s.Box.Lerp(sampler.Get3D())
	u, v := sampler.Get2D()
	return pos, core.SampleOnUnitSphere(u, v)
}
