package viewer

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// pickTerrain returns the first point where ray meets the surface of hf,
// which spans extent world units along X and Z.
func pickTerrain(ray picking.Ray, hf *terrain.Grid, extent float32) (math.Vec3, bool) {
	minH, maxH := hf.HeightRange()
	box := picking.NewAABB(math.Vec3{Y: minH}, math.Vec3{X: extent, Y: maxH, Z: extent})
	near, far, ok := ray.IntersectAABB(box)
	if !ok {
		return math.Vec3{}, false
	}

	scale := float32(hf.Width()-1) / extent
	height := func(x, z float32) float32 {
		return terrain.SampleHeight(hf, x*scale, z*scale)
	}
	// Half a sample per step cannot jump over a ridge between samples
	t, ok := ray.MarchHeight(height, near, far, 0.5/scale)
	if !ok {
		return math.Vec3{}, false
	}
	return ray.At(t), true
}
