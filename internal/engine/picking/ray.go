// Package picking casts rays from the screen into the terrain.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Ray is a half line with a normalised direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// ScreenToRay converts pixel coordinates to a world-space ray. invViewProj
// is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Screen Y grows downwards

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(invViewProj math.Mat4, ndc math.Vec4) math.Vec3 {
	p := invViewProj.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB returns the entry and exit distances of the ray through box.
// A ray starting inside the box enters at zero.
func (r Ray) IntersectAABB(box AABB) (near, far float32, hit bool) {
	near, far = 0, float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := range 3 {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		near = max(near, t1)
		far = min(far, t2)
		if far < near {
			return 0, 0, false
		}
	}
	return near, far, true
}

// HeightFunc returns the surface height below world position x, z.
type HeightFunc func(x, z float32) float32

// bisections refines a surface crossing found by marching.
const bisections = 16

// MarchHeight walks the ray from tStart to tEnd in steps of step and returns
// the distance at which it first reaches the surface.
func (r Ray) MarchHeight(height HeightFunc, tStart, tEnd, step float32) (float32, bool) {
	if step <= 0 || tEnd < tStart {
		return 0, false
	}
	above := func(t float32) bool {
		p := r.At(t)
		return p.Y > height(p.X, p.Z)
	}

	if !above(tStart) {
		return tStart, true
	}
	prev := tStart
	for t := tStart + step; ; t += step {
		t = min(t, tEnd)
		if !above(t) {
			lo, hi := prev, t
			for range bisections {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return hi, true
		}
		if t >= tEnd {
			return 0, false
		}
		prev = t
	}
}
