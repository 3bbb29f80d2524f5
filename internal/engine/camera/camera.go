// Package camera provides the orbit camera used to fly over the terrain.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// OrbitCamera orbits a target point on the terrain.
type OrbitCamera struct {
	Target math.Vec3

	Distance float32
	Pitch    float32 // Radians above the horizon
	Yaw      float32 // Radians around +Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FovY      float32 // Radians
	Near, Far float32
}

// NewOrbitCamera creates a camera with default limits.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        2000,
		Pitch:           0.6,
		MinDistance:     20,
		MaxDistance:     200000,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            gomath.Pi / 4,
		Near:            1,
		Far:             500000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	pitch, yaw := float64(c.Pitch), float64(c.Yaw)
	offset := math.Vec3{
		X: float32(gomath.Cos(pitch) * gomath.Sin(yaw)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Cos(pitch) * gomath.Cos(yaw)),
	}
	return c.Target.Add(offset.Scale(c.Distance))
}

// ViewMatrix returns the view matrix.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{Y: 1})
}

// ViewProj returns projection times view for a viewport of the given aspect.
func (c *OrbitCamera) ViewProj(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far).Mul(c.ViewMatrix())
}

// HandleDrag rotates the camera by a mouse drag in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves the camera closer for positive wheel steps.
func (c *OrbitCamera) HandleZoom(steps float32) {
	c.Distance = clamp(c.Distance-steps*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the target across the ground plane. forward and right
// are in [-1, 1]; speed scales with distance.
func (c *OrbitCamera) HandleMovement(forward, right, dt float32) {
	speed := c.Distance * dt
	sin, cos := float32(gomath.Sin(float64(c.Yaw))), float32(gomath.Cos(float64(c.Yaw)))

	// The camera looks along -offset, so forward is (-sin, -cos)
	c.Target.X += (-sin*forward + cos*right) * speed
	c.Target.Z += (-cos*forward - sin*right) * speed
}

// FitToTerrain centres the target on a square terrain of the given extent
// and backs off far enough to see all of it.
func (c *OrbitCamera) FitToTerrain(extent, minHeight, maxHeight float32) {
	c.Target = math.Vec3{X: extent / 2, Y: (minHeight + maxHeight) / 2, Z: extent / 2}
	c.Distance = clamp(extent, c.MinDistance, c.MaxDistance)
	c.Pitch = 0.6
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
