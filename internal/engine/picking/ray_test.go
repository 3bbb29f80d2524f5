package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-2
}

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(math.Vec3{X: 5, Y: -1, Z: 3}, math.Vec3{X: 1, Y: 2, Z: -3})
	if box.Min != (math.Vec3{X: 1, Y: -1, Z: -3}) || box.Max != (math.Vec3{X: 5, Y: 2, Z: 3}) {
		t.Errorf("unexpected box %+v", box)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{}, math.Vec3{X: 10, Y: 10, Z: 10})

	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		near    float32
		far     float32
	}{
		{"straight down", Ray{math.Vec3{X: 5, Y: 20, Z: 5}, math.Vec3{Y: -1}}, true, 10, 20},
		{"from inside", Ray{math.Vec3{X: 5, Y: 5, Z: 5}, math.Vec3{X: 1}}, true, 0, 5},
		{"pointing away", Ray{math.Vec3{X: 5, Y: 20, Z: 5}, math.Vec3{Y: 1}}, false, 0, 0},
		{"parallel outside", Ray{math.Vec3{X: -1, Y: 5, Z: 5}, math.Vec3{Z: 1}}, false, 0, 0},
		{"misses", Ray{math.Vec3{X: 20, Y: 20, Z: 5}, math.Vec3{Y: -1}}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			near, far, hit := tt.ray.IntersectAABB(box)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && (!approx(near, tt.near) || !approx(far, tt.far)) {
				t.Errorf("near/far = %f/%f, want %f/%f", near, far, tt.near, tt.far)
			}
		})
	}
}

func TestMarchHeight(t *testing.T) {
	// Ground rises along X: y = x / 2
	slope := func(x, _ float32) float32 { return x / 2 }
	inv := float32(1 / gomath.Sqrt2)
	r := Ray{Origin: math.Vec3{X: 0, Y: 10, Z: 0}, Direction: math.Vec3{X: inv, Y: -inv}}

	tHit, ok := r.MarchHeight(slope, 0, 50, 1)
	if !ok {
		t.Fatal("expected a hit")
	}
	// 10 - s = s / 2 at s = 20/3 along both axes
	p := r.At(tHit)
	if !approx(p.X, 20.0/3) || !approx(p.Y, 20.0/3/2) {
		t.Errorf("hit at %v, want x=%f", p, 20.0/3)
	}

	if _, ok := r.MarchHeight(func(float32, float32) float32 { return -100 }, 0, 50, 1); ok {
		t.Error("ray over deep ground should not hit")
	}
	if tHit, ok := r.MarchHeight(func(float32, float32) float32 { return 100 }, 3, 50, 1); !ok || tHit != 3 {
		t.Errorf("ray starting underground = %f/%v, want 3/true", tHit, ok)
	}
	if _, ok := r.MarchHeight(slope, 0, 50, 0); ok {
		t.Error("zero step should not march")
	}
}

func TestScreenToRay(t *testing.T) {
	view := math.LookAt(math.Vec3{Y: 100}, math.Vec3{}, math.Vec3{Z: -1})
	proj := math.Perspective(gomath.Pi/4, 1, 1, 1000)
	inv := proj.Mul(view).Inverse()

	// The centre of the screen looks straight down at the target
	r := ScreenToRay(50, 50, 100, 100, inv)
	if r.Direction.Y > -0.99 {
		t.Errorf("centre ray direction = %v, want straight down", r.Direction)
	}
	if !approx(r.Direction.Length(), 1) {
		t.Errorf("direction not normalised: %f", r.Direction.Length())
	}
	if x, z := r.At(100).X, r.At(100).Z; gomath.Abs(float64(x)) > 0.5 || gomath.Abs(float64(z)) > 0.5 {
		t.Errorf("centre ray reaches the ground at (%f, %f), want near the origin", x, z)
	}
}
