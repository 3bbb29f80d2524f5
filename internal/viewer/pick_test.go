package viewer

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func plateau(t *testing.T) *terrain.Grid {
	t.Helper()
	// 9x9 samples over 256 units, a raised 3x3 block in the middle
	heights := make([]float32, 81)
	for y := 3; y <= 5; y++ {
		for x := 3; x <= 5; x++ {
			heights[y*9+x] = 50
		}
	}
	g, err := terrain.NewGrid(9, heights, 32)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	return g
}

func TestPickTerrain(t *testing.T) {
	g := plateau(t)
	down := math.Vec3{Y: -1}

	tests := []struct {
		name   string
		ray    picking.Ray
		wantOK bool
		wantY  float32
	}{
		{"flat ground", picking.Ray{Origin: math.Vec3{X: 16, Y: 500, Z: 16}, Direction: down}, true, 0},
		{"plateau top", picking.Ray{Origin: math.Vec3{X: 128, Y: 500, Z: 128}, Direction: down}, true, 50},
		{"off the terrain", picking.Ray{Origin: math.Vec3{X: -10, Y: 500, Z: 16}, Direction: down}, false, 0},
		{"looking up", picking.Ray{Origin: math.Vec3{X: 16, Y: 500, Z: 16}, Direction: math.Vec3{Y: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := pickTerrain(tt.ray, g, 256)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && gomath.Abs(float64(p.Y-tt.wantY)) > 0.01 {
				t.Errorf("picked %v, want height %f", p, tt.wantY)
			}
		})
	}
}

// A shallow ray hits the side of the plateau before reaching the ground
func TestPickTerrainHitsNearestSurface(t *testing.T) {
	g := plateau(t)
	dir := math.Vec3{X: 1, Y: -0.1}.Normalize()
	ray := picking.Ray{Origin: math.Vec3{X: 0, Y: 30, Z: 128}, Direction: dir}

	p, ok := pickTerrain(ray, g, 256)
	if !ok {
		t.Fatal("expected a hit")
	}
	// Without the plateau the ray would land at x = 300, past the terrain
	if p.X > 128 {
		t.Errorf("hit at %v, expected the plateau's western slope", p)
	}
}
