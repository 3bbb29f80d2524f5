package main

import (
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func TestPyramid(t *testing.T) {
	cfg := config.Default().Terrain
	cfg.TileWidth = 5
	cfg.MaxDepth = 2

	params := pyramid(&cfg)
	if len(params) != 1+4+16 {
		t.Fatalf("expected 21 tiles, got %d", len(params))
	}

	root := params[0]
	if root.Depth != 0 || root.SegmentSize != 1 || root.Quadrant != terrain.QuadrantRoot || root.ParentTexture != "" {
		t.Errorf("unexpected root %+v", root)
	}

	tests := []struct {
		index        int
		wantOrigin   [2]float32
		wantQuadrant terrain.Quadrant
		wantParent   string
	}{
		{1, [2]float32{0, 0}, terrain.QuadrantSW, "terrain/0/0/0"},
		{2, [2]float32{0.5, 0}, terrain.QuadrantSE, "terrain/0/0/0"},
		{3, [2]float32{0, 0.5}, terrain.QuadrantNW, "terrain/0/0/0"},
		{4, [2]float32{0.5, 0.5}, terrain.QuadrantNE, "terrain/0/0/0"},
		// Depth 2 row 1, column 3
		{5 + 4 + 3, [2]float32{0.75, 0.25}, terrain.QuadrantNE, "terrain/1/1/0"},
	}
	for _, tt := range tests {
		p := params[tt.index]
		if p.OriginX != tt.wantOrigin[0] || p.OriginY != tt.wantOrigin[1] ||
			p.Quadrant != tt.wantQuadrant || p.ParentTexture != tt.wantParent {
			t.Errorf("params[%d] = %+v, want origin %v quadrant %s parent %s",
				tt.index, p, tt.wantOrigin, tt.wantQuadrant, tt.wantParent)
		}
	}

	for _, p := range params {
		if p.Width != 5 || p.SegmentSize != 1/float32(int(1)<<p.Depth) {
			t.Errorf("bad size for %+v", p)
		}
	}
}

func TestDescend(t *testing.T) {
	tests := []struct {
		t, duration float32
		want        float32
	}{
		{0, 10, 1000},
		{5, 10, 550},
		{10, 10, 100},
		{20, 10, 100},
		{-1, 10, 1000},
		{3, 0, 100},
	}
	for _, tt := range tests {
		if got := descend(1000, 100, tt.t, tt.duration); got != tt.want {
			t.Errorf("descend(1000, 100, %f, %f) = %f, want %f", tt.t, tt.duration, got, tt.want)
		}
	}
}

func TestDepthTable(t *testing.T) {
	s := terrain.Stats{
		Leaves:     5,
		FadePasses: 2,
		Depths: []terrain.DepthStats{
			{Depth: 0, Tiles: 1, Vertices: 49, Indices: 216},
			{Depth: 1, Tiles: 4, Vertices: 196, Indices: 864, Morphing: 4, FadePasses: 2},
		},
	}
	out := depthTable(s)
	for _, want := range []string{"Depth", "Morphing", "245", "1080"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTimingTable(t *testing.T) {
	out := timingTable([]depthTiming{
		{tiles: 1, vertices: 49, indices: 216, elapsed: 2 * time.Millisecond},
		{tiles: 4, vertices: 196, indices: 864, elapsed: 4 * time.Millisecond},
		{},
	})
	for _, want := range []string{"Per tile", "1ms", "6ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
