package terrain

import (
	"errors"
	gomath "math"
	"sync"
	"testing"
)

func TestNewGridInvalid(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		heights []float32
		spacing float32
	}{
		{"too narrow", 1, []float32{0}, 1},
		{"wrong length", 3, make([]float32, 8), 1},
		{"zero spacing", 2, make([]float32, 4), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.width, tt.heights, tt.spacing); !errors.Is(err, ErrInvariantViolation) {
				t.Errorf("expected ErrInvariantViolation, got %v", err)
			}
		})
	}
}

func TestGridClampsCoordinates(t *testing.T) {
	g := rampGrid(t, 4)

	tests := []struct {
		x, y int
		want float32
	}{
		{0, 0, 0},
		{3, 3, 33},
		{-5, 0, 0},
		{10, 1, 13},
		{2, -1, 2},
		{1, 99, 31},
	}

	for _, tt := range tests {
		if got := g.HeightAt(tt.x, tt.y); got != tt.want {
			t.Errorf("HeightAt(%d, %d) = %f, want %f", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestGridNormals(t *testing.T) {
	// Height rises by one spacing per sample along X: a 45 degree slope
	width := 5
	heights := make([]float32, width*width)
	for y := range width {
		for x := range width {
			heights[y*width+x] = float32(x) * 2
		}
	}
	g, err := NewGrid(width, heights, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	inv := float32(1 / gomath.Sqrt2)
	n := [3]float32{g.NormalAt(2, 2, 0), g.NormalAt(2, 2, 1), g.NormalAt(2, 2, 2)}
	want := [3]float32{-inv, inv, 0}
	for i := range n {
		if gomath.Abs(float64(n[i]-want[i])) > 1e-5 {
			t.Errorf("normal = %v, want %v", n, want)
			break
		}
	}
}

func TestSetHeightRefreshesNormals(t *testing.T) {
	g := flatGrid(t, 5)
	g.SetHeight(2, 2, 10)

	if g.HeightAt(2, 2) != 10 {
		t.Fatalf("height not updated")
	}
	// Neighbour to the west now leans away from the bump
	if g.NormalAt(1, 2, 0) >= 0 {
		t.Errorf("expected negative X normal west of the bump, got %f", g.NormalAt(1, 2, 0))
	}
	if g.NormalAt(3, 2, 0) <= 0 {
		t.Errorf("expected positive X normal east of the bump, got %f", g.NormalAt(3, 2, 0))
	}
	// Outside the 3x3 neighbourhood nothing changes
	if g.NormalAt(0, 0, 1) != 1 {
		t.Errorf("far normal changed: %f", g.NormalAt(0, 0, 1))
	}
}

func TestHeightRange(t *testing.T) {
	g := rampGrid(t, 3)
	min, max := g.HeightRange()
	if min != 0 || max != 22 {
		t.Errorf("HeightRange = [%f, %f], want [0, 22]", min, max)
	}
}

func TestSampleHeight(t *testing.T) {
	g := rampGrid(t, 9)

	tests := []struct {
		fx, fy float32
		want   float32
	}{
		{0, 0, 0},
		{1.5, 2.5, 26.5},
		{7.25, 0, 7.25},
		{8, 8, 88},
		{-3, -3, 0},
		{100, 100, 88},
	}

	for _, tt := range tests {
		got := SampleHeight(g, tt.fx, tt.fy)
		if gomath.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("SampleHeight(%f, %f) = %f, want %f", tt.fx, tt.fy, got, tt.want)
		}
	}
}

// Builds hold the read lock, so concurrent edits never tear a tile.
func TestConcurrentEditAndBuild(t *testing.T) {
	g := flatGrid(t, 33)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			g.SetHeight(i%33, (i/33)%33, float32(i))
		}
	}()
	go func() {
		defer wg.Done()
		for range 20 {
			if _, err := BuildMesh(g, BuildParams{Width: 17, SegmentSize: 1, Skirts: true, RootSpacing: 1}); err != nil {
				t.Errorf("BuildMesh failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestNoiseGridDeterministic(t *testing.T) {
	p := DefaultNoiseParams(1234)
	a, err := NewNoiseGrid(33, 1, p)
	if err != nil {
		t.Fatalf("NewNoiseGrid failed: %v", err)
	}
	b, err := NewNoiseGrid(33, 1, p)
	if err != nil {
		t.Fatalf("NewNoiseGrid failed: %v", err)
	}
	c, err := NewNoiseGrid(33, 1, DefaultNoiseParams(4321))
	if err != nil {
		t.Fatalf("NewNoiseGrid failed: %v", err)
	}

	differs := false
	for y := range 33 {
		for x := range 33 {
			ha := a.HeightAt(x, y)
			if ha != b.HeightAt(x, y) {
				t.Fatalf("same seed gave different heights at (%d,%d)", x, y)
			}
			if ha < 0 || ha > p.Amplitude {
				t.Fatalf("height %f at (%d,%d) outside [0, %f]", ha, x, y, p.Amplitude)
			}
			if ha != c.HeightAt(x, y) {
				differs = true
			}
		}
	}
	if !differs {
		t.Error("different seeds gave identical terrain")
	}

	min, max := a.HeightRange()
	if max-min < 1 {
		t.Errorf("noise terrain is flat: [%f, %f]", min, max)
	}
}

func TestNoiseGridInvalid(t *testing.T) {
	if _, err := NewNoiseGrid(1, 1, DefaultNoiseParams(0)); err == nil {
		t.Error("expected error for width 1")
	}
}
