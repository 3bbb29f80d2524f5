package terrain

import (
	"fmt"
	"sync"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// HeightField provides sampled heights and normals on a square vertex grid.
// Tiles reference a height field; they never own or copy it.
type HeightField interface {
	// Width returns the number of vertices per side.
	Width() int
	// HeightAt returns the height at integer grid coordinates.
	HeightAt(x, y int) float32
	// NormalAt returns one component (0=X, 1=Y, 2=Z) of the normal at x, y.
	NormalAt(x, y, axis int) float32
}

// ReadLocker is implemented by height fields that can be mutated while tiles
// are built. The builder holds the read lock for the whole build.
type ReadLocker interface {
	RLock()
	RUnlock()
}

// Grid is an in-memory height field. Normals are derived from central
// differences and kept current by SetHeight.
type Grid struct {
	mu      sync.RWMutex
	width   int
	spacing float32
	heights []float32
	normals [][3]float32
}

// NewGrid creates a grid from row-major heights (index y*width+x).
// Spacing is the horizontal distance between samples, used for normals.
func NewGrid(width int, heights []float32, spacing float32) (*Grid, error) {
	if width < 2 {
		return nil, fmt.Errorf("%w: grid width %d < 2", ErrInvariantViolation, width)
	}
	if len(heights) != width*width {
		return nil, fmt.Errorf("%w: %d heights for a %dx%d grid", ErrInvariantViolation, len(heights), width, width)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: grid spacing %v", ErrInvariantViolation, spacing)
	}

	g := &Grid{
		width:   width,
		spacing: spacing,
		heights: append([]float32(nil), heights...),
		normals: make([][3]float32, width*width),
	}
	for y := range width {
		for x := range width {
			g.normals[y*width+x] = g.computeNormal(x, y)
		}
	}
	return g, nil
}

// NewFlatGrid creates a grid of the given width with every height at zero.
func NewFlatGrid(width int, spacing float32) (*Grid, error) {
	return NewGrid(width, make([]float32, width*width), spacing)
}

// Width returns the number of vertices per side.
func (g *Grid) Width() int {
	return g.width
}

// HeightAt returns the height at x, y. Coordinates are clamped to the grid.
func (g *Grid) HeightAt(x, y int) float32 {
	return g.heights[g.index(x, y)]
}

// NormalAt returns a component of the normal at x, y.
func (g *Grid) NormalAt(x, y, axis int) float32 {
	return g.normals[g.index(x, y)][axis]
}

// RLock acquires the grid's read lock.
func (g *Grid) RLock() { g.mu.RLock() }

// RUnlock releases the grid's read lock.
func (g *Grid) RUnlock() { g.mu.RUnlock() }

// SetHeight changes one sample and refreshes the normals around it.
// Tiles built before the call keep their geometry.
func (g *Grid) SetHeight(x, y int, h float32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.heights[g.index(x, y)] = h
	for ny := y - 1; ny <= y+1; ny++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if nx < 0 || ny < 0 || nx >= g.width || ny >= g.width {
				continue
			}
			g.normals[ny*g.width+nx] = g.computeNormal(nx, ny)
		}
	}
}

// HeightRange returns the minimum and maximum height in the grid.
func (g *Grid) HeightRange() (min, max float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	min, max = g.heights[0], g.heights[0]
	for _, h := range g.heights {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

func (g *Grid) index(x, y int) int {
	x = clampi(x, 0, g.width-1)
	y = clampi(y, 0, g.width-1)
	return y*g.width + x
}

func (g *Grid) computeNormal(x, y int) [3]float32 {
	// Central differences, one-sided at the borders
	dx := g.heights[g.index(x+1, y)] - g.heights[g.index(x-1, y)]
	dy := g.heights[g.index(x, y+1)] - g.heights[g.index(x, y-1)]
	n := math.Vec3{X: -dx, Y: 2 * g.spacing, Z: -dy}.Normalize()
	return [3]float32{n.X, n.Y, n.Z}
}

// SampleHeight returns the bilinearly interpolated height at fractional grid
// coordinates. Coordinates outside the grid are clamped to its edge.
func SampleHeight(hf HeightField, fx, fy float32) float32 {
	w := hf.Width()
	if w < 2 {
		return 0
	}

	cellX := int(fx)
	cellY := int(fy)
	if cellX < 0 {
		cellX = 0
	}
	if cellY < 0 {
		cellY = 0
	}
	if cellX >= w-1 {
		cellX = w - 2
	}
	if cellY >= w-1 {
		cellY = w - 2
	}

	fracX := clampf(fx-float32(cellX), 0, 1)
	fracY := clampf(fy-float32(cellY), 0, 1)

	// South edge (lower Y) then north edge, then lerp between them
	south := hf.HeightAt(cellX, cellY)*(1-fracX) + hf.HeightAt(cellX+1, cellY)*fracX
	north := hf.HeightAt(cellX, cellY+1)*(1-fracX) + hf.HeightAt(cellX+1, cellY+1)*fracX
	return south*(1-fracY) + north*fracY
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
