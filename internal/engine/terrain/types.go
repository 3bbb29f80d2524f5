// Package terrain builds continuous level-of-detail terrain tiles from a shared
// height field and drives their per-frame morph and texture-fade state.
package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// SkirtHeight is the height given to skirt vertices. It sits far below any
// plausible terrain so the skirt hides cracks between tiles of different depth.
const SkirtHeight float32 = -4096

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = 1 << 16

// Vertex represents a terrain tile vertex with all attributes.
type Vertex struct {
	Position       [3]float32
	Normal         [3]float32
	TexCoord       [2]float32
	ParentTexCoord [2]float32 // Only emitted when texture fading is enabled
}

// VertexFormat describes the interleaved layout uploaded to the buffer store.
type VertexFormat struct {
	ParentUV bool
}

// Stride returns the number of float32 values per vertex.
func (f VertexFormat) Stride() int {
	if f.ParentUV {
		return 10
	}
	return 8
}

// Interleave packs vertices into a flat float slice in the given format.
// Layout: position(3) normal(3) uv(2) [parent uv(2)].
func Interleave(vertices []Vertex, format VertexFormat) []float32 {
	stride := format.Stride()
	out := make([]float32, 0, len(vertices)*stride)
	for i := range vertices {
		v := &vertices[i]
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.TexCoord[:]...)
		if format.ParentUV {
			out = append(out, v.ParentTexCoord[:]...)
		}
	}
	return out
}

// Bounds holds the axis-aligned bounding box of a tile in tile-local space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns half the length of the box diagonal.
func (b Bounds) Radius() float32 {
	diag := math.Vec3{X: b.Max[0] - b.Min[0], Y: b.Max[1] - b.Min[1], Z: b.Max[2] - b.Min[2]}
	return diag.Length() / 2
}

// Quadrant identifies which quarter of its parent a tile covers.
// North is +Y in height-field space, east is +X.
type Quadrant int

const (
	QuadrantRoot Quadrant = iota // No parent
	QuadrantSW
	QuadrantSE
	QuadrantNW
	QuadrantNE
)

// String returns the compass name of the quadrant.
func (q Quadrant) String() string {
	switch q {
	case QuadrantSW:
		return "SW"
	case QuadrantSE:
		return "SE"
	case QuadrantNW:
		return "NW"
	case QuadrantNE:
		return "NE"
	default:
		return "root"
	}
}

// UVOffset returns the offset of this quadrant inside the parent's texture
// space. A child UV maps to the parent as uv/2 + offset.
func (q Quadrant) UVOffset() [2]float32 {
	switch q {
	case QuadrantSE:
		return [2]float32{0.5, 0}
	case QuadrantNW:
		return [2]float32{0, 0.5}
	case QuadrantNE:
		return [2]float32{0.5, 0.5}
	default:
		return [2]float32{0, 0}
	}
}

// QuadrantFor returns the quadrant of a child lying east and/or north of
// its parent's origin.
func QuadrantFor(east, north bool) Quadrant {
	switch {
	case east && north:
		return QuadrantNE
	case north:
		return QuadrantNW
	case east:
		return QuadrantSE
	default:
		return QuadrantSW
	}
}
