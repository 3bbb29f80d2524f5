package terrain

import (
	"fmt"
	gomath "math"
)

// BuildParams describes the part of a height field a tile covers.
type BuildParams struct {
	Width       int      // Vertices per side of the tile, > 1
	SegmentSize float32  // Fraction of the height field spanned along one axis, (0, 1]
	OriginX     float32  // Normalised offset of the tile origin, [0, 1]
	OriginY     float32  // Normalised offset of the tile origin, [0, 1]
	Skirts      bool     // Add a ring of skirt vertices
	ParentUV    bool     // Emit a second UV set into the parent's texture space
	Quadrant    Quadrant // Position inside the parent, selects the parent UV offset
	RootSpacing float32  // World distance between vertices of the root tile
}

// Mesh holds the complete tile geometry ready for upload.
type Mesh struct {
	Vertices   []Vertex
	Indices    []uint16
	Format     VertexFormat
	Bounds     Bounds
	MinHeight  float32
	MaxHeight  float32
	Separation float32 // World distance between neighbouring tile vertices
}

// region maps tile vertex coordinates onto height field samples.
type region struct {
	hf         HeightField
	offX, offY int
	step       int
}

func (r region) height(x, y int) float32 {
	return r.hf.HeightAt(r.offX+x*r.step, r.offY+y*r.step)
}

func (r region) normal(x, y, axis int) float32 {
	return r.hf.NormalAt(r.offX+x*r.step, r.offY+y*r.step, axis)
}

// skirtPad returns the number of extra vertices on each side.
func skirtPad(skirts bool) int {
	if skirts {
		return 1
	}
	return 0
}

// VertexCount returns the number of vertices of a tile.
func VertexCount(width int, skirts bool) int {
	vw := width + 2*skirtPad(skirts)
	return vw * vw
}

// IndexCount returns the number of indices of a tile.
func IndexCount(width int, skirts bool) int {
	cells := width - 1 + 2*skirtPad(skirts)
	return 6 * cells * cells
}

// resolveRegion validates p against hf and returns the sampling region.
func resolveRegion(hf HeightField, p BuildParams) (region, error) {
	if hf == nil {
		return region{}, fmt.Errorf("%w: nil height field", ErrInvariantViolation)
	}
	if p.Width < 2 {
		return region{}, fmt.Errorf("%w: tile width %d < 2", ErrInvariantViolation, p.Width)
	}
	if !(p.SegmentSize > 0 && p.SegmentSize <= 1) {
		return region{}, fmt.Errorf("%w: segment size %v outside (0, 1]", ErrInvariantViolation, p.SegmentSize)
	}
	if p.OriginX < 0 || p.OriginX > 1 || p.OriginY < 0 || p.OriginY > 1 {
		return region{}, fmt.Errorf("%w: origin (%v, %v) outside [0, 1]", ErrInvariantViolation, p.OriginX, p.OriginY)
	}
	if !(p.RootSpacing > 0) {
		return region{}, fmt.Errorf("%w: root spacing %v", ErrInvariantViolation, p.RootSpacing)
	}
	if n := VertexCount(p.Width, p.Skirts); n > MaxVertices {
		return region{}, fmt.Errorf("%w: %d vertices exceed 16-bit indexing", ErrInvariantViolation, n)
	}

	cells := float64(hf.Width() - 1)
	span := float64(p.SegmentSize) * cells
	step, ok := integral(span / float64(p.Width-1))
	if !ok || step < 1 {
		return region{}, fmt.Errorf("%w: %d-vertex tile cannot sample %.3f height field cells", ErrInvariantViolation, p.Width, span)
	}
	offX, okX := integral(float64(p.OriginX) * cells)
	offY, okY := integral(float64(p.OriginY) * cells)
	if !okX || !okY {
		return region{}, fmt.Errorf("%w: origin (%v, %v) is not on a height field sample", ErrInvariantViolation, p.OriginX, p.OriginY)
	}
	last := (p.Width - 1) * step
	if offX+last > hf.Width()-1 || offY+last > hf.Width()-1 {
		return region{}, fmt.Errorf("%w: tile at (%d, %d) overruns %d-wide height field", ErrInvariantViolation, offX, offY, hf.Width())
	}

	return region{hf: hf, offX: offX, offY: offY, step: step}, nil
}

// integral rounds v and reports whether it was already (almost) an integer.
func integral(v float64) (int, bool) {
	r := gomath.Round(v)
	return int(r), gomath.Abs(v-r) < 1e-3
}

// BuildMesh creates the vertex and index data of one tile from a height field.
// Height fields implementing ReadLocker are read-locked for the whole build.
func BuildMesh(hf HeightField, p BuildParams) (*Mesh, error) {
	if l, ok := hf.(ReadLocker); ok {
		l.RLock()
		defer l.RUnlock()
	}

	r, err := resolveRegion(hf, p)
	if err != nil {
		return nil, err
	}
	return buildMesh(r, p), nil
}

// buildGeometry resolves the region and builds the mesh and, when morph is
// set, the morph deltas from one consistent view of the height field.
func buildGeometry(hf HeightField, p BuildParams, morph bool) (region, *Mesh, []float32, error) {
	if l, ok := hf.(ReadLocker); ok {
		l.RLock()
		defer l.RUnlock()
	}

	r, err := resolveRegion(hf, p)
	if err != nil {
		return region{}, nil, nil, err
	}
	mesh := buildMesh(r, p)

	var deltas []float32
	if morph {
		deltas = computeMorphDeltas(r, p.Width, p.Skirts, p.Quadrant)
	}
	return r, mesh, deltas, nil
}

func buildMesh(r region, p BuildParams) *Mesh {
	mesh := &Mesh{
		Format:     VertexFormat{ParentUV: p.ParentUV},
		Separation: p.SegmentSize * p.RootSpacing,
		MinHeight:  float32(gomath.Inf(1)),
		MaxHeight:  float32(gomath.Inf(-1)),
	}
	mesh.Vertices = buildVertices(r, p, mesh)
	mesh.Indices = buildIndices(p.Width, p.Skirts)

	extent := float32(p.Width-1) * mesh.Separation
	mesh.Bounds = Bounds{
		Min: [3]float32{0, mesh.MinHeight, 0},
		Max: [3]float32{extent, mesh.MaxHeight, extent},
	}
	return mesh
}

// buildVertices emits vertices row by row and tracks the interior height range.
func buildVertices(r region, p BuildParams, mesh *Mesh) []Vertex {
	start, end := 0, p.Width
	if p.Skirts {
		start--
		end++
	}

	last := p.Width - 1
	sep := mesh.Separation
	offset := p.Quadrant.UVOffset()
	vertices := make([]Vertex, 0, VertexCount(p.Width, p.Skirts))

	for y := start; y < end; y++ {
		for x := start; x < end; x++ {
			u := float32(x) / float32(last)
			v := float32(y) / float32(last)

			if x < 0 || y < 0 || x > last || y > last {
				// Skirt: clamped to the nearest edge and dropped far below
				vertices = append(vertices, Vertex{
					Position:       [3]float32{float32(clampi(x, 0, last)) * sep, SkirtHeight, float32(clampi(y, 0, last)) * sep},
					TexCoord:       [2]float32{u, v},
					ParentTexCoord: [2]float32{u, v},
				})
				continue
			}

			h := r.height(x, y)
			if h < mesh.MinHeight {
				mesh.MinHeight = h
			}
			if h > mesh.MaxHeight {
				mesh.MaxHeight = h
			}

			vertices = append(vertices, Vertex{
				Position:       [3]float32{float32(x) * sep, h, float32(y) * sep},
				Normal:         [3]float32{r.normal(x, y, 0), r.normal(x, y, 1), r.normal(x, y, 2)},
				TexCoord:       [2]float32{u, v},
				ParentTexCoord: [2]float32{u/2 + offset[0], v/2 + offset[1]},
			})
		}
	}

	return vertices
}

// buildIndices triangulates the (possibly skirt padded) cell grid.
func buildIndices(width int, skirts bool) []uint16 {
	cells := width - 1 + 2*skirtPad(skirts)
	stride := cells + 1

	indices := make([]uint16, 0, IndexCount(width, skirts))
	for cy := range cells {
		for cx := range cells {
			line1 := uint16(cy*stride + cx)
			line2 := uint16((cy+1)*stride + cx)
			indices = appendCell(indices, WindingFor(cx, cy), line1, line2)
		}
	}
	return indices
}
