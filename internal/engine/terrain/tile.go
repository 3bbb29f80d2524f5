package terrain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// TileParams describes one quadtree node's tile.
type TileParams struct {
	Width         int      // Vertices per side, > 1
	Depth         int      // Quadtree level, 0 is the root
	SegmentSize   float32  // Fraction of the height field spanned, (0, 1]
	OriginX       float32  // Normalised origin inside the height field
	OriginY       float32  // Normalised origin inside the height field
	Quadrant      Quadrant // Position inside the parent
	ParentTexture string   // Texture of the parent node, empty if none
}

// Tile is the renderable geometry of one quadtree node together with its
// morph and fade state. Geometry is built once; level-of-detail changes only
// touch the factors and the fade pass.
type Tile struct {
	params TileParams
	cfg    *config.TerrainConfig
	region region
	store  BufferStore
	host   RenderHost

	bounds     Bounds
	minHeight  float32
	maxHeight  float32
	separation float32
	format     VertexFormat
	morphing   bool

	vertices *SharedBuffer
	indices  BufferHandle
	deltas   BufferHandle

	lod   LODState
	fade  FadePassManager
	built bool
}

// NewTile builds a tile's geometry from hf, uploads it to store and attaches
// it to host. An invalid configuration yields an error and no tile; buffers
// allocated before the failure are released.
func NewTile(hf HeightField, p TileParams, cfg *config.TerrainConfig, store BufferStore, host RenderHost) (*Tile, error) {
	if cfg == nil || store == nil || host == nil {
		return nil, fmt.Errorf("%w: tile needs a config, a buffer store and a host", ErrInvariantViolation)
	}
	if p.Depth < 0 || p.Depth > cfg.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d outside [0, %d]", ErrInvariantViolation, p.Depth, cfg.MaxDepth)
	}

	bp := BuildParams{
		Width:       p.Width,
		SegmentSize: p.SegmentSize,
		OriginX:     p.OriginX,
		OriginY:     p.OriginY,
		Skirts:      cfg.Skirts,
		ParentUV:    cfg.TextureFadingEnabled,
		Quadrant:    p.Quadrant,
		RootSpacing: cfg.VertexSpacing,
	}

	morphing := cfg.MorphingEnabled && p.Depth < cfg.MaxDepth
	region, mesh, deltas, err := buildGeometry(hf, bp, morphing)
	if err != nil {
		return nil, fmt.Errorf("building tile at depth %d: %w", p.Depth, err)
	}

	t := &Tile{
		params:     p,
		cfg:        cfg,
		region:     region,
		store:      store,
		host:       host,
		bounds:     mesh.Bounds,
		minHeight:  mesh.MinHeight,
		maxHeight:  mesh.MaxHeight,
		separation: mesh.Separation,
		format:     mesh.Format,
		morphing:   morphing,
		lod:        NewLODState(p.Depth),
	}
	t.fade = NewFadePassManager(host, p.Depth, cfg.MaxDepth, cfg.TextureFadingEnabled, morphing, p.ParentTexture)

	if err := t.upload(mesh, deltas); err != nil {
		t.releaseBuffers()
		return nil, err
	}

	binding := Binding{
		Vertices:   t.vertices.Handle(),
		Indices:    t.indices,
		Deltas:     t.deltas,
		Format:     t.format,
		IndexCount: len(mesh.Indices),
		Morph:      t.morphing,
	}
	if err := host.Attach(binding, t); err != nil {
		t.releaseBuffers()
		return nil, fmt.Errorf("attaching tile: %w", err)
	}
	t.built = true

	logger.Debug("tile built",
		zap.Int("depth", p.Depth),
		zap.Stringer("quadrant", p.Quadrant),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("indices", len(mesh.Indices)),
		zap.Float32("min_height", t.minHeight),
		zap.Float32("max_height", t.maxHeight),
		zap.Bool("morph", t.morphing),
	)

	return t, nil
}

// upload hands vertices, indices and, when morphing, deltas to the store.
func (t *Tile) upload(mesh *Mesh, deltas []float32) error {
	vh, err := t.store.AllocVertices(Interleave(mesh.Vertices, mesh.Format), mesh.Format.Stride())
	if err != nil {
		return fmt.Errorf("allocating vertex buffer: %w", err)
	}
	t.vertices = NewSharedBuffer(t.store, vh)

	if t.indices, err = t.store.AllocIndices(mesh.Indices); err != nil {
		return fmt.Errorf("allocating index buffer: %w", err)
	}

	if !t.morphing {
		return nil
	}
	if len(deltas) != len(mesh.Vertices) {
		return fmt.Errorf("%w: %d deltas for %d vertices", ErrInvariantViolation, len(deltas), len(mesh.Vertices))
	}
	if t.deltas, err = t.store.AllocDeltas(deltas); err != nil {
		return fmt.Errorf("allocating delta buffer: %w", err)
	}
	return nil
}

// Update advances the morph and fade factors for this frame and adds or
// removes the fade pass accordingly.
func (t *Tile) Update(elapsed, camDist, unsplitDist, morphStartDist float32) error {
	if !t.built {
		return fmt.Errorf("%w: updating a destroyed tile", ErrInvariantViolation)
	}
	t.lod.Update(elapsed, camDist, unsplitDist, morphStartDist, t.cfg.MorphSpeed, t.cfg.FadeSpeed)
	return t.fade.Sync(t.lod.FadeFactor())
}

// JustSplit marks the tile as freshly split in. Both factors jump to 1 and
// bleed off over the following frames.
func (t *Tile) JustSplit() error {
	if !t.built {
		return fmt.Errorf("%w: splitting into a destroyed tile", ErrInvariantViolation)
	}
	t.lod.JustSplit()
	return t.fade.OnSplit()
}

// SetTextureFading switches the fade pass logic on or off. An attached pass
// is still removed once the fade factor reaches zero.
func (t *Tile) SetTextureFading(enabled bool) {
	t.fade.SetEnabled(enabled)
}

// MorphFactor returns the current geometry morph weight.
func (t *Tile) MorphFactor() float32 { return t.lod.MorphFactor() }

// FadeFactor returns the current texture fade weight.
func (t *Tile) FadeFactor() float32 { return t.lod.FadeFactor() }

// HasFadePass reports whether the blend pass is attached.
func (t *Tile) HasFadePass() bool { return t.fade.HasPass() }

// Depth returns the quadtree depth.
func (t *Tile) Depth() int { return t.params.Depth }

// Params returns the parameters the tile was built with.
func (t *Tile) Params() TileParams { return t.params }

// Morphing reports whether the tile carries a delta buffer.
func (t *Tile) Morphing() bool { return t.morphing }

// Bounds returns the tile-local bounding box.
func (t *Tile) Bounds() Bounds { return t.bounds }

// Center returns the centre of the bounding box.
func (t *Tile) Center() math.Vec3 { return t.bounds.Center() }

// BoundingRadius returns the radius of the sphere enclosing the bounds.
func (t *Tile) BoundingRadius() float32 { return t.bounds.Radius() }

// HeightRange returns the lowest and highest non-skirt vertex height.
func (t *Tile) HeightRange() (min, max float32) { return t.minHeight, t.maxHeight }

// Separation returns the world distance between neighbouring vertices.
func (t *Tile) Separation() float32 { return t.separation }

// VertexCount returns the number of vertices including skirts.
func (t *Tile) VertexCount() int { return VertexCount(t.params.Width, t.cfg.Skirts) }

// IndexCount returns the number of triangle indices.
func (t *Tile) IndexCount() int { return IndexCount(t.params.Width, t.cfg.Skirts) }

// WorldOrigin returns where the host should place the tile's local origin.
func (t *Tile) WorldOrigin() math.Vec3 {
	return tileOrigin(t.params, t.cfg)
}

func tileOrigin(p TileParams, cfg *config.TerrainConfig) math.Vec3 {
	rootExtent := float32(p.Width-1) * cfg.VertexSpacing
	return math.Vec3{X: p.OriginX * rootExtent, Z: p.OriginY * rootExtent}
}

// VertexHeightAt returns the height field height under tile vertex x, y.
func (t *Tile) VertexHeightAt(x, y int) float32 {
	if l, ok := t.region.hf.(ReadLocker); ok {
		l.RLock()
		defer l.RUnlock()
	}
	return t.region.height(x, y)
}

// VertexPositionAt returns the tile-local position of vertex x, y.
func (t *Tile) VertexPositionAt(x, y int) math.Vec3 {
	return math.Vec3{
		X: float32(x) * t.separation,
		Y: t.VertexHeightAt(x, y),
		Z: float32(y) * t.separation,
	}
}

// ShareVertices returns an extra reference to the vertex buffer. The caller
// must Release it; the buffer survives until every holder has done so.
func (t *Tile) ShareVertices() (*SharedBuffer, error) {
	if !t.built {
		return nil, fmt.Errorf("%w: tile destroyed", ErrInvariantViolation)
	}
	return t.vertices.Retain()
}

// Destroy detaches the tile and releases its buffers. Calling it again is a no-op.
func (t *Tile) Destroy() error {
	if !t.built {
		return nil
	}
	t.built = false

	var errs []error
	if t.fade.HasPass() {
		errs = append(errs, t.fade.RemovePass())
	}
	t.host.Detach()
	errs = append(errs, t.releaseBuffers())
	return errors.Join(errs...)
}

func (t *Tile) releaseBuffers() error {
	var err error
	if t.deltas != 0 {
		t.store.Release(t.deltas)
		t.deltas = 0
	}
	if t.indices != 0 {
		t.store.Release(t.indices)
		t.indices = 0
	}
	if t.vertices != nil {
		err = t.vertices.Release()
		t.vertices = nil
	}
	return err
}
