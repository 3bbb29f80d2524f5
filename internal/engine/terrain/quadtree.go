package terrain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// HostFactory creates the render host of a new tile. texture names the
// tile's own texture and origin is where the tile sits in world space.
type HostFactory func(p TileParams, texture string, origin math.Vec3) RenderHost

// DepthStats summarises the visible tiles at one quadtree depth.
type DepthStats struct {
	Depth      int
	Tiles      int
	Vertices   int
	Indices    int
	Morphing   int // Tiles with a non-zero morph factor
	FadePasses int
}

// Stats summarises the quadtree after the last update.
type Stats struct {
	Nodes      int
	Leaves     int
	FadePasses int
	Splits     int // Since creation
	Merges     int // Since creation
	Depths     []DepthStats
}

// Quadtree drives tile creation and level of detail over one height field.
// Only leaves own tiles: splitting builds four children and drops the
// parent's tile, merging rebuilds it. A Quadtree is not safe for concurrent
// use; the height field may be edited from other goroutines.
type Quadtree struct {
	hf         HeightField
	cfg        *config.TerrainConfig
	store      BufferStore
	hosts      HostFactory
	rootExtent float32
	root       *node
	log        *zap.Logger

	splits int
	merges int
}

type node struct {
	depth    int
	ix, iy   int     // Position among the nodes of this depth
	originX  float32 // Normalised
	originY  float32
	size     float32 // Normalised edge length
	quadrant Quadrant
	texture  string
	parent   string // Parent texture, empty at the root
	center   math.Vec3

	tile     *Tile
	children *[4]*node
}

func (n *node) leaf() bool { return n.children == nil }

// NewQuadtree validates cfg against hf and builds the root tile.
func NewQuadtree(hf HeightField, cfg *config.TerrainConfig, store BufferStore, hosts HostFactory) (*Quadtree, error) {
	if hf == nil || cfg == nil || store == nil || hosts == nil {
		return nil, fmt.Errorf("%w: quadtree needs a height field, config, store and host factory", ErrInvariantViolation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	finest := (cfg.TileWidth - 1) << cfg.MaxDepth
	if cells := hf.Width() - 1; cells < finest || cells%finest != 0 {
		return nil, fmt.Errorf("%w: %d-wide height field cannot be tiled %d levels deep with %d-vertex tiles",
			ErrInvariantViolation, hf.Width(), cfg.MaxDepth, cfg.TileWidth)
	}

	q := &Quadtree{
		hf:         hf,
		cfg:        cfg,
		store:      store,
		hosts:      hosts,
		rootExtent: float32(cfg.TileWidth-1) * cfg.VertexSpacing,
		log:        logger.Named("quadtree"),
	}

	root := &node{size: 1, quadrant: QuadrantRoot, texture: TextureName(0, 0, 0)}
	if err := q.build(root); err != nil {
		return nil, err
	}
	q.root = root

	q.log.Info("quadtree ready",
		zap.Int("height_field", hf.Width()),
		zap.Int("tile_width", cfg.TileWidth),
		zap.Int("max_depth", cfg.MaxDepth),
		zap.Float32("extent", q.rootExtent),
	)
	return q, nil
}

// TextureName names the texture of the node at column ix, row iy of a depth.
func TextureName(depth, ix, iy int) string {
	return fmt.Sprintf("terrain/%d/%d/%d", depth, ix, iy)
}

// RootExtent returns the world edge length of the whole terrain.
func (q *Quadtree) RootExtent() float32 { return q.rootExtent }

// build creates the tile of n.
func (q *Quadtree) build(n *node) error {
	p := TileParams{
		Width:         q.cfg.TileWidth,
		Depth:         n.depth,
		SegmentSize:   n.size,
		OriginX:       n.originX,
		OriginY:       n.originY,
		Quadrant:      n.quadrant,
		ParentTexture: n.parent,
	}
	origin := tileOrigin(p, q.cfg)

	tile, err := NewTile(q.hf, p, q.cfg, q.store, q.hosts(p, n.texture, origin))
	if err != nil {
		return err
	}
	n.tile = tile
	n.center = origin.Add(tile.Center())
	return nil
}

// Update splits, merges and advances every visible tile for one frame.
func (q *Quadtree) Update(elapsed float32, camera math.Vec3) error {
	rootDist := camera.Distance(q.root.center)
	return q.visit(q.root, elapsed, camera, rootDist, q.unsplitDistance(q.root))
}

func (q *Quadtree) splitDistance(n *node) float32 {
	return q.cfg.SplitRatio * n.size * q.rootExtent
}

func (q *Quadtree) unsplitDistance(n *node) float32 {
	return q.cfg.UnsplitRatio * n.size * q.rootExtent
}

// visit handles n. Leaves morph towards their parent, so they are driven by
// the parent's distance and unsplit distance; siblings then always agree.
func (q *Quadtree) visit(n *node, elapsed float32, camera math.Vec3, parentDist, parentUnsplit float32) error {
	dist := camera.Distance(n.center)

	if n.leaf() {
		if n.depth < q.cfg.MaxDepth && dist < q.splitDistance(n) {
			return q.split(n, dist)
		}
		return n.tile.Update(elapsed, parentDist, parentUnsplit, q.cfg.MorphStartRatio*parentUnsplit)
	}

	if dist > q.unsplitDistance(n) {
		if err := q.merge(n); err != nil {
			return err
		}
		return n.tile.Update(elapsed, parentDist, parentUnsplit, q.cfg.MorphStartRatio*parentUnsplit)
	}

	unsplit := q.unsplitDistance(n)
	for _, c := range n.children {
		if err := q.visit(c, elapsed, camera, dist, unsplit); err != nil {
			return err
		}
	}
	return nil
}

// split replaces n's tile with four children. On failure n keeps its tile.
func (q *Quadtree) split(n *node, dist float32) error {
	half := n.size / 2
	var children [4]*node

	for i := range children {
		east, north := i&1 == 1, i&2 == 2
		c := &node{
			depth:    n.depth + 1,
			ix:       2 * n.ix,
			iy:       2 * n.iy,
			originX:  n.originX,
			originY:  n.originY,
			size:     half,
			quadrant: QuadrantFor(east, north),
			parent:   n.texture,
		}
		if east {
			c.ix++
			c.originX += half
		}
		if north {
			c.iy++
			c.originY += half
		}
		c.texture = TextureName(c.depth, c.ix, c.iy)

		if err := q.build(c); err != nil {
			errs := []error{fmt.Errorf("splitting %s: %w", n.texture, err)}
			for _, built := range children[:i] {
				if derr := built.tile.Destroy(); derr != nil {
					errs = append(errs, fmt.Errorf("rolling back %s: %w", built.texture, derr))
				}
			}
			return errors.Join(errs...)
		}
		children[i] = c
	}

	if err := n.tile.Destroy(); err != nil {
		q.log.Warn("destroying split tile", zap.String("node", n.texture), zap.Error(err))
	}
	n.tile = nil
	n.children = &children
	q.splits++

	// Fresh children start fully morphed into n and ease in from there
	unsplit := q.unsplitDistance(n)
	for _, c := range children {
		if err := c.tile.JustSplit(); err != nil {
			return err
		}
		if err := c.tile.Update(0, dist, unsplit, q.cfg.MorphStartRatio*unsplit); err != nil {
			return err
		}
	}

	q.log.Debug("split", zap.String("node", n.texture), zap.Int("depth", n.depth), zap.Float32("distance", dist))
	return nil
}

// merge rebuilds n's tile and drops its whole subtree.
func (q *Quadtree) merge(n *node) error {
	if err := q.build(n); err != nil {
		return fmt.Errorf("merging %s: %w", n.texture, err)
	}

	var errs []error
	for _, c := range n.children {
		errs = append(errs, q.destroySubtree(c))
	}
	n.children = nil
	q.merges++

	q.log.Debug("merge", zap.String("node", n.texture), zap.Int("depth", n.depth))
	return errors.Join(errs...)
}

func (q *Quadtree) destroySubtree(n *node) error {
	if n.leaf() {
		err := n.tile.Destroy()
		n.tile = nil
		return err
	}
	var errs []error
	for _, c := range n.children {
		errs = append(errs, q.destroySubtree(c))
	}
	n.children = nil
	return errors.Join(errs...)
}

// Tiles returns the visible tiles, depth first from the south-west.
func (q *Quadtree) Tiles() []*Tile {
	var tiles []*Tile
	q.walk(q.root, func(n *node) {
		if n.leaf() {
			tiles = append(tiles, n.tile)
		}
	})
	return tiles
}

// LeafAt returns the visible tile covering world position x, z, or nil when
// the position lies outside the terrain.
func (q *Quadtree) LeafAt(x, z float32) *Tile {
	u, v := x/q.rootExtent, z/q.rootExtent
	if u < 0 || v < 0 || u > 1 || v > 1 {
		return nil
	}
	n := q.root
	for !n.leaf() {
		half := n.size / 2
		i := 0
		if u >= n.originX+half {
			i |= 1
		}
		if v >= n.originY+half {
			i |= 2
		}
		n = n.children[i]
	}
	return n.tile
}

// Stats walks the tree and reports tile counts per depth.
func (q *Quadtree) Stats() Stats {
	s := Stats{
		Splits: q.splits,
		Merges: q.merges,
		Depths: make([]DepthStats, q.cfg.MaxDepth+1),
	}
	for d := range s.Depths {
		s.Depths[d].Depth = d
	}

	q.walk(q.root, func(n *node) {
		s.Nodes++
		if !n.leaf() {
			return
		}
		s.Leaves++
		ds := &s.Depths[n.depth]
		ds.Tiles++
		ds.Vertices += n.tile.VertexCount()
		ds.Indices += n.tile.IndexCount()
		if n.tile.Morphing() && n.tile.MorphFactor() > 0 {
			ds.Morphing++
		}
		if n.tile.HasFadePass() {
			ds.FadePasses++
			s.FadePasses++
		}
	})
	return s
}

func (q *Quadtree) walk(n *node, fn func(*node)) {
	fn(n)
	if n.leaf() {
		return
	}
	for _, c := range n.children {
		q.walk(c, fn)
	}
}

// Destroy releases every tile. The quadtree must not be used afterwards.
func (q *Quadtree) Destroy() error {
	if q.root == nil {
		return nil
	}
	err := q.destroySubtree(q.root)
	q.root = nil
	return err
}
