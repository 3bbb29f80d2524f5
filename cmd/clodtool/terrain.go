package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const frameTime = float32(1.0 / 60)

// loadConfig reads the config file and applies the global overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if d := ctx.GlobalInt("depth"); d >= 0 {
		cfg.Terrain.MaxDepth = d
	}
	if w := ctx.GlobalInt("tile-width"); w > 0 {
		cfg.Terrain.TileWidth = w
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// headless is a quadtree over generated terrain with in-memory buffers.
type headless struct {
	cfg   *config.Config
	grid  *terrain.Grid
	store *terrain.MemoryStore
	tree  *terrain.Quadtree
}

func newHeadless(ctx *cli.Context) (*headless, error) {
	if err := setupLogging(ctx); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	grid, err := generateGrid(&cfg.Terrain, ctx.GlobalInt64("seed"))
	if err != nil {
		return nil, err
	}

	h := &headless{cfg: cfg, grid: grid, store: terrain.NewMemoryStore(0)}
	hosts := func(terrain.TileParams, string, math.Vec3) terrain.RenderHost {
		return terrain.NewHeadlessHost()
	}
	if h.tree, err = terrain.NewQuadtree(grid, &cfg.Terrain, h.store, hosts); err != nil {
		return nil, err
	}
	return h, nil
}

func generateGrid(cfg *config.TerrainConfig, seed int64) (*terrain.Grid, error) {
	spacing := cfg.VertexSpacing / float32(int(1)<<cfg.MaxDepth)
	grid, err := terrain.NewNoiseGrid(cfg.HeightFieldWidth(), spacing, terrain.DefaultNoiseParams(seed))
	if err != nil {
		return nil, fmt.Errorf("generating height field: %w", err)
	}
	return grid, nil
}

// point resolves x and z flags, where negative means the terrain centre.
// Points beyond the terrain are pulled back onto its edge.
func (h *headless) point(ctx *cli.Context) (x, z float32) {
	extent := h.tree.RootExtent()
	x, z = float32(ctx.Float64("x")), float32(ctx.Float64("z"))
	if x < 0 {
		x = extent / 2
	}
	if z < 0 {
		z = extent / 2
	}
	return min(x, extent), min(z, extent)
}

// ground returns the terrain height below world position x, z.
func (h *headless) ground(x, z float32) float32 {
	scale := float32(h.grid.Width()-1) / h.tree.RootExtent()
	return terrain.SampleHeight(h.grid, x*scale, z*scale)
}

func (h *headless) close() {
	if err := h.tree.Destroy(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}
}

func exitErr(err error) error {
	return cli.NewExitError(fmt.Sprintf("error: %v", err), 1)
}
