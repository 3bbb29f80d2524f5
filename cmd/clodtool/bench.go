package main

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// depthTiming accumulates the build cost of one depth.
type depthTiming struct {
	tiles    int
	vertices int
	indices  int
	elapsed  time.Duration
}

// benchCmd builds the full tile pyramid, every node of every depth, with a
// bounded number of tiles in flight. Tiles only read the height field, so
// they can be built concurrently into the shared store.
func benchCmd(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return exitErr(err)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return exitErr(err)
	}
	grid, err := generateGrid(&cfg.Terrain, ctx.GlobalInt64("seed"))
	if err != nil {
		return exitErr(err)
	}

	store := terrain.NewMemoryStore(0)
	params := pyramid(&cfg.Terrain)
	timings := make([]depthTiming, cfg.Terrain.MaxDepth+1)
	var mu sync.Mutex

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(max(ctx.Int("jobs"), 1))
	for _, p := range params {
		g.Go(func() error {
			began := time.Now()
			tile, err := terrain.NewTile(grid, p, &cfg.Terrain, store, terrain.NewHeadlessHost())
			if err != nil {
				return fmt.Errorf("tile at depth %d origin (%.3f, %.3f): %w", p.Depth, p.OriginX, p.OriginY, err)
			}
			took := time.Since(began)

			mu.Lock()
			d := &timings[p.Depth]
			d.tiles++
			d.vertices += tile.VertexCount()
			d.indices += tile.IndexCount()
			d.elapsed += took
			mu.Unlock()

			return tile.Destroy()
		})
	}
	if err := g.Wait(); err != nil {
		return exitErr(err)
	}
	wall := time.Since(start)

	fmt.Printf("built %d tiles in %s\n\n", len(params), wall.Round(time.Microsecond))
	fmt.Print(timingTable(timings))
	return nil
}

// pyramid lists the tile parameters of every quadtree node down to the
// configured max depth, coarsest first.
func pyramid(cfg *config.TerrainConfig) []terrain.TileParams {
	var params []terrain.TileParams
	for depth := 0; depth <= cfg.MaxDepth; depth++ {
		n := 1 << depth
		size := 1 / float32(n)
		for iy := range n {
			for ix := range n {
				p := terrain.TileParams{
					Width:       cfg.TileWidth,
					Depth:       depth,
					SegmentSize: size,
					OriginX:     float32(ix) * size,
					OriginY:     float32(iy) * size,
					Quadrant:    terrain.QuadrantRoot,
				}
				if depth > 0 {
					p.Quadrant = terrain.QuadrantFor(ix&1 == 1, iy&1 == 1)
					p.ParentTexture = terrain.TextureName(depth-1, ix/2, iy/2)
				}
				params = append(params, p)
			}
		}
	}
	return params
}

func timingTable(timings []depthTiming) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Depth", "Tiles", "Vertices", "Indices", "Build time", "Per tile"})

	var total time.Duration
	for depth, t := range timings {
		perTile := time.Duration(0)
		if t.tiles > 0 {
			perTile = t.elapsed / time.Duration(t.tiles)
		}
		table.Append([]string{
			strconv.Itoa(depth),
			strconv.Itoa(t.tiles),
			strconv.Itoa(t.vertices),
			strconv.Itoa(t.indices),
			t.elapsed.Round(time.Microsecond).String(),
			perTile.Round(time.Microsecond).String(),
		})
		total += t.elapsed
	}
	table.SetFooter([]string{"", "", "", "TOTAL", total.Round(time.Microsecond).String(), ""})
	table.Render()
	return buf.String()
}
