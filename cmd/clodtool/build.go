package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// buildCmd refines the tree around a fixed camera and prints per-depth stats.
func buildCmd(ctx *cli.Context) error {
	h, err := newHeadless(ctx)
	if err != nil {
		return exitErr(err)
	}
	defer h.close()

	x, z := h.point(ctx)
	cam := math.Vec3{X: x, Y: h.ground(x, z) + float32(ctx.Float64("height")), Z: z}
	for range ctx.Int("frames") {
		if err := h.tree.Update(frameTime, cam); err != nil {
			return exitErr(err)
		}
	}

	fmt.Printf("camera at (%.1f, %.1f, %.1f) over a %.0f unit terrain\n\n", cam.X, cam.Y, cam.Z, h.tree.RootExtent())
	fmt.Print(depthTable(h.tree.Stats()))
	fmt.Printf("\n%d buffers, %d elements in memory\n", h.store.Live(), h.store.Used())
	return nil
}

// depthTable renders quadtree stats with one row per depth.
func depthTable(s terrain.Stats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Depth", "Tiles", "Vertices", "Indices", "Morphing", "Fading"})

	var tiles, vertices, indices, morphing int
	for _, d := range s.Depths {
		table.Append([]string{
			strconv.Itoa(d.Depth),
			strconv.Itoa(d.Tiles),
			strconv.Itoa(d.Vertices),
			strconv.Itoa(d.Indices),
			strconv.Itoa(d.Morphing),
			strconv.Itoa(d.FadePasses),
		})
		tiles += d.Tiles
		vertices += d.Vertices
		indices += d.Indices
		morphing += d.Morphing
	}
	table.SetFooter([]string{"Total", strconv.Itoa(tiles), strconv.Itoa(vertices), strconv.Itoa(indices),
		strconv.Itoa(morphing), strconv.Itoa(s.FadePasses)})

	table.Render()
	return buf.String()
}
