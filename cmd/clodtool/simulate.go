package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// frameSample is the state of the tile below the camera after one frame.
type frameSample struct {
	Frame    int
	Time     float32
	Height   float32
	Depth    int
	Morph    float32
	Fade     float32
	FadePass bool
}

// simulateCmd descends onto a point and traces the tile below the camera.
func simulateCmd(ctx *cli.Context) error {
	fps := ctx.Int("fps")
	if fps <= 0 {
		return exitErr(fmt.Errorf("fps must be positive, got %d", fps))
	}
	h, err := newHeadless(ctx)
	if err != nil {
		return exitErr(err)
	}
	defer h.close()

	x, z := h.point(ctx)
	ground := h.ground(x, z)
	from, to := float32(ctx.Float64("from")), float32(ctx.Float64("to"))
	duration := float32(ctx.Float64("duration"))
	dt := 1 / float32(fps)
	frames := int(duration*float32(fps)) + 1
	every := max(ctx.Int("every"), 1)

	var samples []frameSample
	for f := range frames {
		t := float32(f) * dt
		height := descend(from, to, t, duration)
		if err := h.tree.Update(dt, math.Vec3{X: x, Y: ground + height, Z: z}); err != nil {
			return exitErr(err)
		}
		if f%every != 0 && f != frames-1 {
			continue
		}
		tile := h.tree.LeafAt(x, z)
		samples = append(samples, frameSample{
			Frame:    f,
			Time:     t,
			Height:   height,
			Depth:    tile.Depth(),
			Morph:    tile.MorphFactor(),
			Fade:     tile.FadeFactor(),
			FadePass: tile.HasFadePass(),
		})
	}

	fmt.Printf("descending onto (%.1f, %.1f) from %.0f to %.0f over %.1fs\n\n", x, z, from, to, duration)
	fmt.Print(sampleTable(samples))
	s := h.tree.Stats()
	fmt.Printf("\n%d splits, %d merges, %d visible tiles\n", s.Splits, s.Merges, s.Leaves)
	return nil
}

// descend interpolates the camera height linearly from from to to.
func descend(from, to, t, duration float32) float32 {
	if duration <= 0 || t >= duration {
		return to
	}
	if t <= 0 {
		return from
	}
	return from + (to-from)*t/duration
}

func sampleTable(samples []frameSample) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Time", "Height", "Depth", "Morph", "Fade", "Fade pass"})
	for _, s := range samples {
		table.Append([]string{
			fmt.Sprintf("%d", s.Frame),
			fmt.Sprintf("%.2fs", s.Time),
			fmt.Sprintf("%.1f", s.Height),
			fmt.Sprintf("%d", s.Depth),
			fmt.Sprintf("%.3f", s.Morph),
			fmt.Sprintf("%.3f", s.Fade),
			fmt.Sprintf("%t", s.FadePass),
		})
	}
	table.Render()
	return buf.String()
}
