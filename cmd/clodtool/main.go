// Package main is clodtool, a headless driver for the terrain quadtree.
package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "clodtool"
	app.Usage = "build and inspect continuous level of detail terrain without a window"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "config file, defaults to the standard locations",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "height field noise seed",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: -1,
			Usage: "override the maximum quadtree depth",
		},
		cli.IntFlag{
			Name:  "tile-width",
			Usage: "override the vertices per tile side (2^n+1)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "refine the quadtree around a point and report tiles per depth",
			Description: `
Generate a height field, hold a camera above the given point for a number of
frames and print how many tiles, vertices and indices each depth ends up with.
The tree splits one level per frame, so frames should exceed the max depth.`,
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "x", Value: -1, Usage: "world x of the camera, defaults to the centre"},
				cli.Float64Flag{Name: "z", Value: -1, Usage: "world z of the camera, defaults to the centre"},
				cli.Float64Flag{Name: "height", Value: 100, Usage: "camera height above the ground"},
				cli.IntFlag{Name: "frames", Value: 16, Usage: "frames to hold the camera still"},
			},
			Action: buildCmd,
		},
		{
			Name:  "simulate",
			Usage: "descend onto a point and trace the morph and fade factors",
			Description: `
Move the camera straight down onto a point at a constant rate and print, per
sampled frame, the depth of the tile below it and its morph and fade state.`,
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "x", Value: -1, Usage: "world x of the point, defaults to the centre"},
				cli.Float64Flag{Name: "z", Value: -1, Usage: "world z of the point, defaults to the centre"},
				cli.Float64Flag{Name: "from", Value: 8000, Usage: "starting height above the ground"},
				cli.Float64Flag{Name: "to", Value: 50, Usage: "final height above the ground"},
				cli.Float64Flag{Name: "duration", Value: 10, Usage: "seconds to descend"},
				cli.IntFlag{Name: "fps", Value: 60, Usage: "simulated frames per second"},
				cli.IntFlag{Name: "every", Value: 30, Usage: "print every nth frame"},
			},
			Action: simulateCmd,
		},
		{
			Name:  "bench",
			Usage: "build every tile of every depth in parallel",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "jobs, j", Value: 4, Usage: "tiles built at once"},
			},
			Action: benchCmd,
		},
		{
			Name:   "config",
			Usage:  "print the effective configuration as YAML",
			Action: configCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
