package main

import (
	"github.com/urfave/cli"

	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// setupLogging sends warnings to the console unless -v or -vv ask for more.
func setupLogging(ctx *cli.Context) error {
	level := "warn"
	if ctx.GlobalBool("v") {
		level = "info"
	}
	if ctx.GlobalBool("vv") {
		level = "debug"
	}
	return logger.Init(level, "")
}
