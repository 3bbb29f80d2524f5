package main

import (
	"fmt"

	"github.com/urfave/cli"
)

// configCmd prints the configuration the other commands would run with.
func configCmd(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return exitErr(err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return exitErr(err)
	}
	fmt.Print(string(data))
	return nil
}
