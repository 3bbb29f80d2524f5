// Package config handles terrain engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned for configurations the terrain cannot run with.
var ErrConfiguration = errors.New("invalid configuration")

// Config holds all settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the process-wide terrain settings. It is read-only
// while a frame is being processed.
type TerrainConfig struct {
	MorphingEnabled      bool    `yaml:"morphing_enabled"`
	TextureFadingEnabled bool    `yaml:"texture_fading_enabled"`
	MaxDepth             int     `yaml:"max_depth"`   // Depth of the finest tiles, root is 0
	MorphSpeed           float32 `yaml:"morph_speed"` // Seconds for a split boost to bleed off
	FadeSpeed            float32 `yaml:"fade_speed"`  // Seconds for a fade boost to bleed off

	TileWidth     int     `yaml:"tile_width"`     // Vertices per tile side, 2^n+1
	Skirts        bool    `yaml:"skirts"`         // Hide cracks with skirt geometry
	VertexSpacing float32 `yaml:"vertex_spacing"` // World units between root tile vertices

	// Distances are multiples of a node's world size.
	SplitRatio      float32 `yaml:"split_ratio"`
	UnsplitRatio    float32 `yaml:"unsplit_ratio"`
	MorphStartRatio float32 `yaml:"morph_start_ratio"` // Fraction of the unsplit distance
}

// WindowConfig holds display settings for the viewer.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			MorphingEnabled:      true,
			TextureFadingEnabled: true,
			MaxDepth:             4,
			MorphSpeed:           1.0,
			FadeSpeed:            1.0,
			TileWidth:            33,
			Skirts:               true,
			VertexSpacing:        64,
			SplitRatio:           1.5,
			UnsplitRatio:         2.0,
			MorphStartRatio:      0.75,
		},
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the terrain settings. Errors wrap ErrConfiguration.
func (c *TerrainConfig) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d < 0", ErrConfiguration, c.MaxDepth)
	case !(c.MorphSpeed > 0):
		return fmt.Errorf("%w: morph_speed must be positive, got %v", ErrConfiguration, c.MorphSpeed)
	case !(c.FadeSpeed > 0):
		return fmt.Errorf("%w: fade_speed must be positive, got %v", ErrConfiguration, c.FadeSpeed)
	case c.TileWidth < 3 || (c.TileWidth-1)&(c.TileWidth-2) != 0:
		return fmt.Errorf("%w: tile_width %d is not 2^n+1", ErrConfiguration, c.TileWidth)
	case !(c.VertexSpacing > 0):
		return fmt.Errorf("%w: vertex_spacing must be positive, got %v", ErrConfiguration, c.VertexSpacing)
	case !(c.SplitRatio > 0):
		return fmt.Errorf("%w: split_ratio must be positive, got %v", ErrConfiguration, c.SplitRatio)
	case !(c.UnsplitRatio > c.SplitRatio):
		return fmt.Errorf("%w: unsplit_ratio %v must exceed split_ratio %v", ErrConfiguration, c.UnsplitRatio, c.SplitRatio)
	case !(c.MorphStartRatio > 0 && c.MorphStartRatio < 1):
		return fmt.Errorf("%w: morph_start_ratio %v outside (0, 1)", ErrConfiguration, c.MorphStartRatio)
	}
	return nil
}

// HeightFieldWidth returns the height field width that gives the finest
// tiles one sample per vertex.
func (c *TerrainConfig) HeightFieldWidth() int {
	return (c.TileWidth-1)<<c.MaxDepth + 1
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Terrain.Validate(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrConfiguration, c.Window.Width, c.Window.Height)
	}
	return nil
}
