package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagDepth      = flag.Int("depth", -1, "Maximum quadtree depth")
	flagTileWidth  = flag.Int("tile-width", 0, "Vertices per tile side (2^n+1)")
	flagNoMorph    = flag.Bool("no-morph", false, "Disable geomorphing")
	flagNoFade     = flag.Bool("no-fade", false, "Disable texture fading")
	flagNoSkirts   = flag.Bool("no-skirts", false, "Disable tile skirts")
	flagWireframe  = flag.Bool("wireframe", false, "Render in wireframe")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth >= 0 {
		cfg.Terrain.MaxDepth = *flagDepth
	}
	if *flagTileWidth > 0 {
		cfg.Terrain.TileWidth = *flagTileWidth
	}
	if *flagNoMorph {
		cfg.Terrain.MorphingEnabled = false
	}
	if *flagNoFade {
		cfg.Terrain.TextureFadingEnabled = false
	}
	if *flagNoSkirts {
		cfg.Terrain.Skirts = false
	}
	if *flagWireframe {
		cfg.Window.Wireframe = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
}
