package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagMap       = flag.String("map", "", "Heightmap file (raw, bmp or png)")
	flagMapSize   = flag.Int("mapsize", 0, "Heightmap side length for raw files")
	flagSeed      = flag.Int64("seed", 0, "Terrain generator seed")
	flagWireframe = flag.Bool("wireframe", false, "Render the mesh as wireframe")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
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
	if *flagMap != "" {
		cfg.Terrain.MapFile = *flagMap
	}
	if *flagMapSize > 0 {
		cfg.Terrain.MapSize = *flagMapSize
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagWireframe {
		cfg.Graphics.Wireframe = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
