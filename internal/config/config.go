// Package config handles viewer and engine configuration loading.
package config

// Config holds all terraview settings.
type Config struct {
	Terrain  TerrainConfig  `yaml:"terrain"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TerrainConfig holds the tessellation engine parameters and the heightmap
// source.
type TerrainConfig struct {
	MapFile           string  `yaml:"map_file"`  // raw/bmp/png heightmap; empty generates terrain
	Seed              int64   `yaml:"seed"`      // generator seed when no map file is set
	MapSize           int     `yaml:"map_size"`  // heightmap side length
	PatchesPerSide    int     `yaml:"patches_per_side"`
	VarianceDepth     int     `yaml:"variance_depth"`
	MaxTris           int     `yaml:"max_tris"`
	WantedTris        int     `yaml:"wanted_tris"`
	VarianceTolerance float32 `yaml:"variance_tolerance"`
	NodePool          int     `yaml:"node_pool"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// CameraConfig holds fly-camera settings.
type CameraConfig struct {
	MoveSpeed   float32 `yaml:"move_speed"`   // world units per second
	StartHeight float32 `yaml:"start_height"` // above the terrain at startup
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values. Apart from the map
// size and patch grid, the terrain engine fields default to zero here; the
// engine substitutes its own defaults so a partial config keeps working.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			MapSize:        1024,
			PatchesPerSide: 16,
			Seed:           7,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Wireframe:  false,
		},
		Camera: CameraConfig{
			MoveSpeed:   120,
			StartHeight: 80,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
