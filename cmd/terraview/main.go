// Package main is the entry point for the terraview terrain viewer.
package main

import (
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/terraroam/internal/config"
	"github.com/Faultbox/terraroam/internal/engine/heightmap"
	"github.com/Faultbox/terraroam/internal/logger"
	"github.com/Faultbox/terraroam/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== terraview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	hm, err := loadHeightmap(cfg)
	if err != nil {
		logger.Error("failed to load heightmap", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, hm)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// loadHeightmap resolves the terrain source: the configured file, a file
// picked interactively, or the procedural generator.
func loadHeightmap(cfg *config.Config) (*heightmap.Heightmap, error) {
	path := cfg.Terrain.MapFile
	if path == "" {
		picked, err := dialog.File().
			Title("Select a heightmap").
			Filter("Heightmaps", "raw", "bmp", "png").
			Load()
		if err == nil {
			path = picked
		}
	}

	if path == "" {
		logger.Sugar.Infow("no heightmap selected, generating terrain",
			"size", cfg.Terrain.MapSize,
			"seed", cfg.Terrain.Seed,
		)
		return heightmap.Generate(cfg.Terrain.MapSize, cfg.Terrain.Seed), nil
	}

	logger.Sugar.Infof("loading heightmap %s", path)
	return heightmap.Load(path, cfg.Terrain.MapSize)
}
