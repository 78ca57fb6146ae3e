// Package terrain implements a real-time adaptive terrain tessellator based
// on the ROAM algorithm. A Landscape splits the heightmap into a grid of
// patches, each holding two binary triangle trees that split and merge every
// frame so triangle density follows terrain variance and camera distance,
// while a feedback controller keeps the total triangle count near a budget.
package terrain

import (
	"errors"
	"fmt"
	"math/bits"
)

// Soft resource conditions. The per-frame path absorbs both silently by
// skipping the split or leaf render that asked; the pools report exhaustion
// through ok results, and no engine function returns these values.
var (
	ErrPoolExhausted = errors.New("terrain: node pool exhausted")
	ErrNoFreeSlot    = errors.New("terrain: no free vertex slot")
)

// Default engine parameters for a 4096 heightmap.
const (
	DefaultMapSize           = 4096
	DefaultPatchesPerSide    = 64
	DefaultVarianceDepth     = 9
	DefaultMaxTris           = 200000
	DefaultWantedTris        = 100000
	DefaultVarianceTolerance = 2
	DefaultNodePoolSize      = 400000
)

// Config holds the engine parameters. New replaces zero fields with the
// defaults above before calling Validate.
type Config struct {
	MapSize           int     // heightmap side length
	PatchesPerSide    int     // patch grid side length
	VarianceDepth     int     // variance tree depth; tree size is 1<<depth
	MaxTris           int     // vertex slot count (triangle budget ceiling)
	WantedTris        int     // triangle count the controller steers toward
	VarianceTolerance float32 // dead band around the frame variance threshold
	NodePoolSize      int     // bintree node arena capacity
}

// withDefaults returns cfg with zero fields filled in.
func (cfg Config) withDefaults() Config {
	if cfg.MapSize == 0 {
		cfg.MapSize = DefaultMapSize
	}
	if cfg.PatchesPerSide == 0 {
		cfg.PatchesPerSide = DefaultPatchesPerSide
	}
	if cfg.VarianceDepth == 0 {
		cfg.VarianceDepth = DefaultVarianceDepth
	}
	if cfg.MaxTris == 0 {
		cfg.MaxTris = DefaultMaxTris
	}
	if cfg.WantedTris == 0 {
		cfg.WantedTris = DefaultWantedTris
	}
	if cfg.VarianceTolerance == 0 {
		cfg.VarianceTolerance = DefaultVarianceTolerance
	}
	if cfg.NodePoolSize == 0 {
		cfg.NodePoolSize = DefaultNodePoolSize
	}
	return cfg
}

// Validate checks the parameters an engine cannot run with.
func (cfg Config) Validate() error {
	if cfg.MapSize <= 0 || cfg.PatchesPerSide <= 0 {
		return fmt.Errorf("terrain: map size %d / patches per side %d must be positive", cfg.MapSize, cfg.PatchesPerSide)
	}
	if cfg.MapSize%cfg.PatchesPerSide != 0 {
		return fmt.Errorf("terrain: map size %d not divisible by patches per side %d", cfg.MapSize, cfg.PatchesPerSide)
	}
	patchSize := cfg.MapSize / cfg.PatchesPerSide
	if patchSize&(patchSize-1) != 0 {
		return fmt.Errorf("terrain: patch size %d must be a power of two", patchSize)
	}
	if cfg.VarianceDepth < bits.Len(uint(patchSize))-1 {
		return fmt.Errorf("terrain: variance depth %d too shallow for patch size %d", cfg.VarianceDepth, patchSize)
	}
	if cfg.MaxTris <= 0 || cfg.NodePoolSize <= 0 {
		return fmt.Errorf("terrain: triangle budget %d / node pool %d must be positive", cfg.MaxTris, cfg.NodePoolSize)
	}
	if cfg.WantedTris > cfg.MaxTris {
		return fmt.Errorf("terrain: wanted triangles %d exceeds budget %d", cfg.WantedTris, cfg.MaxTris)
	}
	return nil
}

// point is a heightmap grid position, patch-local during recursion.
type point struct {
	X, Y int
}

func midpoint(a, b point) point {
	return point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
