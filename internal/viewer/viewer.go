// Package viewer implements the interactive terrain viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/terraroam/internal/config"
	"github.com/Faultbox/terraroam/internal/engine/camera"
	"github.com/Faultbox/terraroam/internal/engine/heightmap"
	"github.com/Faultbox/terraroam/internal/engine/input"
	"github.com/Faultbox/terraroam/internal/engine/renderer"
	"github.com/Faultbox/terraroam/internal/engine/terrain"
	"github.com/Faultbox/terraroam/internal/engine/window"
	"github.com/Faultbox/terraroam/internal/logger"
	"github.com/Faultbox/terraroam/pkg/math"
)

// Viewer wires the tessellation engine to a window, camera and renderer.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.FlyCamera
	land     *terrain.Landscape

	wireframe bool
	mouseLook bool
}

// New builds the viewer over a loaded heightmap: engine, window and renderer.
func New(cfg *config.Config, hm *heightmap.Heightmap) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		wireframe: cfg.Graphics.Wireframe,
	}

	engineCfg := terrain.Config{
		MapSize:           hm.Size,
		PatchesPerSide:    cfg.Terrain.PatchesPerSide,
		VarianceDepth:     cfg.Terrain.VarianceDepth,
		MaxTris:           cfg.Terrain.MaxTris,
		WantedTris:        cfg.Terrain.WantedTris,
		VarianceTolerance: cfg.Terrain.VarianceTolerance,
		NodePoolSize:      cfg.Terrain.NodePool,
	}

	var err error
	v.land, err = terrain.New(engineCfg, hm)
	if err != nil {
		return nil, fmt.Errorf("creating landscape: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      "terraview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// Renderer needs the GL context the window created.
	v.renderer, err = renderer.New(renderer.Config{
		Width:     cfg.Graphics.Width,
		Height:    cfg.Graphics.Height,
		Wireframe: v.wireframe,
		MaxTris:   len(v.land.Indices()) / 3,
	}, v.land.Indices())
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	v.input = input.New()

	v.camera = camera.New()
	if cfg.Camera.MoveSpeed > 0 {
		v.camera.MoveSpeed = cfg.Camera.MoveSpeed
	}
	mid := hm.Size / 2
	v.camera.Position = math.Vec3{
		X: float32(mid),
		Y: float32(hm.At(mid, mid)) + cfg.Camera.StartHeight,
		Z: float32(mid),
	}

	return v, nil
}

// Run drives the frame loop until quit.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	statTimer := time.Now()

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()
		v.moveCamera(dt)

		// The per-frame engine pipeline.
		v.land.SetCamera(v.camera.Position, v.camera.Forward())
		v.land.Reset()
		v.land.Tessellate()
		v.land.Render()

		v.renderer.Begin()
		mvp := v.mvp()
		v.renderer.DrawTerrain(v.land.Vertices(), &mvp)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(statTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("terraview - %d fps, %d tris, variance %.1f",
				frameCount, v.land.TrianglesRendered(), v.land.FrameVariance()))
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Int("triangles", v.land.TrianglesRendered()),
				zap.Int("visible_patches", v.land.VisiblePatches()),
				zap.Float32("frame_variance", v.land.FrameVariance()),
			)
			frameCount = 0
			statTimer = time.Now()
		}
	}

	return nil
}

// Close releases window and renderer resources.
func (v *Viewer) Close() {
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F:
				v.wireframe = !v.wireframe
				v.renderer.SetWireframe(v.wireframe)
			case sdl.SCANCODE_TAB:
				v.mouseLook = !v.mouseLook
				v.window.SetRelativeMouse(v.mouseLook)
			}
		case input.EventMouseMove:
			if v.mouseLook {
				v.camera.HandleLook(float32(event.RelX), float32(event.RelY))
			}
		}
	}
}

func (v *Viewer) moveCamera(dt float32) {
	forward := v.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	right := v.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	up := v.input.Axis(sdl.SCANCODE_Q, sdl.SCANCODE_E)
	if forward != 0 || right != 0 || up != 0 {
		v.camera.HandleMovement(forward, right, up, dt)
	}
}

func (v *Viewer) mvp() math.Mat4 {
	proj := math.Perspective(1.1, v.renderer.Aspect(), 1.0, 8192.0)
	view := v.camera.ViewMatrix()
	return proj.Mul(view)
}
