// Package viewer runs the interactive terrain viewer: it owns the window,
// the camera and the quadtree and drives them once per frame.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/glterrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

const title = "Midgard Terrain"

// Options selects the terrain the viewer generates.
type Options struct {
	Noise terrain.NoiseParams
}

// Viewer is the interactive terrain viewer.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	input    *input.Input
	camera   *camera.OrbitCamera
	renderer *glterrain.Renderer
	store    *glterrain.Store
	grid     *terrain.Grid
	tree     *terrain.Quadtree

	wireframe bool
	paused    bool
	running   bool
}

// New opens the window and builds the root of the terrain.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		log:       logger.Named("viewer"),
		input:     input.New(),
		camera:    camera.NewOrbitCamera(),
		wireframe: cfg.Window.Wireframe,
	}

	width := cfg.Terrain.HeightFieldWidth()
	v.log.Info("generating height field", zap.Int("width", width), zap.Int64("seed", opts.Noise.Seed))
	grid, err := terrain.NewNoiseGrid(width, cfg.Terrain.VertexSpacing/float32(int(1)<<cfg.Terrain.MaxDepth), opts.Noise)
	if err != nil {
		return nil, fmt.Errorf("generating height field: %w", err)
	}
	v.grid = grid

	// The window also creates the GL context everything below needs
	v.window, err = window.New(title, cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	v.renderer, err = glterrain.NewRenderer()
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	v.store = glterrain.NewStore(0)

	v.tree, err = terrain.NewQuadtree(grid, &cfg.Terrain, v.store, v.renderer.HostFactory())
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("building terrain: %w", err)
	}

	minH, maxH := grid.HeightRange()
	v.camera.FitToTerrain(v.tree.RootExtent(), minH, maxH)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.55, 0.7, 0.85, 1)
	v.resize(v.window.Size())

	return v, nil
}

// Run drives the frame loop until the window is closed or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	last := time.Now()
	frames := 0
	statsTimer := time.Now()

	v.log.Info("starting frame loop")
	for v.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if v.input.Update() {
			break
		}
		v.handleEvents(dt)

		if !v.paused {
			if err := v.tree.Update(dt, v.camera.Position()); err != nil {
				// A failed split keeps the coarser tile, so the frame can still be drawn
				v.log.Warn("terrain update", zap.Error(err))
			}
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		w, h := v.window.Size()
		v.renderer.Draw(v.camera.ViewProj(float32(w)/float32(max(h, 1))), v.wireframe)
		v.window.SwapBuffers()

		frames++
		if time.Since(statsTimer) >= time.Second {
			v.reportStats(frames)
			frames = 0
			statsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents(dt float32) {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.resize(v.window.Size())
		case input.EventMouseDrag:
			v.camera.HandleDrag(e.DX, e.DY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(e.DY)
		case input.EventMouseClick:
			if e.Button == sdl.BUTTON_RIGHT {
				v.recentre(e.X, e.Y)
			}
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F1:
				v.wireframe = !v.wireframe
			case sdl.SCANCODE_P:
				v.paused = !v.paused
				v.log.Info("level of detail updates", zap.Bool("paused", v.paused))
			}
		}
	}

	forward := v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S)
	right := v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A)
	if forward != 0 || right != 0 {
		v.camera.HandleMovement(forward, right, dt)
	}
	v.followGround()
}

// followGround keeps the orbit target on the terrain surface.
func (v *Viewer) followGround() {
	extent := v.tree.RootExtent()
	if extent <= 0 {
		return
	}
	t := &v.camera.Target
	t.X = min(max(t.X, 0), extent)
	t.Z = min(max(t.Z, 0), extent)

	scale := float32(v.grid.Width()-1) / extent
	t.Y = terrain.SampleHeight(v.grid, t.X*scale, t.Z*scale)
}

// recentre moves the orbit target to the terrain point under the cursor.
// Window coordinates are scaled to the drawable size for HiDPI displays.
func (v *Viewer) recentre(x, y int) {
	w, h := v.window.Size()
	ww, wh := v.window.WindowSize()
	sx, sy := float32(x)*float32(w)/float32(max(ww, 1)), float32(y)*float32(h)/float32(max(wh, 1))

	inv := v.camera.ViewProj(float32(w) / float32(max(h, 1))).Inverse()
	ray := picking.ScreenToRay(sx, sy, float32(w), float32(h), inv)

	if p, ok := pickTerrain(ray, v.grid, v.tree.RootExtent()); ok {
		v.camera.Target = p
		v.log.Debug("orbit target moved", zap.Float32("x", p.X), zap.Float32("z", p.Z))
	}
}

func (v *Viewer) resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (v *Viewer) reportStats(frames int) {
	s := v.tree.Stats()
	v.window.SetTitle(fmt.Sprintf("%s | %d fps | %d tiles | %d fading", title, frames, s.Leaves, s.FadePasses))
	v.log.Debug("frame stats",
		zap.Int("fps", frames),
		zap.Int("tiles", s.Leaves),
		zap.Int("nodes", s.Nodes),
		zap.Int("fade_passes", s.FadePasses),
		zap.Int("buffers", v.store.Live()),
		zap.Int("buffer_bytes", v.store.Used()),
	)
}

// Close releases the terrain, the GL resources and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.tree != nil {
		if err := v.tree.Destroy(); err != nil {
			v.log.Warn("destroying terrain", zap.Error(err))
		}
		v.tree = nil
	}
	if v.renderer != nil {
		v.renderer.Destroy()
		v.renderer = nil
	}
	if v.store != nil {
		v.store.Destroy()
		v.store = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
