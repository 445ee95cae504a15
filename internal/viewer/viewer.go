// Package viewer runs the interactive voxel destruction viewer.
package viewer

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfx/internal/config"
	"github.com/Faultbox/voxelfx/internal/engine/camera"
	"github.com/Faultbox/voxelfx/internal/engine/debug"
	"github.com/Faultbox/voxelfx/internal/engine/input"
	"github.com/Faultbox/voxelfx/internal/engine/lighting"
	"github.com/Faultbox/voxelfx/internal/engine/render"
	"github.com/Faultbox/voxelfx/internal/engine/window"
	"github.com/Faultbox/voxelfx/internal/logger"
	"github.com/Faultbox/voxelfx/internal/scene"
	"github.com/Faultbox/voxelfx/pkg/math"
)

// Title is the window title prefix.
const Title = "VoxelFX"

// particlePointSize is the particle diameter in pixels one world unit away.
const particlePointSize = 600

// Turntable speeds in radians.
const (
	spinSpeed = 0.6
	turnStep  = gomath.Pi / 12
)

// Viewer is the interactive window around a scene.Scene.
type Viewer struct {
	cfg       *config.Config
	running   bool
	window    *window.Window
	renderer  *render.Renderer
	meshes    *render.MeshRenderer
	particles *render.ParticleRenderer
	bounds    *render.LineRenderer
	showBBox  bool
	spin      bool
	shots     *debug.ScreenshotCapture
	input     *input.Input
	camera    *camera.OrbitCamera
	sun       lighting.Sun
	scene     *scene.Scene
	log       *zap.Logger
}

// New opens the window, initializes GL and loads the configured volume.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		camera: camera.NewOrbitCamera(),
		sun:    lighting.DefaultSun(),
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "voxview", cfg.Graphics.ScreenshotFormat),
		log:    logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Everything below needs the GL context
	if err := v.initGraphics(); err != nil {
		v.Close()
		return nil, err
	}

	if err := v.reload(); err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) initGraphics() error {
	width, height := v.window.Size()

	var err error
	v.renderer, err = render.New(render.Config{
		Width:      width,
		Height:     height,
		Background: [3]float32{0.1, 0.1, 0.15},
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	v.meshes, err = render.NewMeshRenderer()
	if err != nil {
		return fmt.Errorf("failed to create mesh renderer: %w", err)
	}

	v.particles, err = render.NewParticleRenderer(particlePointSize * v.cfg.Volume.Scale)
	if err != nil {
		return fmt.Errorf("failed to create particle renderer: %w", err)
	}

	v.bounds, err = render.NewLineRenderer(math.Vec3{X: 1, Y: 0.8, Z: 0.2})
	if err != nil {
		return fmt.Errorf("failed to create line renderer: %w", err)
	}

	v.scene, err = scene.New(v.cfg, v.particles.NewUnit, v.meshes)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	return nil
}

// reload reads the configured volume and hands it to the scene.
func (v *Viewer) reload() error {
	vol, err := scene.LoadVolume(v.cfg)
	if err != nil {
		return fmt.Errorf("loading volume: %w", err)
	}

	first := v.scene.Volume() == nil
	if err := v.scene.SetVolume(vol); err != nil {
		return err
	}
	bounds := v.scene.Mesh().Bounds
	v.bounds.Upload(debug.BoundsWireframe(bounds, 0.05*v.cfg.Volume.Scale))
	if first {
		v.camera.FitToBounds(bounds)
	}
	v.updateTitle()
	return nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleEvents(); err != nil {
			return err
		}

		// 2. Advance particles and the turntable
		if v.spin {
			v.scene.Turn(float32(dt) * spinSpeed)
		}
		if err := v.scene.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		v.render()

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("particles", v.scene.Effect().Pool().Len()),
				zap.Int("units", v.particles.LiveUnits()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() error {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)

		case input.EventMouseMove:
			if v.input.IsButtonDown(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}

		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.DeltaY))

		case input.EventKeyDown:
			if err := v.handleKey(event.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Viewer) handleKey(key sdl.Scancode) error {
	var err error
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
		return nil
	case sdl.SCANCODE_E:
		err = v.scene.Explode()
	case sdl.SCANCODE_S:
		err = v.scene.Slash(v.camera.Right())
	case sdl.SCANCODE_R:
		err = v.scene.Reset()
	case sdl.SCANCODE_L:
		err = v.reload()
	case sdl.SCANCODE_B:
		v.showBBox = !v.showBBox
		return nil
	case sdl.SCANCODE_T:
		v.spin = !v.spin
		return nil
	case sdl.SCANCODE_LEFT:
		v.scene.Turn(-turnStep)
		return nil
	case sdl.SCANCODE_RIGHT:
		v.scene.Turn(turnStep)
		return nil
	case sdl.SCANCODE_F12:
		v.screenshot()
		return nil
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("key %s: %w", sdl.GetScancodeName(key), err)
	}
	v.updateTitle()
	return nil
}

func (v *Viewer) render() {
	v.renderer.Begin()

	viewProj := v.camera.ViewProjection(v.renderer.Aspect())
	model := v.scene.ModelMatrix()
	if v.scene.Mode() == scene.ModeIntact {
		v.meshes.Draw(viewProj, model, v.sun)
	} else {
		v.particles.Draw(viewProj, model)
	}
	if v.showBBox {
		v.bounds.Draw(viewProj, model)
	}
}

// screenshot saves the last rendered frame. Failures are logged only.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) updateTitle() {
	vol := v.scene.Volume()
	if vol == nil {
		return
	}
	v.window.SetTitle(fmt.Sprintf("%s - %s %s [%s]", Title, vol.Name(), vol.Size(), v.scene.Mode()))
}

// Close releases all resources in reverse creation order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Close()
	}
	if v.particles != nil {
		v.particles.Close()
	}
	if v.bounds != nil {
		v.bounds.Close()
	}
	if v.meshes != nil {
		v.meshes.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
