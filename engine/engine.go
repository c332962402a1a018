// Package engine wires the window, the GPU context, the three effects and the camera into the
// demo's frame loop.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
	"github.com/Carmen-Shannon/oxy-pbr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/render_pass"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/state"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-pbr/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// equirectClear is the clear color of the Equirect effect.
var equirectClear = wgpu.Color{R: 0, G: 0, B: 0, A: 1}

// engine implements the Engine interface. Everything except the config watcher runs on the
// goroutine that called Run.
type engine struct {
	cfg        config.Config
	configPath string

	window   window.Window
	renderer renderer.Renderer

	camera     camera.Camera
	controller camera.CameraController

	profiler         *profiler.Profiler
	profilingEnabled bool

	simpleLayout, pbrLayout, equirectLayout pipeline.Layout

	simpleState   *state.SimpleState
	pbrState      *state.PbrState
	equirectState *state.EquirectState

	simplePass render_pass.SimplePass
	passes     [effectCount]render_pass.RenderPass

	effect     Effect
	modelAngle float32

	// Hot-reloaded configs waiting for the next frame.
	configChannel chan config.Config

	quitOnce    sync.Once
	releaseOnce sync.Once

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	assetWorkers     int           // goroutines decoding assets at startup
}

// Engine is the main entry point of the demo.
type Engine interface {
	// Window returns the underlying window.
	Window() window.Window

	// Renderer returns the GPU context.
	Renderer() renderer.Renderer

	// Camera returns the camera the controller drives.
	Camera() camera.Camera

	// Effect returns the effect drawn each frame.
	Effect() Effect

	// SetEffect switches the effect drawn from the next frame on.
	//
	// Parameters:
	//   - effect: the effect to draw
	SetEffect(effect Effect)

	// EnableProfiler enables periodic frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables periodic frame statistics.
	DisableProfiler()

	// Run runs the frame loop until the window closes, then releases every GPU resource.
	// If a config path was given and watching is on, edits to the file are applied while running.
	Run()

	// Quit asks the frame loop to stop after the current frame. Safe to call multiple times.
	Quit()
}

// NewEngine opens the window, acquires the GPU and builds every effect. Any failure here is a
// construction error: shader compile, binding contract, asset load or buffer shape.
//
// Parameters:
//   - cfg: the validated configuration
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the ready engine
//   - error: the first construction failure, with every resource built so far released
func NewEngine(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	effect, err := ParseEffect(cfg.Scene.StartEffect)
	if err != nil {
		return nil, err
	}
	if err := common.SetLogLevel(cfg.Debug.LogLevel); err != nil {
		return nil, err
	}

	e := &engine{
		cfg:              cfg,
		effect:           effect,
		configChannel:    make(chan config.Config, 1),
		profiler:         profiler.NewProfiler(time.Duration(cfg.Debug.ProfileInterval)),
		profilingEnabled: cfg.Debug.Profiling,
		assetWorkers:     max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
	}

	if err := e.build(); err != nil {
		e.release()
		return nil, err
	}

	e.window.SetKeyCallback(e.handleKey)
	e.window.SetCursorCallback(e.handleCursor)
	e.window.SetResizeCallback(e.handleResize)
	e.window.SetUpdateCallback(e.frame)

	common.Logger().Info("engine ready",
		"effect", e.effect,
		"format", e.renderer.Format(),
		"present", cfg.Renderer.PresentMode,
		"shaders", cfg.Renderer.ShaderFormat,
	)
	return e, nil
}

// build decodes the assets, then creates the GPU context, the camera, and the layout, state and
// pass of every effect.
func (e *engine) build() error {
	presentMode, err := renderer.ParsePresentMode(e.cfg.Renderer.PresentMode)
	if err != nil {
		return err
	}
	assets, err := loadAssets(newDecodePool(e.assetWorkers), e.cfg.Scene.ResourceDir, uint32(e.cfg.Renderer.MaxTextureDimension))
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	e.renderer, err = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(e.cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	width, height := e.renderer.Size()
	e.camera = camera.NewCamera(camera.WithViewport(int(width), int(height)))
	e.controller = camera.NewCameraController(camera.WithSpeed(float32(e.cfg.Scene.CameraSpeed)))

	if err := e.buildLayouts(); err != nil {
		return err
	}
	if err := e.buildSimple(assets.simple); err != nil {
		return fmt.Errorf("simple effect: %w", err)
	}
	if err := e.buildPbr(assets.pbr); err != nil {
		return fmt.Errorf("pbr effect: %w", err)
	}
	e.equirectState, err = state.NewEquirectState(e.renderer.Device(), e.equirectLayout, e.renderer.Belt(), e.renderer.Format())
	if err != nil {
		return fmt.Errorf("equirect effect: %w", err)
	}

	e.simplePass = render_pass.NewSimplePass(e.simpleLayout, e.simpleState)
	e.simplePass.SetClearColor(toWGPU(e.cfg.Scene.SimpleClear))
	e.passes[EffectSimple] = e.simplePass
	e.passes[EffectPbr] = render_pass.NewPbrPass(e.pbrLayout, e.pbrState, toWGPU(e.cfg.Scene.PbrClear))
	e.passes[EffectEquirect] = render_pass.NewEquirectPass(e.equirectLayout, e.equirectState, equirectClear)
	return nil
}

func (e *engine) buildLayouts() error {
	device := e.renderer.Device()
	format := shader.Format(strings.ToLower(e.cfg.Renderer.ShaderFormat))

	var err error
	if e.simpleLayout, err = pipeline.NewSimpleLayout(device, format); err != nil {
		return err
	}
	if e.pbrLayout, err = pipeline.NewPbrLayout(device, format, texture.DepthFormat); err != nil {
		return err
	}
	if e.equirectLayout, err = pipeline.NewEquirectLayout(device, format); err != nil {
		return err
	}
	return nil
}

func (e *engine) buildSimple(textures []common.TextureStagingData) error {
	device := e.renderer.Device()
	s, err := state.NewSimpleState(device, e.renderer.Queue(), e.simpleLayout, e.renderer.Belt(), e.renderer.Format())
	if err != nil {
		return err
	}
	e.simpleState = s

	for i, data := range textures {
		if _, err := s.AddTexture(simpleTextures[i], data); err != nil {
			return err
		}
	}

	meshes := []struct {
		label string
		build func() ([]geometry.VertexTex, []uint16)
	}{
		{"pentagon", geometry.Pentagon},
		{"circle", geometry.Circle},
	}
	for _, m := range meshes {
		vertices, indices := m.build()
		g, err := geometry.NewGeometry(device, m.label, vertices, indices)
		if err != nil {
			return err
		}
		s.AddGeometry(g)
	}
	return nil
}

func (e *engine) buildPbr(assets state.PbrAssets) error {
	width, height := e.renderer.Size()
	var err error
	e.pbrState, err = state.NewPbrState(e.renderer.Device(), e.renderer.Queue(), e.pbrLayout, e.renderer.Belt(),
		e.renderer.Format(), width, height, assets)
	return err
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Effect() Effect {
	return e.effect
}

func (e *engine) SetEffect(effect Effect) {
	if effect < 0 || effect >= effectCount || effect == e.effect {
		return
	}
	common.Logger().Debug("effect selected", "from", e.effect, "to", effect)
	e.effect = effect
}

func (e *engine) EnableProfiler() {
	if !e.profilingEnabled {
		e.profiler.Reset()
	}
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run() {
	defer e.release()

	if e.configPath != "" && e.cfg.Debug.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := config.Watch(ctx, e.configPath, e.queueConfig); err != nil {
				common.Logger().Warn("config watch stopped", "err", err)
			}
		}()
	}

	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

// queueConfig hands a reloaded config to the frame loop, replacing one not yet applied.
func (e *engine) queueConfig(cfg config.Config) {
	select {
	case e.configChannel <- cfg:
	default:
		select {
		case <-e.configChannel:
		default:
		}
		e.configChannel <- cfg
	}
}

// applyConfig merges the runtime-tunable part of a reloaded config.
func (e *engine) applyConfig(next config.Config) {
	changed := e.cfg.MergeRuntime(next)
	if len(changed) == 0 {
		return
	}
	for _, field := range changed {
		switch field {
		case "scene.camera_speed":
			e.controller.SetSpeed(float32(e.cfg.Scene.CameraSpeed))
		case "scene.simple_clear":
			c := e.simplePass.ClearColor()
			base := toWGPU(e.cfg.Scene.SimpleClear)
			base.R, base.G = c.R, c.G
			e.simplePass.SetClearColor(base)
		case "scene.pbr_clear":
			e.passes[EffectPbr] = render_pass.NewPbrPass(e.pbrLayout, e.pbrState, toWGPU(e.cfg.Scene.PbrClear))
		case "debug.log_level":
			if err := common.SetLogLevel(e.cfg.Debug.LogLevel); err != nil {
				common.Logger().Warn("log level not applied", "err", err)
			}
		case "debug.profiling":
			e.profiler.SetInterval(time.Duration(e.cfg.Debug.ProfileInterval))
			if e.cfg.Debug.Profiling {
				e.EnableProfiler()
			} else {
				e.DisableProfiler()
			}
		}
	}
	common.Logger().Info("config applied", "changed", changed)
}

func (e *engine) drainConfig() {
	for {
		select {
		case next := <-e.configChannel:
			e.applyConfig(next)
		default:
			return
		}
	}
}

// update advances the camera and, outside Pbr, the model rotation.
func (e *engine) update() {
	e.controller.Update(e.camera)
	if e.effect != EffectPbr {
		e.modelAngle += float32(e.cfg.Scene.ModelSpeed)
	}
}

func (e *engine) activeState() state.State {
	switch e.effect {
	case EffectPbr:
		return e.pbrState
	case EffectEquirect:
		return e.equirectState
	default:
		return e.simpleState
	}
}

// frame runs one iteration: apply reloaded config, update, stage uniforms, record the active
// pass, submit and present. A frame whose target cannot be acquired is skipped.
func (e *engine) frame() {
	start := time.Now()
	e.drainConfig()
	e.update()

	frame, err := e.renderer.BeginFrame()
	if err != nil {
		common.Logger().Warn("frame skipped", "err", err)
		return
	}
	if err := e.activeState().UpdateUniforms(frame.Encoder, e.camera, e.modelAngle); err != nil {
		common.Logger().Error("uniform staging failed", "effect", e.effect, "err", err)
	}
	e.passes[e.effect].Render(frame.Target, frame.Encoder)
	if err := e.renderer.EndFrame(frame); err != nil {
		common.Logger().Warn("frame submit failed", "err", err)
	}
	e.renderer.Present()

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// handleKey gives the camera controller first refusal, then acts on presses.
func (e *engine) handleKey(key int, pressed bool) {
	if e.controller.ProcessKey(key, pressed) || !pressed {
		return
	}
	cmd := keyCommand(e.effect, key)
	switch cmd.kind {
	case commandQuit:
		e.Quit()
	case commandSelectEffect:
		e.SetEffect(cmd.effect)
	case commandCycleGeometry:
		e.simpleState.CycleGeometry()
	case commandCycleTexture:
		e.simpleState.CycleTexture()
	}
}

// handleCursor maps the cursor position onto the red and green of the Simple clear color.
func (e *engine) handleCursor(x, y float64) {
	e.simplePass.SetClearColor(render_pass.CursorClearColor(
		e.simplePass.ClearColor(), x, y, e.window.Width(), e.window.Height()))
}

// handleResize reconfigures the surface, rebuilds the depth texture and updates the camera aspect.
func (e *engine) handleResize(width, height int) {
	if err := e.renderer.Resize(width, height); err != nil {
		common.Logger().Error("surface resize failed", "width", width, "height", height, "err", err)
		return
	}
	w, h := e.renderer.Size()
	if err := e.pbrState.Resize(w, h); err != nil {
		common.Logger().Error("depth texture resize failed", "err", err)
	}
	e.camera.Resize(int(w), int(h))
}

// release frees states, then layouts, then the GPU context, then the window.
func (e *engine) release() {
	e.releaseOnce.Do(func() {
		if e.simpleState != nil {
			e.simpleState.Release()
		}
		if e.pbrState != nil {
			e.pbrState.Release()
		}
		if e.equirectState != nil {
			e.equirectState.Release()
		}
		for _, l := range []pipeline.Layout{e.simpleLayout, e.pbrLayout, e.equirectLayout} {
			if l != nil {
				l.Release()
			}
		}
		if e.renderer != nil {
			e.renderer.Release()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				common.Logger().Debug("window close", "err", err)
			}
		}
	})
}

func toWGPU(c config.Color) wgpu.Color {
	return wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}
