// Package renderer owns the GPU context: instance, adapter, device, queue and either a window
// surface or a headless offscreen target. It hands out one command encoder per frame and submits it.
package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/render_pass"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/state"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource is the window a Renderer presents to.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Frame is one frame in flight: the encoder every pass records into and the target it draws to.
type Frame struct {
	Encoder *wgpu.CommandEncoder
	Target  render_pass.Target
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	belt        *state.StagingBelt
	headless    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer defines the interface for the rendering system.
//
// A frame is BeginFrame, any number of staging copies and render passes recorded on the frame's
// encoder, EndFrame (submit, then reclaim the staging belt) and Present.
type Renderer interface {
	// Device returns the GPU device.
	Device() *wgpu.Device

	// Queue returns the device queue.
	Queue() *wgpu.Queue

	// Format returns the color format passes render into.
	Format() wgpu.TextureFormat

	// Size returns the current target size in pixels.
	Size() (width, height uint32)

	// Headless reports whether the renderer draws into an offscreen target.
	Headless() bool

	// Belt returns the staging belt reclaimed at the end of every frame.
	Belt() *state.StagingBelt

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the target could not be recreated
	Resize(width, height int) error

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	//
	// Returns:
	//   - error: an error if the target could not be recreated
	SetPresentMode(mode PresentMode) error

	// BeginFrame acquires the frame target and creates the frame's command encoder.
	//
	// Returns:
	//   - *Frame: the frame
	//   - error: an error if the target or the encoder could not be acquired; the frame should be skipped
	BeginFrame() (*Frame, error)

	// EndFrame submits the frame's commands and releases the staging buffers they referenced.
	//
	// Parameters:
	//   - frame: the frame returned by BeginFrame
	//
	// Returns:
	//   - error: an error if the encoder could not be finished
	EndFrame(frame *Frame) error

	// Present presents the frame target. It is a no-op in headless mode.
	Present()

	// ReadBuffer reads a buffer back to the host, blocking until the copy completes.
	//
	// Parameters:
	//   - src: a buffer created with BufferUsageCopySrc
	//   - size: the number of bytes to read
	//
	// Returns:
	//   - []byte: the contents
	//   - error: an error if the copy or mapping failed
	ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error)

	// Release releases the staging belt and the GPU context.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer presenting to the given window.
//
// Parameters:
//   - backendType: the backend type to use for rendering
//   - win: the window to create the surface from
//   - options: functional options applied before the adapter is requested
//
// Returns:
//   - Renderer: the renderer with its surface configured to the window size
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	return newRenderer(backendType, win.SurfaceDescriptor(), win.Width(), win.Height(), options)
}

// NewHeadless creates a Renderer without a window. Frames render into an offscreen texture of the
// given size, which makes the full frame path usable from tests.
//
// Parameters:
//   - width, height: the offscreen target size in pixels
//   - options: functional options applied before the adapter is requested
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device could be acquired
func NewHeadless(width, height int, options ...RendererBuilderOption) (Renderer, error) {
	return newRenderer(BackendTypeWGPU, nil, width, height, options)
}

func newRenderer(backendType RendererBackendType, surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options []RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		headless:    surfaceDescriptor == nil,
		presentMode: PresentModeVSync,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(uint32(max(width, 0)), uint32(max(height, 0))); err != nil {
		r.backend.Release()
		return nil, err
	}
	r.belt = state.NewStagingBelt(r.backend.Device())
	return r, nil
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) Format() wgpu.TextureFormat {
	return r.backend.Format()
}

func (r *renderer) Size() (uint32, uint32) {
	return r.backend.Size()
}

func (r *renderer) Headless() bool {
	return r.headless
}

func (r *renderer) Belt() *state.StagingBelt {
	return r.belt
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(uint32(max(width, 0)), uint32(max(height, 0)))
}

func (r *renderer) SetPresentMode(mode PresentMode) error {
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	w, h := r.backend.Size()
	return r.backend.ConfigureSurface(w, h)
}

func (r *renderer) BeginFrame() (*Frame, error) {
	target, err := r.backend.AcquireTarget()
	if err != nil {
		return nil, fmt.Errorf("acquire frame target: %w", err)
	}
	encoder, err := r.backend.Device().CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame Encoder"})
	if err != nil {
		r.backend.Present()
		return nil, fmt.Errorf("create frame encoder: %w", err)
	}
	return &Frame{Encoder: encoder, Target: target}, nil
}

func (r *renderer) EndFrame(frame *Frame) error {
	if frame == nil {
		return errNoFrame
	}
	err := r.backend.Submit(frame.Encoder)
	frame.Encoder = nil
	r.belt.Reclaim()
	return err
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	return r.backend.ReadBuffer(src, size)
}

func (r *renderer) Release() {
	if r.belt != nil {
		r.belt.Reclaim()
	}
	r.backend.Release()
}
