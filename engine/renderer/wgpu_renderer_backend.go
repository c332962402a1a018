package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/render_pass"
	"github.com/cogentcore/webgpu/wgpu"
)

// OffscreenFormat is the color format of the headless render target.
const OffscreenFormat = wgpu.TextureFormatRGBA8UnormSrgb

var errNoFrame = errors.New("no frame in flight")

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface // nil in headless mode

	format      wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode PresentMode
	width       uint32
	height      uint32

	// Offscreen color target used instead of the surface in headless mode.
	offscreen     *wgpu.Texture
	offscreenView *wgpu.TextureView

	// Surface texture acquired for the current frame.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface

	// Format returns the color format of the frame target.
	Format() wgpu.TextureFormat

	// Size returns the current size of the frame target in pixels.
	Size() (width, height uint32)

	// ConfigureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
	// This is required when the surface size changes, such as when the window is resized. In headless
	// mode the offscreen target is recreated instead.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the offscreen target could not be created
	ConfigureSurface(width, height uint32) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// It takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// AcquireTarget acquires the color attachment for a new frame.
	//
	// Returns:
	//   - render_pass.Target: the surface texture view, or the offscreen view in headless mode
	//   - error: an error if the surface texture could not be acquired
	AcquireTarget() (render_pass.Target, error)

	// Submit finishes the encoder and submits the command buffer to the queue. The encoder is
	// released either way.
	//
	// Parameters:
	//   - encoder: the frame's command encoder
	//
	// Returns:
	//   - error: an error if the encoder could not be finished
	Submit(encoder *wgpu.CommandEncoder) error

	// Present presents the acquired surface texture and releases it. It is a no-op in headless mode.
	Present()

	// ReadBuffer copies size bytes out of src into host memory and waits for the copy.
	// src must have been created with BufferUsageCopySrc.
	//
	// Parameters:
	//   - src: the buffer to read
	//   - size: the number of bytes from offset 0
	//
	// Returns:
	//   - []byte: the buffer contents
	//   - error: an error if the copy or the mapping failed
	ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error)

	// Release releases every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend acquires an adapter and device. A nil surfaceDescriptor selects headless mode.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: PresentModeVSync,
		format:      OffscreenFormat,
	}
	if surfaceDescriptor != nil {
		w.surface = w.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if w.surface != nil {
		capabilities := w.surface.GetCapabilities(w.adapter)
		if len(capabilities.Formats) == 0 {
			w.Release()
			return nil, errors.New("surface reports no formats for this adapter")
		}
		w.format = capabilities.Formats[0]
		w.alphaMode = capabilities.AlphaModes[0]
	}
	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width, b.height = max(width, 1), max(height, 1)
	if b.surface != nil {
		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      b.format,
			Width:       b.width,
			Height:      b.height,
			PresentMode: b.presentMode.wgpuMode(),
			AlphaMode:   b.alphaMode,
		})
		return nil
	}

	b.releaseOffscreen()
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Offscreen Target",
		Size: wgpu.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen target: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("create offscreen view: %w", err)
	}
	b.offscreen, b.offscreenView = tex, view
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *wgpuRendererBackendImpl) AcquireTarget() (render_pass.Target, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	target := render_pass.Target{Format: b.format, Width: b.width, Height: b.height}
	if b.surface == nil {
		target.View = b.offscreenView
		return target, nil
	}

	// A surface texture still held from the previous frame must be presented first.
	if b.frameSurface != nil {
		return target, fmt.Errorf("previous frame surface not yet presented")
	}
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return target, err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return target, err
	}
	b.frameSurface, b.frameView = surfaceTexture, view
	target.View = view
	return target, nil
}

func (b *wgpuRendererBackendImpl) Submit(encoder *wgpu.CommandEncoder) error {
	if encoder == nil {
		return errNoFrame
	}
	defer encoder.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrame()
}

func (b *wgpuRendererBackendImpl) ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	readback, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	defer readback.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.CopyBufferToBuffer(src, 0, readback, 0, size); err != nil {
		encoder.Release()
		return nil, fmt.Errorf("record readback copy: %w", err)
	}
	if err := b.Submit(encoder); err != nil {
		return nil, err
	}

	var status wgpu.BufferMapAsyncStatus
	if err := readback.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	}); err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %v", status)
	}
	defer readback.Unmap()

	out := make([]byte, size)
	copy(out, readback.GetMappedRange(0, uint(size)))
	return out, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance {
	return b.instance
}

func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter {
	return b.adapter
}

func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface {
	return b.surface
}

func (b *wgpuRendererBackendImpl) Format() wgpu.TextureFormat {
	return b.format
}

func (b *wgpuRendererBackendImpl) Size() (uint32, uint32) {
	return b.width, b.height
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrame()
	b.releaseOffscreen()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseFrame() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseOffscreen() {
	if b.offscreenView != nil {
		b.offscreenView.Release()
		b.offscreenView = nil
	}
	if b.offscreen != nil {
		b.offscreen.Release()
		b.offscreen = nil
	}
}
