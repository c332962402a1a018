// Package texture creates the GPU textures the effects sample from or render into:
// the depth attachment, 8-bit color textures and the floating point environment map.
package texture

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the format of every depth attachment.
const DepthFormat = wgpu.TextureFormatDepth32Float

// HDRFormat is the format of the environment map.
const HDRFormat = wgpu.TextureFormatRGBA32Float

type texture struct {
	label   string
	format  wgpu.TextureFormat
	width   uint32
	height  uint32
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// Texture is a GPU texture together with its default view and sampler.
type Texture interface {
	// Label returns the debug label.
	Label() string

	// Format returns the texel format.
	Format() wgpu.TextureFormat

	// Width returns the width in pixels.
	Width() uint32

	// Height returns the height in pixels.
	Height() uint32

	// Texture returns the underlying GPU texture.
	Texture() *wgpu.Texture

	// View returns the full-resource view.
	View() *wgpu.TextureView

	// Sampler returns the sampler created with the texture.
	Sampler() *wgpu.Sampler

	// Release releases the sampler, view and texture.
	Release()
}

var _ Texture = &texture{}

// ColorFormat returns the 8-bit RGBA format for color data. Linear data such as normal maps is
// stored as unorm so it is not gamma decoded on sampling.
//
// Parameters:
//   - linear: true for non-color data
//
// Returns:
//   - wgpu.TextureFormat: RGBA8Unorm for linear data, RGBA8UnormSrgb otherwise
func ColorFormat(linear bool) wgpu.TextureFormat {
	if linear {
		return wgpu.TextureFormatRGBA8Unorm
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}

// NewDepthTexture creates a depth attachment of the given size. Zero dimensions are raised to one
// so a minimized window still has a valid attachment.
//
// Parameters:
//   - device: the device that owns the texture
//   - label: debug label
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - Texture: the depth texture with a comparison sampler
//   - error: a device error
func NewDepthTexture(device *wgpu.Device, label string, width, height uint32) (Texture, error) {
	desc := depthDescriptor(label, width, height)
	tex, err := device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create depth texture: %w", label, err)
	}
	sampler := common.DefaultSampler()
	sampler.LodMaxClamp = 100
	sampler.Compare = wgpu.CompareFunctionLessEqual
	samplerDesc := SamplerDescriptor(label, sampler)
	return finish(device, tex, &samplerDesc, label, desc.Format, desc.Size.Width, desc.Size.Height)
}

// NewColorTexture uploads 8-bit RGBA pixels into a new sampled texture.
//
// Parameters:
//   - device: the device that owns the texture
//   - queue: the queue the upload is written through
//   - label: debug label
//   - data: the decoded pixels
//   - sampler: sampler settings, usually common.DefaultSampler()
//
// Returns:
//   - Texture: the texture
//   - error: wraps common.ErrSizeMismatch if the pixel count does not match the size, or a device error
func NewColorTexture(device *wgpu.Device, queue *wgpu.Queue, label string, data common.TextureStagingData, sampler common.SamplerStagingData) (Texture, error) {
	if err := checkPixels(label, len(data.Pixels), data.Width, data.Height, 4); err != nil {
		return nil, err
	}
	desc := sampledDescriptor(label, ColorFormat(data.Linear), data.Width, data.Height)
	tex, err := device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create texture: %w", label, err)
	}
	write(queue, tex, data.Pixels, data.Width*4, data.Width, data.Height)

	samplerDesc := SamplerDescriptor(label, sampler)
	return finish(device, tex, &samplerDesc, label, desc.Format, data.Width, data.Height)
}

// NewHDRTexture uploads float RGBA pixels into a new sampled texture. The format is not
// filterable, so the sampler uses nearest filtering.
//
// Parameters:
//   - device: the device that owns the texture
//   - queue: the queue the upload is written through
//   - label: debug label
//   - data: the decoded pixels
//
// Returns:
//   - Texture: the texture
//   - error: wraps common.ErrSizeMismatch if the pixel count does not match the size, or a device error
func NewHDRTexture(device *wgpu.Device, queue *wgpu.Queue, label string, data common.HDRStagingData) (Texture, error) {
	if err := checkPixels(label, len(data.Pixels), data.Width, data.Height, 4); err != nil {
		return nil, err
	}
	desc := sampledDescriptor(label, HDRFormat, data.Width, data.Height)
	tex, err := device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create hdr texture: %w", label, err)
	}
	write(queue, tex, common.SliceToBytes(data.Pixels), data.Width*16, data.Width, data.Height)

	sampler := common.DefaultSampler()
	sampler.MagFilter = wgpu.FilterModeNearest
	sampler.MinFilter = wgpu.FilterModeNearest
	samplerDesc := SamplerDescriptor(label, sampler)
	return finish(device, tex, &samplerDesc, label, desc.Format, data.Width, data.Height)
}

// SamplerDescriptor copies staging data into a sampler descriptor field for field.
func SamplerDescriptor(label string, s common.SamplerStagingData) wgpu.SamplerDescriptor {
	return wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  s.AddressModeU,
		AddressModeV:  s.AddressModeV,
		AddressModeW:  s.AddressModeW,
		MagFilter:     s.MagFilter,
		MinFilter:     s.MinFilter,
		MipmapFilter:  s.MipmapFilter,
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   s.LodMaxClamp,
		MaxAnisotropy: s.MaxAnisotropy,
		Compare:       s.Compare,
	}
}

func depthDescriptor(label string, width, height uint32) wgpu.TextureDescriptor {
	return wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              max(width, 1),
			Height:             max(height, 1),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	}
}

func sampledDescriptor(label string, format wgpu.TextureFormat, width, height uint32) wgpu.TextureDescriptor {
	return wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	}
}

func checkPixels(label string, n int, width, height, channels uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%s: empty image %dx%d: %w", label, width, height, common.ErrSizeMismatch)
	}
	if want := int(width * height * channels); n != want {
		return fmt.Errorf("%s: %d values for a %dx%d image, want %d: %w", label, n, width, height, want, common.ErrSizeMismatch)
	}
	return nil
}

func write(queue *wgpu.Queue, tex *wgpu.Texture, pixels []byte, bytesPerRow, width, height uint32) {
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
}

// finish creates the view and sampler for tex, releasing tex on failure.
func finish(device *wgpu.Device, tex *wgpu.Texture, samplerDesc *wgpu.SamplerDescriptor, label string, format wgpu.TextureFormat, width, height uint32) (Texture, error) {
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%s: create view: %w", label, err)
	}
	sampler, err := device.CreateSampler(samplerDesc)
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("%s: create sampler: %w", label, err)
	}
	return &texture{
		label:   label,
		format:  format,
		width:   width,
		height:  height,
		texture: tex,
		view:    view,
		sampler: sampler,
	}, nil
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) Texture() *wgpu.Texture {
	return t.texture
}

func (t *texture) View() *wgpu.TextureView {
	return t.view
}

func (t *texture) Sampler() *wgpu.Sampler {
	return t.sampler
}

func (t *texture) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
