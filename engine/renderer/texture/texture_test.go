package texture

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, ColorFormat(false))
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, ColorFormat(true))
}

func TestDepthDescriptor(t *testing.T) {
	desc := depthDescriptor("depth", 800, 600)
	assert.Equal(t, DepthFormat, desc.Format)
	assert.Equal(t, uint32(800), desc.Size.Width)
	assert.Equal(t, uint32(600), desc.Size.Height)
	assert.NotZero(t, desc.Usage&wgpu.TextureUsageRenderAttachment)

	minimized := depthDescriptor("depth", 0, 0)
	assert.Equal(t, uint32(1), minimized.Size.Width)
	assert.Equal(t, uint32(1), minimized.Size.Height)
}

func TestSampledDescriptor(t *testing.T) {
	desc := sampledDescriptor("albedo", ColorFormat(false), 4, 2)
	assert.Equal(t, wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst, desc.Usage)
	assert.Equal(t, uint32(1), desc.MipLevelCount)
	assert.Equal(t, uint32(1), desc.Size.DepthOrArrayLayers)
}

func TestSamplerDescriptor_Defaults(t *testing.T) {
	desc := SamplerDescriptor("tree", common.DefaultSampler())
	assert.Equal(t, "tree Sampler", desc.Label)
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeW)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MagFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, desc.MipmapFilter)
	assert.Equal(t, float32(32), desc.LodMaxClamp)
	assert.Equal(t, uint16(1), desc.MaxAnisotropy)
	assert.Equal(t, wgpu.CompareFunctionUndefined, desc.Compare)
}

func TestSamplerDescriptor_Overrides(t *testing.T) {
	s := common.DefaultSampler()
	s.AddressModeU = wgpu.AddressModeRepeat
	s.MagFilter = wgpu.FilterModeNearest
	s.MipmapFilter = wgpu.MipmapFilterModeNearest
	s.LodMaxClamp = 100
	s.Compare = wgpu.CompareFunctionLessEqual

	desc := SamplerDescriptor("depth", s)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, desc.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, desc.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, desc.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, desc.MipmapFilter)
	assert.Equal(t, float32(100), desc.LodMaxClamp)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, desc.Compare)
}

func TestSamplerDescriptor_ZeroValueEnumsAreKept(t *testing.T) {
	desc := SamplerDescriptor("raw", common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
	})
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, desc.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, desc.MagFilter)
	assert.Equal(t, wgpu.FilterModeNearest, desc.MinFilter)
}

func TestCheckPixels(t *testing.T) {
	assert.NoError(t, checkPixels("ok", 2*3*4, 2, 3, 4))

	err := checkPixels("short", 23, 2, 3, 4)
	require.ErrorIs(t, err, common.ErrSizeMismatch)
	assert.Contains(t, err.Error(), "want 24")

	assert.ErrorIs(t, checkPixels("empty", 0, 0, 3, 4), common.ErrSizeMismatch)
}
