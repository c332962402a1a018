package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformSchema() Schema {
	return NewSchema("uniforms",
		UniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 144),
		UniformEntry(1, wgpu.ShaderStageFragment, 144),
		StorageEntry(2, wgpu.ShaderStageVertex, 3136),
		StorageEntry(3, wgpu.ShaderStageFragment, 784),
	)
}

func TestSchema_ValidateAcceptsMatchingResources(t *testing.T) {
	s := uniformSchema()
	err := s.Validate([]Resource{
		UniformBuffer(nil, 144),
		UniformBuffer(nil, 144),
		StorageBuffer(nil, 3136),
		StorageBuffer(nil, 784),
	})
	assert.NoError(t, err)
}

func TestSchema_ValidateRejectsCountMismatch(t *testing.T) {
	s := uniformSchema()
	err := s.Validate([]Resource{UniformBuffer(nil, 144)})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSchemaMismatch)
}

func TestSchema_ValidateRejectsKindMismatch(t *testing.T) {
	s := NewSchema("tex", TextureSamplerEntries(0)...)
	err := s.Validate([]Resource{Sampler(nil), TextureView(nil)})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "binding 0 wants texture, got sampler")
}

func TestSchema_ValidateRejectsSizeMismatch(t *testing.T) {
	s := uniformSchema()
	err := s.Validate([]Resource{
		UniformBuffer(nil, 144),
		UniformBuffer(nil, 144),
		StorageBuffer(nil, 3136),
		StorageBuffer(nil, 768),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSizeMismatch)
	assert.NotErrorIs(t, err, common.ErrSchemaMismatch)
}

func TestSchema_TextureEntriesIgnoreSize(t *testing.T) {
	s := NewSchema("tex", TextureSamplerEntries(4)...)
	assert.NoError(t, s.Validate([]Resource{TextureView(nil), Sampler(nil)}))
	es := s.Entries()
	assert.Equal(t, uint32(4), es[0].Binding)
	assert.Equal(t, uint32(5), es[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, es[0].Visibility)
}

func TestSchema_Descriptor(t *testing.T) {
	s := NewSchema("mixed",
		UniformEntry(0, wgpu.ShaderStageVertex, 64),
		StorageEntry(1, wgpu.ShaderStageVertex, 128),
		Entry{Binding: 2, Visibility: wgpu.ShaderStageFragment, Kind: KindTexture},
		Entry{Binding: 3, Visibility: wgpu.ShaderStageFragment, Kind: KindTexture, SampleType: wgpu.TextureSampleTypeUnfilterableFloat},
		Entry{Binding: 4, Visibility: wgpu.ShaderStageFragment, Kind: KindSampler},
	)
	desc := s.Descriptor()
	require.Len(t, desc.Entries, 5)
	assert.Equal(t, "mixed", desc.Label)

	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(64), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, desc.Entries[1].Buffer.Type)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, desc.Entries[2].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[2].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, desc.Entries[3].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[4].Sampler.Type)
	assert.Equal(t, wgpu.BufferBindingTypeUndefined, desc.Entries[4].Buffer.Type)
}

func TestSchema_EntriesIsACopy(t *testing.T) {
	s := uniformSchema()
	es := s.Entries()
	es[0].Size = 1
	assert.Equal(t, uint64(144), s.Entries()[0].Size)
	assert.Equal(t, 4, s.Len())
}
