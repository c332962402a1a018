package pipeline

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
)

// InstanceCount is the number of spheres in the PBR grid.
const InstanceCount = 49

// PbrTextureChannels is the number of material textures bound by the PBR effect.
const PbrTextureChannels = 4

// SingleUniformSchema is the uniform group of the Simple and Equirect effects: one
// vertex-visible MVP block.
func SingleUniformSchema(label string) bind_group_provider.Schema {
	return bind_group_provider.NewSchema(label,
		bind_group_provider.UniformEntry(0, wgpu.ShaderStageVertex, uniforms.MvpUniformsSize),
	)
}

// SingleTextureSchema is the texture group of the Simple and Equirect effects: one texture
// and its sampler.
func SingleTextureSchema(label string) bind_group_provider.Schema {
	return bind_group_provider.NewSchema(label, bind_group_provider.TextureSamplerEntries(0)...)
}

// PbrUniformSchema is the uniform group of the PBR effect: the MVP block, the lighting block,
// and the two per-instance storage arrays.
func PbrUniformSchema() bind_group_provider.Schema {
	return bind_group_provider.NewSchema("pbr uniforms",
		bind_group_provider.UniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, uniforms.MvpUniformsSize),
		bind_group_provider.UniformEntry(1, wgpu.ShaderStageFragment, uniforms.PbrFragmentUniformsSize),
		bind_group_provider.StorageEntry(2, wgpu.ShaderStageVertex, InstanceCount*uniforms.TransformRawSize),
		bind_group_provider.StorageEntry(3, wgpu.ShaderStageFragment, InstanceCount*uniforms.MaterialInfoRawSize),
	)
}

// PbrTextureSchema is the texture group of the PBR effect: albedo, roughness, ambient occlusion
// and normal textures, each followed by its sampler.
func PbrTextureSchema() bind_group_provider.Schema {
	var entries []bind_group_provider.Entry
	for i := uint32(0); i < PbrTextureChannels; i++ {
		entries = append(entries, bind_group_provider.TextureSamplerEntries(2*i)...)
	}
	return bind_group_provider.NewSchema("pbr textures", entries...)
}

// NewSimpleLayout builds the textured-quad effect: triangle list, CCW front face, back culling,
// no depth.
func NewSimpleLayout(device *wgpu.Device, format shader.Format) (Layout, error) {
	return newEffectLayout(device, "simple",
		[]bind_group_provider.Schema{SingleUniformSchema("simple uniforms"), SingleTextureSchema("simple textures")},
		WithShaderFormat(format),
	)
}

// NewEquirectLayout builds the environment-map effect. It shares the Simple schema shape and
// rasterization state.
func NewEquirectLayout(device *wgpu.Device, format shader.Format) (Layout, error) {
	return newEffectLayout(device, "equirect",
		[]bind_group_provider.Schema{SingleUniformSchema("equirect uniforms"), SingleTextureSchema("equirect textures")},
		WithShaderFormat(format),
	)
}

// NewPbrLayout builds the instanced sphere effect: triangle strip, CW front face, back culling,
// and a depth test against depthFormat.
func NewPbrLayout(device *wgpu.Device, format shader.Format, depthFormat wgpu.TextureFormat) (Layout, error) {
	return newEffectLayout(device, "pbr",
		[]bind_group_provider.Schema{PbrUniformSchema(), PbrTextureSchema()},
		WithShaderFormat(format),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithFrontFace(wgpu.FrontFaceCW),
		WithCullMode(wgpu.CullModeBack),
		WithDepth(depthFormat),
	)
}

func newEffectLayout(device *wgpu.Device, name string, schemas []bind_group_provider.Schema, opts ...LayoutBuilderOption) (Layout, error) {
	vertex, err := shader.Load(name, shader.StageVertex)
	if err != nil {
		return nil, err
	}
	fragment, err := shader.Load(name, shader.StageFragment)
	if err != nil {
		return nil, err
	}
	return NewLayout(device, name, vertex, fragment, schemas, opts...)
}
