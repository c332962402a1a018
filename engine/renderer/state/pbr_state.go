package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
)

// PbrAssets is the decoded material and environment data the PBR state uploads.
type PbrAssets struct {
	Albedo    common.TextureStagingData
	Roughness common.TextureStagingData
	Metallic  common.TextureStagingData
	Normal    common.TextureStagingData
	AO        common.TextureStagingData
	// Environment is the equirectangular HDR map. It is uploaded but not bound.
	Environment common.HDRStagingData
}

// material is the five texture channels of the sphere material.
type material struct {
	albedo, roughness, metallic, normal, ao texture.Texture
}

// bound returns the channels in group 1 slot order.
func (m *material) bound() []texture.Texture {
	return []texture.Texture{m.albedo, m.roughness, m.ao, m.normal}
}

func (m *material) release() {
	for _, t := range []texture.Texture{m.albedo, m.roughness, m.metallic, m.normal, m.ao} {
		if t != nil {
			t.Release()
		}
	}
}

// PbrState is the state of the instanced sphere grid.
type PbrState struct {
	device *wgpu.Device
	belt   *StagingBelt
	cfg    stateConfig

	pipeline *wgpu.RenderPipeline
	depth    texture.Texture
	sphere   geometry.Geometry

	mvp             *mvpBlock
	lighting        uniforms.PbrFragmentUniforms
	lightingBuffer  *wgpu.Buffer
	transformBuffer *wgpu.Buffer
	materialBuffer  *wgpu.Buffer

	material    material
	environment texture.Texture

	uniformBindGroup *wgpu.BindGroup
	textureBindGroup *wgpu.BindGroup
}

var _ State = &PbrState{}

// NewPbrState builds everything the PBR pass draws with: the pipeline, a depth texture of the
// framebuffer size, the 64x64 UV sphere, the instance storage buffers, the lighting block, and
// the material and environment textures.
//
// Parameters:
//   - device, queue: the GPU context
//   - layout: the Pbr effect layout
//   - belt: the staging belt uniform updates go through
//   - targetFormat: the color format of the render target
//   - width, height: the framebuffer size
//   - assets: the decoded textures
//   - opts: functional options
//
// Returns:
//   - *PbrState: the state
//   - error: the first construction error; everything built before it is released
func NewPbrState(device *wgpu.Device, queue *wgpu.Queue, layout pipeline.Layout, belt *StagingBelt, targetFormat wgpu.TextureFormat, width, height uint32, assets PbrAssets, opts ...StateBuilderOption) (*PbrState, error) {
	s := &PbrState{device: device, belt: belt, lighting: uniforms.DefaultPbrFragmentUniforms(), cfg: newStateConfig(opts)}
	if err := s.build(queue, layout, targetFormat, width, height, assets); err != nil {
		s.Release()
		return nil, fmt.Errorf("pbr: %w", err)
	}
	return s, nil
}

func (s *PbrState) build(queue *wgpu.Queue, layout pipeline.Layout, targetFormat wgpu.TextureFormat, width, height uint32, assets PbrAssets) error {
	var err error
	if s.pipeline, err = layout.Pipeline(geometry.VertexTexNormalLayout, targetFormat); err != nil {
		return err
	}
	if s.depth, err = texture.NewDepthTexture(s.device, "pbr depth", width, height); err != nil {
		return err
	}

	vertices, indices := geometry.Sphere(geometry.SphereSegments, geometry.SphereSegments)
	if s.sphere, err = geometry.NewGeometry(s.device, "sphere", vertices, indices); err != nil {
		return err
	}

	if s.mvp, err = newMvpBlock(s.device, "pbr", s.cfg.bufferUsage); err != nil {
		return err
	}
	if s.lightingBuffer, err = s.createBuffer("Lighting", s.lighting.Marshal(), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst|s.cfg.bufferUsage); err != nil {
		return err
	}
	transforms, materials := MakeInstances()
	if s.transformBuffer, err = s.createBuffer("Transforms", uniforms.MarshalTransforms(transforms[:]), wgpu.BufferUsageStorage); err != nil {
		return err
	}
	if s.materialBuffer, err = s.createBuffer("Materials", uniforms.MarshalMaterials(materials[:]), wgpu.BufferUsageStorage); err != nil {
		return err
	}

	s.uniformBindGroup, err = layout.CreateUniformBindGroup("pbr uniforms",
		bind_group_provider.UniformBuffer(s.mvp.buffer, uniforms.MvpUniformsSize),
		bind_group_provider.UniformBuffer(s.lightingBuffer, uniforms.PbrFragmentUniformsSize),
		bind_group_provider.StorageBuffer(s.transformBuffer, pipeline.InstanceCount*uniforms.TransformRawSize),
		bind_group_provider.StorageBuffer(s.materialBuffer, pipeline.InstanceCount*uniforms.MaterialInfoRawSize),
	)
	if err != nil {
		return err
	}

	if err = s.loadMaterial(queue, assets); err != nil {
		return err
	}
	var resources []bind_group_provider.Resource
	for _, t := range s.material.bound() {
		resources = append(resources,
			bind_group_provider.TextureView(t.View()),
			bind_group_provider.Sampler(t.Sampler()),
		)
	}
	if s.textureBindGroup, err = layout.CreateTextureBindGroup("pbr textures", resources...); err != nil {
		return err
	}

	s.environment, err = texture.NewHDRTexture(s.device, queue, "environment", assets.Environment)
	return err
}

func (s *PbrState) createBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := s.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "pbr " + label + " Buffer",
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	return buf, nil
}

func (s *PbrState) loadMaterial(queue *wgpu.Queue, assets PbrAssets) error {
	channels := []struct {
		label string
		data  common.TextureStagingData
		dst   *texture.Texture
	}{
		{"albedo", assets.Albedo, &s.material.albedo},
		{"roughness", assets.Roughness, &s.material.roughness},
		{"metallic", assets.Metallic, &s.material.metallic},
		{"normal", assets.Normal, &s.material.normal},
		{"ao", assets.AO, &s.material.ao},
	}
	for _, ch := range channels {
		tex, err := texture.NewColorTexture(s.device, queue, "pbr "+ch.label, ch.data, common.DefaultSampler())
		if err != nil {
			return err
		}
		*ch.dst = tex
	}
	return nil
}

// Resize replaces the depth texture with one of the new framebuffer size.
//
// Parameters:
//   - width, height: the new framebuffer size
//
// Returns:
//   - error: a device error; the old depth texture is kept in that case
func (s *PbrState) Resize(width, height uint32) error {
	depth, err := texture.NewDepthTexture(s.device, "pbr depth", width, height)
	if err != nil {
		return fmt.Errorf("pbr: resize: %w", err)
	}
	if s.depth != nil {
		s.depth.Release()
	}
	s.depth = depth
	return nil
}

// Depth returns the depth attachment.
func (s *PbrState) Depth() texture.Texture {
	return s.depth
}

// Sphere returns the instanced sphere geometry.
func (s *PbrState) Sphere() geometry.Geometry {
	return s.sphere
}

// Environment returns the HDR environment texture.
func (s *PbrState) Environment() texture.Texture {
	return s.environment
}

// Metallic returns the metallic channel texture, which the shader does not sample.
func (s *PbrState) Metallic() texture.Texture {
	return s.material.metallic
}

// UniformBindGroup returns the group 0 bind group.
func (s *PbrState) UniformBindGroup() *wgpu.BindGroup {
	return s.uniformBindGroup
}

// TextureBindGroup returns the group 1 bind group.
func (s *PbrState) TextureBindGroup() *wgpu.BindGroup {
	return s.textureBindGroup
}

// Mvp returns a copy of the CPU mirror of the MVP block.
func (s *PbrState) Mvp() uniforms.MvpUniforms {
	return s.mvp.mirror
}

// MvpBuffer returns the persistent MVP uniform buffer.
func (s *PbrState) MvpBuffer() *wgpu.Buffer {
	return s.mvp.buffer
}

func (s *PbrState) Pipeline() *wgpu.RenderPipeline {
	return s.pipeline
}

// UpdateUniforms refreshes the view-projection only; instances carry their own model matrices.
func (s *PbrState) UpdateUniforms(encoder *wgpu.CommandEncoder, cam uniforms.ViewProjector, _ float32) error {
	s.mvp.mirror.UpdateViewProj(cam)
	if err := s.mvp.stage(s.belt, encoder); err != nil {
		return fmt.Errorf("pbr: %w", err)
	}
	return nil
}

func (s *PbrState) Release() {
	releaseBindGroup(s.textureBindGroup)
	releaseBindGroup(s.uniformBindGroup)
	s.textureBindGroup, s.uniformBindGroup = nil, nil
	if s.environment != nil {
		s.environment.Release()
		s.environment = nil
	}
	s.material.release()
	s.material = material{}
	for _, buf := range []*wgpu.Buffer{s.lightingBuffer, s.transformBuffer, s.materialBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	s.lightingBuffer, s.transformBuffer, s.materialBuffer = nil, nil, nil
	s.mvp.release()
	if s.sphere != nil {
		s.sphere.Release()
		s.sphere = nil
	}
	if s.depth != nil {
		s.depth.Release()
		s.depth = nil
	}
	s.pipeline = nil
}
