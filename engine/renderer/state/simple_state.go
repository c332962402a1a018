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

// boundTexture is a texture and the group 1 bind group that samples it.
type boundTexture struct {
	texture   texture.Texture
	bindGroup *wgpu.BindGroup
}

// SimpleState is the state of the textured 2D effect: a list of geometries and a list of
// textures, one of each selected at a time, drawn with a rotating model matrix.
type SimpleState struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	layout pipeline.Layout
	belt   *StagingBelt

	pipeline         *wgpu.RenderPipeline
	mvp              *mvpBlock
	uniformBindGroup *wgpu.BindGroup

	geometries    []geometry.Geometry
	textures      []boundTexture
	geometryIndex int
	textureIndex  int
}

var _ State = &SimpleState{}

// NewSimpleState creates the Simple pipeline, its MVP buffer and uniform bind group. Geometries
// and textures are added afterwards.
//
// Parameters:
//   - device, queue: the GPU context
//   - layout: the Simple effect layout
//   - belt: the staging belt uniform updates go through
//   - targetFormat: the color format of the render target
//   - opts: functional options
//
// Returns:
//   - *SimpleState: the state
//   - error: a pipeline, buffer or bind group construction error
func NewSimpleState(device *wgpu.Device, queue *wgpu.Queue, layout pipeline.Layout, belt *StagingBelt, targetFormat wgpu.TextureFormat, opts ...StateBuilderOption) (*SimpleState, error) {
	s := &SimpleState{device: device, queue: queue, layout: layout, belt: belt}
	cfg := newStateConfig(opts)

	var err error
	if s.pipeline, err = layout.Pipeline(geometry.VertexTexLayout, targetFormat); err != nil {
		return nil, err
	}
	if s.mvp, err = newMvpBlock(device, "simple", cfg.bufferUsage); err != nil {
		s.Release()
		return nil, err
	}
	s.uniformBindGroup, err = layout.CreateUniformBindGroup("simple uniforms",
		bind_group_provider.UniformBuffer(s.mvp.buffer, uniforms.MvpUniformsSize),
	)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("simple: %w", err)
	}
	return s, nil
}

// AddGeometry appends a geometry drawn with the VertexTex layout. The state takes ownership.
//
// Returns:
//   - int: the index of the new geometry
func (s *SimpleState) AddGeometry(g geometry.Geometry) int {
	s.geometries = append(s.geometries, g)
	return len(s.geometries) - 1
}

// AddTexture uploads pixels into a new texture and builds its bind group.
//
// Parameters:
//   - label: debug label
//   - data: the decoded pixels
//
// Returns:
//   - int: the index of the new texture
//   - error: an upload or bind group error
func (s *SimpleState) AddTexture(label string, data common.TextureStagingData) (int, error) {
	tex, err := texture.NewColorTexture(s.device, s.queue, label, data, common.DefaultSampler())
	if err != nil {
		return -1, err
	}
	bg, err := s.layout.CreateTextureBindGroup(label,
		bind_group_provider.TextureView(tex.View()),
		bind_group_provider.Sampler(tex.Sampler()),
	)
	if err != nil {
		tex.Release()
		return -1, fmt.Errorf("simple: %w", err)
	}
	s.textures = append(s.textures, boundTexture{texture: tex, bindGroup: bg})
	return len(s.textures) - 1, nil
}

// CycleGeometry selects the next geometry, wrapping to the first.
func (s *SimpleState) CycleGeometry() {
	s.geometryIndex = cycle(s.geometryIndex, len(s.geometries))
}

// CycleTexture selects the next texture, wrapping to the first.
func (s *SimpleState) CycleTexture() {
	s.textureIndex = cycle(s.textureIndex, len(s.textures))
}

// GeometryIndex returns the index of the selected geometry.
func (s *SimpleState) GeometryIndex() int {
	return s.geometryIndex
}

// TextureIndex returns the index of the selected texture.
func (s *SimpleState) TextureIndex() int {
	return s.textureIndex
}

// Current returns the selected geometry and texture bind group. ok is false until at least one
// of each has been added.
func (s *SimpleState) Current() (g geometry.Geometry, textureBindGroup *wgpu.BindGroup, ok bool) {
	if len(s.geometries) == 0 || len(s.textures) == 0 {
		return nil, nil, false
	}
	return s.geometries[s.geometryIndex], s.textures[s.textureIndex].bindGroup, true
}

// UniformBindGroup returns the group 0 bind group.
func (s *SimpleState) UniformBindGroup() *wgpu.BindGroup {
	return s.uniformBindGroup
}

// Mvp returns a copy of the CPU mirror of the MVP block.
func (s *SimpleState) Mvp() uniforms.MvpUniforms {
	return s.mvp.mirror
}

// MvpBuffer returns the GPU buffer the MVP block is staged into.
func (s *SimpleState) MvpBuffer() *wgpu.Buffer {
	return s.mvp.buffer
}

func (s *SimpleState) Pipeline() *wgpu.RenderPipeline {
	return s.pipeline
}

func (s *SimpleState) UpdateUniforms(encoder *wgpu.CommandEncoder, cam uniforms.ViewProjector, modelAngle float32) error {
	s.mvp.mirror.UpdateViewProj(cam)
	s.mvp.mirror.UpdateModelRotation(modelAngle)
	if err := s.mvp.stage(s.belt, encoder); err != nil {
		return fmt.Errorf("simple: %w", err)
	}
	return nil
}

func (s *SimpleState) Release() {
	for _, t := range s.textures {
		releaseBindGroup(t.bindGroup)
		t.texture.Release()
	}
	s.textures = nil
	for _, g := range s.geometries {
		g.Release()
	}
	s.geometries = nil
	releaseBindGroup(s.uniformBindGroup)
	s.uniformBindGroup = nil
	s.mvp.release()
	s.pipeline = nil
}
