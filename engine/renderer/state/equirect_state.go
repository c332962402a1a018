package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
)

// EquirectState is the state of the environment-map stub: an MVP block and its bind group.
// No texture is bound and nothing is drawn.
type EquirectState struct {
	belt *StagingBelt

	pipeline         *wgpu.RenderPipeline
	mvp              *mvpBlock
	uniformBindGroup *wgpu.BindGroup
}

var _ State = &EquirectState{}

// NewEquirectState creates the Equirect pipeline for position-only vertices, its MVP buffer and
// uniform bind group.
func NewEquirectState(device *wgpu.Device, layout pipeline.Layout, belt *StagingBelt, targetFormat wgpu.TextureFormat, opts ...StateBuilderOption) (*EquirectState, error) {
	s := &EquirectState{belt: belt}
	cfg := newStateConfig(opts)

	var err error
	if s.pipeline, err = layout.Pipeline(geometry.VertexPlainLayout, targetFormat); err != nil {
		return nil, err
	}
	if s.mvp, err = newMvpBlock(device, "equirect", cfg.bufferUsage); err != nil {
		s.Release()
		return nil, err
	}
	s.uniformBindGroup, err = layout.CreateUniformBindGroup("equirect uniforms",
		bind_group_provider.UniformBuffer(s.mvp.buffer, uniforms.MvpUniformsSize),
	)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("equirect: %w", err)
	}
	return s, nil
}

// UniformBindGroup returns the group 0 bind group.
func (s *EquirectState) UniformBindGroup() *wgpu.BindGroup {
	return s.uniformBindGroup
}

// Mvp returns a copy of the CPU mirror of the MVP block.
func (s *EquirectState) Mvp() uniforms.MvpUniforms {
	return s.mvp.mirror
}

// MvpBuffer returns the GPU buffer the MVP block is staged into.
func (s *EquirectState) MvpBuffer() *wgpu.Buffer {
	return s.mvp.buffer
}

func (s *EquirectState) Pipeline() *wgpu.RenderPipeline {
	return s.pipeline
}

func (s *EquirectState) UpdateUniforms(encoder *wgpu.CommandEncoder, cam uniforms.ViewProjector, modelAngle float32) error {
	s.mvp.mirror.UpdateViewProj(cam)
	s.mvp.mirror.UpdateModelRotation(modelAngle)
	if err := s.mvp.stage(s.belt, encoder); err != nil {
		return fmt.Errorf("equirect: %w", err)
	}
	return nil
}

func (s *EquirectState) Release() {
	releaseBindGroup(s.uniformBindGroup)
	s.uniformBindGroup = nil
	s.mvp.release()
	s.pipeline = nil
}
