// Package state holds the mutable half of each effect: the GPU buffers, textures and bind groups
// created against an effect's pipeline layout, and the CPU mirrors that change from frame to frame.
package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
)

// State is the per-frame surface shared by every effect state.
type State interface {
	// Pipeline returns the compiled render pipeline the state draws with. The effect's layout
	// owns it.
	Pipeline() *wgpu.RenderPipeline

	// UpdateUniforms refreshes the MVP mirror from the camera and stages it into the GPU
	// uniform buffer on encoder.
	//
	// Parameters:
	//   - encoder: the current frame's command encoder
	//   - cam: the camera the view-projection is read from
	//   - modelAngle: the Z rotation of the model in radians, ignored by effects without a model rotation
	//
	// Returns:
	//   - error: a staging failure
	UpdateUniforms(encoder *wgpu.CommandEncoder, cam uniforms.ViewProjector, modelAngle float32) error

	// Release frees every GPU object the state created.
	Release()
}

// mvpBlock is an MVP uniform mirror and the persistent GPU buffer it is staged into.
type mvpBlock struct {
	mirror uniforms.MvpUniforms
	buffer *wgpu.Buffer
}

func newMvpBlock(device *wgpu.Device, label string, extraUsage wgpu.BufferUsage) (*mvpBlock, error) {
	b := &mvpBlock{mirror: uniforms.NewMvpUniforms()}
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " MVP Buffer",
		Contents: b.mirror.Marshal(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst | extraUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create mvp buffer: %w", label, err)
	}
	b.buffer = buf
	return b, nil
}

func (b *mvpBlock) stage(belt *StagingBelt, encoder *wgpu.CommandEncoder) error {
	return belt.Stage(encoder, b.buffer, b.mirror.Marshal())
}

func (b *mvpBlock) release() {
	if b != nil && b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

// cycle advances an index modulo a list length. Lists of zero or one element never move.
func cycle(index, n int) int {
	if n <= 1 {
		return index
	}
	return (index + 1) % n
}

func releaseBindGroup(bg *wgpu.BindGroup) {
	if bg != nil {
		bg.Release()
	}
}
