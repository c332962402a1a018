package render_pass

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorPassDescriptor(t *testing.T) {
	clear := wgpu.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}
	desc := colorPassDescriptor("simple", Target{Width: 8, Height: 8}, clear)

	assert.Equal(t, "simple Render Pass", desc.Label)
	require.Len(t, desc.ColorAttachments, 1)
	att := desc.ColorAttachments[0]
	assert.Equal(t, wgpu.LoadOpClear, att.LoadOp)
	assert.Equal(t, wgpu.StoreOpStore, att.StoreOp)
	assert.Equal(t, clear, att.ClearValue)
	assert.Nil(t, desc.DepthStencilAttachment)
}

func TestDepthAttachment(t *testing.T) {
	d := depthAttachment(nil)
	assert.Equal(t, wgpu.LoadOpClear, d.DepthLoadOp)
	assert.Equal(t, float32(1), d.DepthClearValue)
	assert.Equal(t, uint32(0), d.StencilClearValue)
}

func TestCursorClearColor(t *testing.T) {
	c := CursorClearColor(DefaultClearColor, 200, 150, 800, 600)
	assert.Equal(t, wgpu.Color{R: 0.25, G: 0.25, B: DefaultClearColor.B, A: 1}, c)

	c = CursorClearColor(DefaultClearColor, -5, 9000, 800, 600)
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, 1.0, c.G)

	c = CursorClearColor(DefaultClearColor, 10, 10, 0, 0)
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, 0.0, c.G)
}
