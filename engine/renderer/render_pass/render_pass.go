// Package render_pass records one render pass per frame for the active effect.
package render_pass

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/state"
	"github.com/cogentcore/webgpu/wgpu"
)

// Target is the color attachment a pass renders into: the surface texture of the frame or an
// offscreen texture.
type Target struct {
	View   *wgpu.TextureView
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
}

// RenderPass records the draw commands of one effect.
type RenderPass interface {
	// Name returns the effect name of the pass.
	Name() string

	// Render records exactly one render pass into encoder, clearing target first.
	//
	// Parameters:
	//   - target: the color attachment
	//   - encoder: the frame's command encoder
	Render(target Target, encoder *wgpu.CommandEncoder)
}

// DefaultClearColor is the clear color of the Simple effect before any cursor input.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}

// simplePass draws the selected geometry with the selected texture.
type simplePass struct {
	layout pipeline.Layout
	state  *state.SimpleState
	clear  wgpu.Color
}

// pbrPass draws the 7x7 instanced sphere grid with a depth test.
type pbrPass struct {
	layout pipeline.Layout
	state  *state.PbrState
	clear  wgpu.Color
}

// equirectPass clears the target and binds the environment pipeline without drawing.
type equirectPass struct {
	layout pipeline.Layout
	state  *state.EquirectState
	clear  wgpu.Color
}

var (
	_ RenderPass = &simplePass{}
	_ RenderPass = &pbrPass{}
	_ RenderPass = &equirectPass{}
)

// SimplePass is the Simple variant. Its clear color follows the cursor.
type SimplePass interface {
	RenderPass

	// SetClearColor replaces the clear color used by the next Render.
	SetClearColor(c wgpu.Color)

	// ClearColor returns the current clear color.
	ClearColor() wgpu.Color
}

// NewSimplePass creates the Simple variant.
//
// Parameters:
//   - layout: the Simple layout
//   - s: the Simple state drawn from
//
// Returns:
//   - SimplePass: the pass, clearing to DefaultClearColor
func NewSimplePass(layout pipeline.Layout, s *state.SimpleState) SimplePass {
	return &simplePass{layout: layout, state: s, clear: DefaultClearColor}
}

// NewPbrPass creates the Pbr variant.
func NewPbrPass(layout pipeline.Layout, s *state.PbrState, clear wgpu.Color) RenderPass {
	return &pbrPass{layout: layout, state: s, clear: clear}
}

// NewEquirectPass creates the Equirect variant.
func NewEquirectPass(layout pipeline.Layout, s *state.EquirectState, clear wgpu.Color) RenderPass {
	return &equirectPass{layout: layout, state: s, clear: clear}
}

func (p *simplePass) Name() string {
	return p.layout.Key()
}

func (p *simplePass) SetClearColor(c wgpu.Color) {
	p.clear = c
}

func (p *simplePass) ClearColor() wgpu.Color {
	return p.clear
}

func (p *simplePass) Render(target Target, encoder *wgpu.CommandEncoder) {
	desc := colorPassDescriptor(p.Name(), target, p.clear)
	pass := encoder.BeginRenderPass(&desc)
	defer pass.End()

	g, textureBindGroup, ok := p.state.Current()
	if !ok {
		return
	}
	pass.SetPipeline(p.state.Pipeline())
	pass.SetBindGroup(pipeline.UniformGroup, p.state.UniformBindGroup(), nil)
	pass.SetBindGroup(pipeline.TextureGroup, textureBindGroup, nil)
	pass.SetVertexBuffer(0, g.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(g.IndexBuffer(), wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(g.IndexCount(), 1, 0, 0, 0)
}

func (p *pbrPass) Name() string {
	return p.layout.Key()
}

func (p *pbrPass) Render(target Target, encoder *wgpu.CommandEncoder) {
	desc := colorPassDescriptor(p.Name(), target, p.clear)
	desc.DepthStencilAttachment = depthAttachment(p.state.Depth().View())
	pass := encoder.BeginRenderPass(&desc)
	defer pass.End()

	sphere := p.state.Sphere()
	pass.SetPipeline(p.state.Pipeline())
	pass.SetBindGroup(pipeline.UniformGroup, p.state.UniformBindGroup(), nil)
	pass.SetBindGroup(pipeline.TextureGroup, p.state.TextureBindGroup(), nil)
	pass.SetVertexBuffer(0, sphere.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(sphere.IndexBuffer(), wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(sphere.IndexCount(), pipeline.InstanceCount, 0, 0, 0)
}

func (p *equirectPass) Name() string {
	return p.layout.Key()
}

func (p *equirectPass) Render(target Target, encoder *wgpu.CommandEncoder) {
	desc := colorPassDescriptor(p.Name(), target, p.clear)
	pass := encoder.BeginRenderPass(&desc)
	defer pass.End()

	pass.SetPipeline(p.state.Pipeline())
	pass.SetBindGroup(pipeline.UniformGroup, p.state.UniformBindGroup(), nil)
}

// colorPassDescriptor clears and stores a single color attachment.
func colorPassDescriptor(name string, target Target, clear wgpu.Color) wgpu.RenderPassDescriptor {
	return wgpu.RenderPassDescriptor{
		Label: name + " Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
	}
}

// depthAttachment clears depth to 1.0 at the start of the pass.
func depthAttachment(view *wgpu.TextureView) *wgpu.RenderPassDepthStencilAttachment {
	return &wgpu.RenderPassDepthStencilAttachment{
		View:            view,
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
}

// CursorClearColor maps a cursor position onto a clear color: red follows x across the width and
// green follows y down the height. Blue and alpha are kept from base. Positions outside the
// window clamp to [0, 1].
//
// Parameters:
//   - base: the color whose blue and alpha are kept
//   - x, y: the cursor position in window coordinates
//   - width, height: the window size
//
// Returns:
//   - wgpu.Color: the new clear color
func CursorClearColor(base wgpu.Color, x, y float64, width, height int) wgpu.Color {
	base.R = unit(x, width)
	base.G = unit(y, height)
	return base
}

func unit(v float64, extent int) float64 {
	if extent <= 0 {
		return 0
	}
	return min(max(v/float64(extent), 0), 1)
}
