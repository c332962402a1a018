package pipeline

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// LayoutBuilderOption is a functional option used to configure a Layout during construction.
type LayoutBuilderOption func(*layout)

// WithTopology sets the primitive topology of pipelines created from the layout.
//
// Parameters:
//   - topology: the primitive topology
//
// Returns:
//   - LayoutBuilderOption: a function that sets the topology
func WithTopology(topology wgpu.PrimitiveTopology) LayoutBuilderOption {
	return func(l *layout) {
		l.topology = topology
	}
}

// WithFrontFace sets the winding order treated as front facing.
//
// Parameters:
//   - frontFace: wgpu.FrontFaceCCW or wgpu.FrontFaceCW
//
// Returns:
//   - LayoutBuilderOption: a function that sets the front face
func WithFrontFace(frontFace wgpu.FrontFace) LayoutBuilderOption {
	return func(l *layout) {
		l.frontFace = frontFace
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - cullMode: the cull mode
//
// Returns:
//   - LayoutBuilderOption: a function that sets the cull mode
func WithCullMode(cullMode wgpu.CullMode) LayoutBuilderOption {
	return func(l *layout) {
		l.cullMode = cullMode
	}
}

// WithDepth enables a depth attachment of the given format with a less-than test and depth writes.
//
// Parameters:
//   - format: the depth texture format
//
// Returns:
//   - LayoutBuilderOption: a function that enables depth testing
func WithDepth(format wgpu.TextureFormat) LayoutBuilderOption {
	return func(l *layout) {
		l.depthFormat = format
		l.depthCompare = wgpu.CompareFunctionLess
		l.depthWriteEnabled = true
	}
}

// WithShaderFormat selects WGSL or SPIR-V shader modules. An empty format keeps WGSL.
//
// Parameters:
//   - format: shader.FormatWGSL or shader.FormatSPIRV
//
// Returns:
//   - LayoutBuilderOption: a function that sets the module format
func WithShaderFormat(format shader.Format) LayoutBuilderOption {
	return func(l *layout) {
		if format != "" {
			l.shaderFormat = format
		}
	}
}
