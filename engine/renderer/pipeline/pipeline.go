package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Group indices shared by every effect.
const (
	UniformGroup = 0
	TextureGroup = 1
)

// layout is the implementation of the Layout interface.
type layout struct {
	key    string
	device *wgpu.Device

	vertexShader, fragmentShader shader.Shader
	vertexModule, fragmentModule *wgpu.ShaderModule

	// providers holds one bind group provider per group, indexed by group.
	providers      []bind_group_provider.BindGroupProvider
	pipelineLayout *wgpu.PipelineLayout

	// pipelines caches the compiled pipelines by vertex layout and target format.
	pipelines map[string]*wgpu.RenderPipeline

	shaderFormat      shader.Format
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	cullMode          wgpu.CullMode
	depthFormat       wgpu.TextureFormat
	depthCompare      wgpu.CompareFunction
	depthWriteEnabled bool
	writeMask         wgpu.ColorWriteMask
}

// Layout is the immutable half of one rendering effect: its compiled shader stages, one binding
// schema per bind group, the GPU pipeline layout built from them and the render pipelines compiled
// against it. The Layout owns those pipelines and releases them; bind groups created from it belong
// to the caller.
type Layout interface {
	// Key returns the effect name the layout was built for.
	Key() string

	// Shader retrieves the shader for a stage.
	//
	// Parameters:
	//   - stage: shader.StageVertex or shader.StageFragment
	//
	// Returns:
	//   - shader.Shader: the shader for the stage
	Shader(stage shader.Stage) shader.Shader

	// Schema returns the binding schema of a group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - bind_group_provider.Schema: the schema, or an empty schema for an unknown group
	Schema(group int) bind_group_provider.Schema

	// PipelineLayout returns the GPU pipeline layout.
	PipelineLayout() *wgpu.PipelineLayout

	// Topology returns the primitive topology used by Pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding used by Pipeline.
	FrontFace() wgpu.FrontFace

	// CullMode returns the cull mode used by Pipeline.
	CullMode() wgpu.CullMode

	// DepthFormat returns the depth attachment format, wgpu.TextureFormatUndefined when depth is off.
	DepthFormat() wgpu.TextureFormat

	// Pipeline returns the render pipeline drawing vertices of the given layout into targets of
	// the given color format, compiling it on first use. Later calls with the same vertex layout
	// and format return the same pipeline.
	//
	// Parameters:
	//   - vertexLayout: the vertex buffer layout of the geometry
	//   - targetFormat: the color attachment format
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline, owned by the layout and released by Release
	//   - error: a vertex layout contract violation or a device error
	Pipeline(vertexLayout wgpu.VertexBufferLayout, targetFormat wgpu.TextureFormat) (*wgpu.RenderPipeline, error)

	// CreateUniformBindGroup creates a bind group for the uniform group from resources in slot order.
	//
	// Parameters:
	//   - label: debug label
	//   - resources: the buffers to bind
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group, owned by the caller
	//   - error: a schema or size mismatch
	CreateUniformBindGroup(label string, resources ...bind_group_provider.Resource) (*wgpu.BindGroup, error)

	// CreateTextureBindGroup creates a bind group for the texture group from resources in slot order.
	//
	// Parameters:
	//   - label: debug label
	//   - resources: the texture views and samplers to bind
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group, owned by the caller
	//   - error: a schema mismatch
	CreateTextureBindGroup(label string, resources ...bind_group_provider.Resource) (*wgpu.BindGroup, error)

	// Release releases the pipelines, shader modules, bind group layouts and pipeline layout.
	Release()
}

var _ Layout = &layout{}

// NewLayout builds an effect layout. The binding contract between the shaders and the schemas is
// checked first, then both stages are compiled and the GPU layouts are created. A failure at any
// step is fatal for the effect.
//
// Parameters:
//   - device: the device that owns the GPU objects
//   - key: the effect name used for labels
//   - vertex, fragment: the two shader stages
//   - schemas: one binding schema per bind group, indexed by group
//   - opts: functional options configuring rasterization and depth
//
// Returns:
//   - Layout: the built layout
//   - error: wraps common.ErrBindingContract or common.ErrShaderCompile, or a device error
func NewLayout(device *wgpu.Device, key string, vertex, fragment shader.Shader, schemas []bind_group_provider.Schema, opts ...LayoutBuilderOption) (Layout, error) {
	l := newLayout(key, vertex, fragment, opts...)
	if err := CheckBindingContract(schemas, vertex, fragment); err != nil {
		return nil, err
	}

	var err error
	if l.vertexModule, err = l.createModule(device, vertex); err != nil {
		return nil, err
	}
	if l.fragmentModule, err = l.createModule(device, fragment); err != nil {
		l.Release()
		return nil, err
	}

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(schemas))
	for _, schema := range schemas {
		provider, providerErr := bind_group_provider.NewBindGroupProvider(device, schema)
		if providerErr != nil {
			l.Release()
			return nil, fmt.Errorf("%s: %w", key, providerErr)
		}
		l.providers = append(l.providers, provider)
		bindGroupLayouts = append(bindGroupLayouts, provider.BindGroupLayout())
	}

	l.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            key + " Pipeline Layout",
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		l.Release()
		return nil, fmt.Errorf("%s: create pipeline layout: %w", key, err)
	}
	l.device = device
	return l, nil
}

// newLayout applies the defaults and options without touching the device.
func newLayout(key string, vertex, fragment shader.Shader, opts ...LayoutBuilderOption) *layout {
	l := &layout{
		key:            key,
		vertexShader:   vertex,
		fragmentShader: fragment,
		shaderFormat:   shader.FormatWGSL,
		topology:       wgpu.PrimitiveTopologyTriangleList,
		frontFace:      wgpu.FrontFaceCCW,
		cullMode:       wgpu.CullModeBack,
		depthFormat:    wgpu.TextureFormatUndefined,
		depthCompare:   wgpu.CompareFunctionAlways,
		writeMask:      wgpu.ColorWriteMaskAll,
		pipelines:      make(map[string]*wgpu.RenderPipeline),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *layout) createModule(device *wgpu.Device, s shader.Shader) (*wgpu.ShaderModule, error) {
	desc, err := s.Module(l.shaderFormat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.key, err)
	}
	module, err := device.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create module %s: %v: %w", l.key, s.Key(), err, common.ErrShaderCompile)
	}
	return module, nil
}

func (l *layout) Key() string {
	return l.key
}

func (l *layout) Shader(stage shader.Stage) shader.Shader {
	if stage == shader.StageFragment {
		return l.fragmentShader
	}
	return l.vertexShader
}

func (l *layout) Schema(group int) bind_group_provider.Schema {
	if group < 0 || group >= len(l.providers) {
		return bind_group_provider.Schema{}
	}
	return l.providers[group].Schema()
}

func (l *layout) PipelineLayout() *wgpu.PipelineLayout {
	return l.pipelineLayout
}

func (l *layout) Topology() wgpu.PrimitiveTopology {
	return l.topology
}

func (l *layout) FrontFace() wgpu.FrontFace {
	return l.frontFace
}

func (l *layout) CullMode() wgpu.CullMode {
	return l.cullMode
}

func (l *layout) DepthFormat() wgpu.TextureFormat {
	return l.depthFormat
}

func (l *layout) Pipeline(vertexLayout wgpu.VertexBufferLayout, targetFormat wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	key := pipelineKey(vertexLayout, targetFormat)
	if cached, ok := l.pipelines[key]; ok {
		return cached, nil
	}
	if err := CheckVertexLayout(l.vertexShader, vertexLayout); err != nil {
		return nil, err
	}
	desc := l.renderPipelineDescriptor(vertexLayout, targetFormat)
	created, err := l.device.CreateRenderPipeline(&desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create render pipeline: %w", l.key, err)
	}
	l.pipelines[key] = created
	return created, nil
}

// pipelineKey identifies a pipeline by everything Pipeline varies on.
func pipelineKey(vertexLayout wgpu.VertexBufferLayout, targetFormat wgpu.TextureFormat) string {
	return fmt.Sprintf("%d/%d/%v/%d", vertexLayout.ArrayStride, vertexLayout.StepMode, vertexLayout.Attributes, targetFormat)
}

// renderPipelineDescriptor assembles the pipeline descriptor from the layout's fixed state.
func (l *layout) renderPipelineDescriptor(vertexLayout wgpu.VertexBufferLayout, targetFormat wgpu.TextureFormat) wgpu.RenderPipelineDescriptor {
	desc := wgpu.RenderPipelineDescriptor{
		Label:  l.key + " Render Pipeline",
		Layout: l.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     l.vertexModule,
			EntryPoint: l.vertexShader.EntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     l.fragmentModule,
			EntryPoint: l.fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    targetFormat,
				WriteMask: l.writeMask,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  l.topology,
			FrontFace: l.frontFace,
			CullMode:  l.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if l.depthFormat != wgpu.TextureFormatUndefined {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            l.depthFormat,
			DepthWriteEnabled: l.depthWriteEnabled,
			DepthCompare:      l.depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}
	return desc
}

func (l *layout) CreateUniformBindGroup(label string, resources ...bind_group_provider.Resource) (*wgpu.BindGroup, error) {
	return l.createBindGroup(UniformGroup, label, resources)
}

func (l *layout) CreateTextureBindGroup(label string, resources ...bind_group_provider.Resource) (*wgpu.BindGroup, error) {
	return l.createBindGroup(TextureGroup, label, resources)
}

func (l *layout) createBindGroup(group int, label string, resources []bind_group_provider.Resource) (*wgpu.BindGroup, error) {
	if group >= len(l.providers) {
		return nil, fmt.Errorf("%s: no schema for group %d: %w", l.key, group, common.ErrSchemaMismatch)
	}
	return l.providers[group].CreateBindGroup(label, resources...)
}

func (l *layout) Release() {
	for key, p := range l.pipelines {
		p.Release()
		delete(l.pipelines, key)
	}
	if l.pipelineLayout != nil {
		l.pipelineLayout.Release()
		l.pipelineLayout = nil
	}
	for _, p := range l.providers {
		p.Release()
	}
	l.providers = nil
	if l.fragmentModule != nil {
		l.fragmentModule.Release()
		l.fragmentModule = nil
	}
	if l.vertexModule != nil {
		l.vertexModule.Release()
		l.vertexModule = nil
	}
}
