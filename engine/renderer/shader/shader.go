// Package shader loads the embedded WGSL stage sources, expands their include directives,
// reflects their resource bindings and vertex inputs, and compiles them to SPIR-V.
package shader

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

//go:embed shaders/*.wgsl
var sourceFS embed.FS

// Stage identifies the pipeline stage a shader runs in.
type Stage int

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vert"
	case StageFragment:
		return "frag"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Visibility returns the wgpu stage flag for s.
func (s Stage) Visibility() wgpu.ShaderStage {
	if s == StageFragment {
		return wgpu.ShaderStageFragment
	}
	return wgpu.ShaderStageVertex
}

// Format selects the code handed to the device when a shader module is created. Both formats run
// the naga compile first, so a shader naga rejects never reaches the device.
type Format string

const (
	// FormatWGSL hands the device the expanded WGSL text. It is the default.
	FormatWGSL Format = "wgsl"
	// FormatSPIRV hands the device the SPIR-V module compiled by naga as little-endian bytes.
	// The device must accept a byte-sized code length for this to validate.
	FormatSPIRV Format = "spirv"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

type shader struct {
	key          string
	stage        Stage
	source       string
	entryPoint   string
	bindings     []Binding
	vertexLayout wgpu.VertexBufferLayout
	hasVertex    bool

	spirv []uint32
}

// Shader is one parsed WGSL stage. It exposes the reflected bindings and vertex input layout
// that a pipeline layout checks against its binding schemas, and the module descriptor used
// to create the GPU shader module.
type Shader interface {
	// Key retrieves the shader's label, e.g. "pbr.vert".
	Key() string

	// Stage returns the stage the shader was parsed for.
	Stage() Stage

	// Source returns the WGSL source with include directives expanded.
	Source() string

	// EntryPoint returns the entry point function name (always "main" for the embedded sources).
	EntryPoint() string

	// Bindings returns the reflected @group/@binding declarations sorted by group and binding.
	//
	// Returns:
	//   - []Binding: a copy of the reflected bindings
	Bindings() []Binding

	// VertexLayout returns the packed layout of the vertex input struct.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout
	//   - bool: false for fragment shaders and vertex shaders without an input struct
	VertexLayout() (wgpu.VertexBufferLayout, bool)

	// Compile compiles the source to SPIR-V words with naga. The result is cached.
	//
	// Returns:
	//   - []uint32: the SPIR-V module
	//   - error: wraps common.ErrShaderCompile on failure
	Compile() ([]uint32, error)

	// Module compiles the shader with naga and builds a module descriptor in the requested format.
	//
	// Parameters:
	//   - format: FormatWGSL (also used for "") or FormatSPIRV
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor
	//   - error: wraps common.ErrShaderCompile on failure
	Module(format Format) (*wgpu.ShaderModuleDescriptor, error)
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a WGSL source.
//
// Parameters:
//   - key: a label for the shader, used in errors and GPU debug labels
//   - stage: the stage the source is written for
//   - source: the raw WGSL source, possibly containing include directives
//
// Returns:
//   - Shader: the parsed shader
//   - error: wraps common.ErrShaderCompile if the source cannot be expanded or reflected
func NewShader(key string, stage Stage, source string) (Shader, error) {
	expanded, err := NewPreProcessor().Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %v: %w", key, err, common.ErrShaderCompile)
	}
	cleaned := stripComments(expanded)

	s := &shader{
		key:        key,
		stage:      stage,
		source:     expanded,
		entryPoint: parseEntryPoint(cleaned, stage),
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point: %w", key, stageAttribute(stage), common.ErrShaderCompile)
	}
	s.bindings, err = parseBindings(cleaned)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %v: %w", key, err, common.ErrShaderCompile)
	}
	if stage == StageVertex {
		s.vertexLayout, s.hasVertex = parseVertexLayout(cleaned)
	}
	return s, nil
}

// Load parses one of the embedded stage sources, shaders/<name>.<vert|frag>.wgsl.
//
// Parameters:
//   - name: the effect name, e.g. "simple", "pbr" or "equirect"
//   - stage: the stage to load
//
// Returns:
//   - Shader: the parsed shader
//   - error: wraps common.ErrShaderCompile if the source is missing or cannot be parsed
func Load(name string, stage Stage) (Shader, error) {
	key := name + "." + stage.String()
	data, err := sourceFS.ReadFile("shaders/" + key + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("shader %s: %v: %w", key, err, common.ErrShaderCompile)
	}
	return NewShader(key, stage, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Stage() Stage {
	return s.stage
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Bindings() []Binding {
	return append([]Binding(nil), s.bindings...)
}

func (s *shader) VertexLayout() (wgpu.VertexBufferLayout, bool) {
	return s.vertexLayout, s.hasVertex
}

func (s *shader) Compile() ([]uint32, error) {
	if s.spirv != nil {
		return s.spirv, nil
	}
	spirvBytes, err := naga.Compile(s.source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %v: %w", s.key, err, common.ErrShaderCompile)
	}
	words := bytesToWords(spirvBytes)
	if len(words) == 0 || words[0] != spirvMagic {
		return nil, fmt.Errorf("shader %s: output is not a SPIR-V module: %w", s.key, common.ErrShaderCompile)
	}
	s.spirv = words
	return s.spirv, nil
}

func (s *shader) Module(format Format) (*wgpu.ShaderModuleDescriptor, error) {
	if format != "" && format != FormatWGSL && format != FormatSPIRV {
		return nil, fmt.Errorf("shader %s: unknown module format %q: %w", s.key, format, common.ErrShaderCompile)
	}
	words, err := s.Compile()
	if err != nil {
		return nil, err
	}
	if format == FormatSPIRV {
		return &wgpu.ShaderModuleDescriptor{
			Label:           s.key,
			SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{Code: common.SliceToBytes(words)},
		}, nil
	}
	return &wgpu.ShaderModuleDescriptor{
		Label:          s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.source},
	}, nil
}

// bytesToWords converts little-endian SPIR-V bytes to 32-bit words. Trailing bytes that do not
// fill a word are dropped.
func bytesToWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

func stageAttribute(stage Stage) string {
	if stage == StageFragment {
		return "fragment"
	}
	return "vertex"
}
