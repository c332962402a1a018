package shader

import (
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// Binding is one @group/@binding resource declaration reflected from WGSL source.
type Binding struct {
	Group   uint32
	Binding uint32
	// Name is the WGSL variable name.
	Name string
	Kind bind_group_provider.ResourceKind
	// Size is the byte size of the bound type for buffer kinds, zero otherwise.
	Size uint64
	// Writable is set for var<storage, read_write> buffers.
	Writable bool
}

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
