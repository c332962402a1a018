package geometry

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexPlain is a position-only vertex.
type VertexPlain struct {
	Position [3]float32
}

// VertexTex is a position plus a 2D texture coordinate.
type VertexTex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// VertexTexNormal is a position, texture coordinate and surface normal.
type VertexTexNormal struct {
	Position  [3]float32
	TexCoords [2]float32
	Normal    [3]float32
}

// Vertex is the set of vertex types that can back a Geometry.
type Vertex interface {
	VertexPlain | VertexTex | VertexTexNormal
}

// VertexPlainLayout describes VertexPlain: location 0 is a vec3 position.
var VertexPlainLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(VertexPlain{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
	},
}

// VertexTexLayout describes VertexTex: location 0 position, location 1 texture coordinate.
var VertexTexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(VertexTex{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	},
}

// VertexTexNormalLayout describes VertexTexNormal: position, texture coordinate, normal at locations 0-2.
var VertexTexNormalLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(unsafe.Sizeof(VertexTexNormal{})),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
	},
}
