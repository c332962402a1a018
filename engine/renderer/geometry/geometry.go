package geometry

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// geometry is the implementation of the Geometry interface.
type geometry struct {
	label        string
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCount  uint32
	indexCount   uint32
}

// Geometry is an immutable vertex buffer and 16-bit index buffer pair.
type Geometry interface {
	// Label returns the debug label the buffers were created with.
	Label() string

	// VertexBuffer returns the GPU vertex buffer.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer holding uint16 indices.
	IndexBuffer() *wgpu.Buffer

	// VertexCount returns the number of vertices in the vertex buffer.
	VertexCount() uint32

	// IndexCount returns the number of indices in the index buffer.
	IndexCount() uint32

	// Release frees both GPU buffers.
	Release()
}

var _ Geometry = &geometry{}

// NewGeometry uploads vertices and indices into new Vertex and Index buffers.
//
// Parameters:
//   - device: the device that owns the buffers
//   - label: debug label prefix for the buffers
//   - vertices: the vertex data
//   - indices: 16-bit indices into vertices
//
// Returns:
//   - Geometry: the uploaded geometry
//   - error: an error if either slice is empty or a buffer could not be created
func NewGeometry[V Vertex](device *wgpu.Device, label string, vertices []V, indices []uint16) (Geometry, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("geometry %q: vertices and indices must not be empty", label)
	}

	vb, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " Vertex Buffer",
		Contents: common.SliceToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("geometry %q: vertex buffer: %w", label, err)
	}

	ib, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + " Index Buffer",
		Contents: indexBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("geometry %q: index buffer: %w", label, err)
	}

	return &geometry{
		label:        label,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  uint32(len(vertices)),
		indexCount:   uint32(len(indices)),
	}, nil
}

// indexBytes returns the index data padded to a multiple of 4 bytes, which buffer
// initialization requires. The index count is unaffected.
func indexBytes(indices []uint16) []byte {
	if len(indices)%2 == 0 {
		return common.SliceToBytes(indices)
	}
	padded := make([]uint16, len(indices)+1)
	copy(padded, indices)
	return common.SliceToBytes(padded)
}

func (g *geometry) Label() string {
	return g.label
}

func (g *geometry) VertexBuffer() *wgpu.Buffer {
	return g.vertexBuffer
}

func (g *geometry) IndexBuffer() *wgpu.Buffer {
	return g.indexBuffer
}

func (g *geometry) VertexCount() uint32 {
	return g.vertexCount
}

func (g *geometry) IndexCount() uint32 {
	return g.indexCount
}

func (g *geometry) Release() {
	if g.vertexBuffer != nil {
		g.vertexBuffer.Release()
		g.vertexBuffer = nil
	}
	if g.indexBuffer != nil {
		g.indexBuffer.Release()
		g.indexBuffer = nil
	}
}
