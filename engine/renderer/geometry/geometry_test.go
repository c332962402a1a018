package geometry

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexLayoutStrides(t *testing.T) {
	assert.Equal(t, uint64(12), VertexPlainLayout.ArrayStride)
	assert.Equal(t, uint64(20), VertexTexLayout.ArrayStride)
	assert.Equal(t, uint64(32), VertexTexNormalLayout.ArrayStride)
	assert.Equal(t, uintptr(32), unsafe.Sizeof(VertexTexNormal{}))

	assert.Equal(t, uint64(unsafe.Offsetof(VertexTex{}.TexCoords)), VertexTexLayout.Attributes[1].Offset)
	assert.Equal(t, uint64(unsafe.Offsetof(VertexTexNormal{}.Normal)), VertexTexNormalLayout.Attributes[2].Offset)
}

func TestSphereCounts(t *testing.T) {
	vertices, indices := Sphere(SphereSegments, SphereSegments)
	assert.Len(t, vertices, 65*65)
	assert.Len(t, indices, 65*64*2)

	for i, idx := range indices {
		require.Less(t, int(idx), len(vertices), "index %d out of range", i)
	}
}

func TestSphereStripConnectivity(t *testing.T) {
	const xs, ys = 4, 3
	_, indices := Sphere(xs, ys)
	row := uint16(xs + 1)

	// first row runs left to right, pairing each top vertex with the one below it
	assert.Equal(t, []uint16{0, row, 1, row + 1}, indices[:4])

	// second row starts at the right edge where the first one ended
	second := indices[int(row)*2:]
	assert.Equal(t, 2*row+xs, second[0])
	assert.Equal(t, row+xs, second[1])

	// consecutive rows share the edge vertex so the strip needs no restart
	firstEnd := indices[int(row)*2-1]
	assert.Equal(t, row+xs, firstEnd)
	assert.Equal(t, firstEnd, second[1])
}

func TestSphereVertices(t *testing.T) {
	vertices, _ := Sphere(SphereSegments, SphereSegments)

	top := vertices[0]
	assert.InDelta(t, 1, top.Position[1], 1e-6)
	assert.Equal(t, [2]float32{0, 0}, top.TexCoords)

	bottom := vertices[len(vertices)-1]
	assert.InDelta(t, -1, bottom.Position[1], 1e-6)
	assert.Equal(t, [2]float32{1, 1}, bottom.TexCoords)

	for _, v := range vertices {
		assert.Equal(t, v.Position, v.Normal)
		l := v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2]
		assert.InDelta(t, 1, l, 1e-5)
	}
}

func TestConstMeshes(t *testing.T) {
	pv, pi := Pentagon()
	assert.Len(t, pv, 5)
	assert.Equal(t, []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4}, pi)

	cv, ci := Circle()
	assert.Len(t, cv, 9)
	assert.Len(t, ci, 24)
	for i := 0; i < len(ci); i += 3 {
		assert.Equal(t, uint16(0), ci[i], "every triangle fans from the center")
	}

	// fresh slices every call
	pv[0].Position[0] = 42
	again, _ := Pentagon()
	assert.NotEqual(t, float32(42), again[0].Position[0])
}

func TestIndexBytesPadding(t *testing.T) {
	assert.Len(t, indexBytes([]uint16{1, 2}), 4)
	assert.Len(t, indexBytes([]uint16{1, 2, 3}), 8)
}
