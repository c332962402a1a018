package uniforms

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera struct{}

func (fixedCamera) ViewPosition() [4]float32 { return [4]float32{1, 2, 3, 1} }

func (fixedCamera) BuildViewProjection() [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	return m
}

func floatAt(b []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestBlockSizes(t *testing.T) {
	mvp := NewMvpUniforms()
	assert.Equal(t, MvpUniformsSize, mvp.Size())
	assert.Len(t, mvp.Marshal(), MvpUniformsSize)

	pbr := DefaultPbrFragmentUniforms()
	assert.Equal(t, PbrFragmentUniformsSize, pbr.Size())
	assert.Len(t, pbr.Marshal(), PbrFragmentUniformsSize)

	assert.Equal(t, uintptr(TransformRawSize), unsafe.Sizeof(TransformRaw{}))
	assert.Equal(t, uintptr(MaterialInfoRawSize), unsafe.Sizeof(MaterialInfoRaw{}))
}

func TestMvpUniformsLayout(t *testing.T) {
	mvp := NewMvpUniforms()
	mvp.UpdateViewProj(fixedCamera{})
	b := mvp.Marshal()

	assert.Equal(t, float32(1), floatAt(b, 0))
	assert.Equal(t, float32(3), floatAt(b, 8))
	assert.Equal(t, float32(1), floatAt(b, 12))

	// view_proj starts at byte 16
	assert.Equal(t, float32(0), floatAt(b, 16))
	assert.Equal(t, float32(15), floatAt(b, 16+15*4))

	// model starts at byte 80 and is the identity by default
	assert.Equal(t, float32(1), floatAt(b, 80))
	assert.Equal(t, float32(0), floatAt(b, 84))
	assert.Equal(t, float32(1), floatAt(b, 80+15*4))
}

func TestMvpModelRotation(t *testing.T) {
	mvp := NewMvpUniforms()
	mvp.UpdateModelRotation(math.Pi / 2)
	assert.InDelta(t, 0, mvp.Model[0], 1e-6)
	assert.InDelta(t, -1, mvp.Model[1], 1e-6)
	assert.InDelta(t, 1, mvp.Model[4], 1e-6)

	var id [16]float32
	id[0], id[5], id[10], id[15] = 1, 1, 1, 1
	mvp.UpdateModel(id)
	assert.Equal(t, id, mvp.Model)
}

func TestPbrFragmentDefaults(t *testing.T) {
	u := DefaultPbrFragmentUniforms()
	b := u.Marshal()
	require.Len(t, b, 144)

	assert.Equal(t, float32(0.5), floatAt(b, 0))
	// light 0 position at byte 16
	assert.Equal(t, float32(-10), floatAt(b, 16))
	assert.Equal(t, float32(10), floatAt(b, 20))
	assert.Equal(t, float32(10), floatAt(b, 24))
	// light 3 position
	assert.Equal(t, float32(10), floatAt(b, 16+3*16))
	assert.Equal(t, float32(-10), floatAt(b, 16+3*16+4))
	// colors start at byte 80
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(300), floatAt(b, 80+i*16))
		assert.Equal(t, float32(0), floatAt(b, 80+i*16+12))
	}
}

func TestMarshalInstances(t *testing.T) {
	transforms := make([]TransformRaw, 49)
	materials := make([]MaterialInfoRaw, 49)
	assert.Len(t, MarshalTransforms(transforms), 3136)
	assert.Len(t, MarshalMaterials(materials), 784)

	materials[1].Info = [4]float32{0.25, 0.5, 1, 0}
	b := MarshalMaterials(materials)
	assert.Equal(t, float32(0.25), floatAt(b, 16))
	assert.Equal(t, float32(0.5), floatAt(b, 20))
}
