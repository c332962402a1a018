package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipRemap(t *testing.T) {
	m := ClipRemap()
	expected := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0.5, 0,
		0, 0, 0.5, 1,
	}
	assert.Equal(t, expected, m)

	// row 2, column 3 in column-major storage
	assert.Equal(t, float32(0.5), m[3*4+2])

	m[0] = 42
	assert.Equal(t, float32(1), ClipRemap()[0], "ClipRemap must return a copy")
}

func TestClipRemapMapsDepthRange(t *testing.T) {
	m := ClipRemap()
	// z=-1,w=1 maps to 0 and z=1,w=1 maps to 1
	near := m[2]*0 + m[6]*0 + m[10]*-1 + m[14]*1
	far := m[2]*0 + m[6]*0 + m[10]*1 + m[14]*1
	assert.InDelta(t, 0, near, 1e-6)
	assert.InDelta(t, 1, far, 1e-6)
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestMul4Translations(t *testing.T) {
	var a, b, out [16]float32
	Translation(a[:], 1, 2, 3)
	Translation(b[:], 4, 5, 6)
	Mul4(out[:], a[:], b[:])
	assert.Equal(t, float32(5), out[12])
	assert.Equal(t, float32(7), out[13])
	assert.Equal(t, float32(9), out[14])
}

func TestLookAtDefaultPose(t *testing.T) {
	var m [16]float32
	LookAt(m[:], Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})
	var expected [16]float32
	Translation(expected[:], 0, 0, -5)
	for i := range m {
		assert.InDelta(t, expected[i], m[i], 1e-6, "index %d", i)
	}
}

func TestPerspectiveGL(t *testing.T) {
	var m [16]float32
	PerspectiveGL(m[:], DegToRad(90), 2, 1, 3)
	assert.InDelta(t, 0.5, m[0], 1e-6)
	assert.InDelta(t, 1, m[5], 1e-6)
	assert.InDelta(t, -2, m[10], 1e-6)
	assert.Equal(t, float32(-1), m[11])
	assert.InDelta(t, -3, m[14], 1e-6)
	assert.Equal(t, float32(0), m[15])
}

func TestRotationZ(t *testing.T) {
	var m [16]float32
	RotationZ(m[:], DegToRad(90))
	assert.InDelta(t, 0, m[0], 1e-6)
	assert.InDelta(t, -1, m[1], 1e-6)
	assert.InDelta(t, 1, m[4], 1e-6)
	assert.InDelta(t, 0, m[5], 1e-6)
	assert.Equal(t, float32(1), m[10])
	assert.Equal(t, float32(1), m[15])
}

func TestVec3(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	assert.Equal(t, Vec3{0, 0, 1}, x.Cross(y))
	assert.Equal(t, Vec3{1, 1, 0}, x.Add(y))
	assert.Equal(t, Vec3{1, -1, 0}, x.Sub(y))
	assert.InDelta(t, 1, Vec3{0, 3, 4}.Normalize().Len(), 1e-6)
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0.05), Clamp(0, 0.05, 1))
	assert.Equal(t, float32(1), Clamp(3, 0.05, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, 0.05, 1))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]uint16{1, 2, 3}), 6)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
