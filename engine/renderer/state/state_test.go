package state

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycle(t *testing.T) {
	assert.Equal(t, 0, cycle(0, 0))
	assert.Equal(t, 0, cycle(0, 1))
	assert.Equal(t, 1, cycle(0, 2))
	assert.Equal(t, 0, cycle(1, 2))
}

func TestSimpleState_CycleWraps(t *testing.T) {
	s := &SimpleState{
		geometries: make([]geometry.Geometry, 3),
		textures:   make([]boundTexture, 2),
	}
	for i := 0; i < 3; i++ {
		s.CycleGeometry()
	}
	assert.Equal(t, 0, s.GeometryIndex(), "three cycles over three geometries return to the start")

	s.CycleTexture()
	assert.Equal(t, 1, s.TextureIndex())
	s.CycleTexture()
	assert.Equal(t, 0, s.TextureIndex())
}

func TestSimpleState_CycleSingleAndEmpty(t *testing.T) {
	s := &SimpleState{geometries: make([]geometry.Geometry, 1)}
	s.CycleGeometry()
	s.CycleTexture()
	assert.Equal(t, 0, s.GeometryIndex())
	assert.Equal(t, 0, s.TextureIndex())

	_, _, ok := s.Current()
	assert.False(t, ok, "no texture added yet")
}

func TestSimpleState_AddGeometryIndex(t *testing.T) {
	s := &SimpleState{}
	assert.Equal(t, 0, s.AddGeometry(nil))
	assert.Equal(t, 1, s.AddGeometry(nil))
}

func TestMakeInstances(t *testing.T) {
	transforms, materials := MakeInstances()
	require.Len(t, transforms, pipeline.InstanceCount)
	require.Len(t, materials, pipeline.InstanceCount)

	for row := 0; row < GridSide; row++ {
		for col := 0; col < GridSide; col++ {
			i := row*GridSide + col
			m := transforms[i].Model
			assert.InDelta(t, (float32(col)-3)*2.5, m[12], 1e-6)
			assert.InDelta(t, (float32(row)-3)*2.5, m[13], 1e-6)
			assert.Equal(t, float32(0), m[14])
			assert.Equal(t, float32(1), m[0])
			assert.Equal(t, float32(1), m[15])

			info := materials[i].Info
			assert.InDelta(t, float32(row)/7, info[0], 1e-6, "metallic")
			assert.Equal(t, float32(1), info[2], "ao")
			assert.Equal(t, float32(0), info[3])
		}
	}

	assert.Equal(t, float32(MinRoughness), materials[0].Info[1], "column 0 is clamped")
	assert.InDelta(t, float32(1)/7, materials[1].Info[1], 1e-6)
	assert.InDelta(t, float32(6)/7, materials[6].Info[1], 1e-6)
	assert.Equal(t, [3]float32{-7.5, -7.5, 0}, [3]float32{transforms[0].Model[12], transforms[0].Model[13], transforms[0].Model[14]})
	assert.Equal(t, [3]float32{7.5, 7.5, 0}, [3]float32{transforms[48].Model[12], transforms[48].Model[13], transforms[48].Model[14]})
}

func TestMakeInstances_IsPure(t *testing.T) {
	a, am := MakeInstances()
	b, bm := MakeInstances()
	assert.Equal(t, a, b)
	assert.Equal(t, am, bm)
}

func TestStagingBelt_ReclaimEmpty(t *testing.T) {
	b := NewStagingBelt(nil)
	b.Reclaim()
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, uint64(0), b.StagedBytes())
}

func TestNewStateConfig(t *testing.T) {
	assert.Zero(t, newStateConfig(nil).bufferUsage)

	c := newStateConfig([]StateBuilderOption{
		WithBufferUsage(wgpu.BufferUsageCopySrc),
		WithBufferUsage(wgpu.BufferUsageMapRead),
	})
	assert.Equal(t, wgpu.BufferUsageCopySrc|wgpu.BufferUsageMapRead, c.bufferUsage)
}
