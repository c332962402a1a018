package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, common.Vec3{0, 0, 5}, c.Eye())
	assert.Equal(t, common.Vec3{0, 0, 0}, c.Target())
	assert.Equal(t, common.Vec3{0, 1, 0}, c.Up())
	assert.InDelta(t, 0.7853982, c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, [4]float32{0, 0, 5, 1}, c.ViewPosition())
}

func TestBuildViewProjectionDefaultPose(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	got := c.BuildViewProjection()

	expected := [16]float32{
		1.8106601, 0, 0, 0,
		0, 2.4142135, 0, 0,
		0, 0, -1.001001, -1,
		0, 0, 4.9049049, 5,
	}
	for i := range expected {
		assert.InDelta(t, expected[i], got[i], 1e-5, "element %d", i)
	}
}

func TestBuildViewProjectionDepthRange(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	m := c.BuildViewProjection()

	// project points on the view axis at the near and far planes
	project := func(z float32) float32 {
		clipZ := m[10]*z + m[14]
		clipW := m[11]*z + m[15]
		return clipZ / clipW
	}
	assert.InDelta(t, 0, project(5-0.1), 1e-4)
	assert.InDelta(t, 1, project(5-100), 1e-4)
}

func TestCameraResize(t *testing.T) {
	c := NewCamera()
	c.Resize(1920, 1080)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect(), 1e-6)
	c.Resize(0, 1080)
	assert.InDelta(t, 1920.0/1080.0, c.Aspect(), 1e-6)
}

func TestControllerProcessKey(t *testing.T) {
	cc := NewCameraController()
	for _, key := range []int{
		common.KeyW, common.KeyUp, common.KeyS, common.KeyDown,
		common.KeyA, common.KeyLeft, common.KeyD, common.KeyRight,
		common.KeyQ, common.KeyE,
	} {
		assert.True(t, cc.ProcessKey(key, true), "key %d", key)
		assert.True(t, cc.ProcessKey(key, false), "key %d", key)
	}
	assert.False(t, cc.ProcessKey(common.KeySpace, true))
	assert.False(t, cc.ProcessKey(common.KeyR, true))
	assert.False(t, cc.Active())
}

func TestControllerUpdate(t *testing.T) {
	tests := []struct {
		name string
		key  int
		want common.Vec3
	}{
		{"forward", common.KeyW, common.Vec3{0, 0, 4.8}},
		{"backward", common.KeyDown, common.Vec3{0, 0, 5.2}},
		{"right", common.KeyD, common.Vec3{0.2, 0, 5}},
		{"left", common.KeyLeft, common.Vec3{-0.2, 0, 5}},
		{"up", common.KeyQ, common.Vec3{0, 0.2, 5}},
		{"down", common.KeyE, common.Vec3{0, -0.2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			cc := NewCameraController()
			require.True(t, cc.ProcessKey(tt.key, true))
			require.True(t, cc.Active())

			cc.Update(c)
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], c.Eye()[i], 1e-6)
			}
			assert.Equal(t, common.Vec3{}, c.Target())

			cc.ProcessKey(tt.key, false)
			before := c.Eye()
			cc.Update(c)
			assert.Equal(t, before, c.Eye())
		})
	}
}

func TestControllerSpeed(t *testing.T) {
	cc := NewCameraController(WithSpeed(1))
	assert.Equal(t, float32(1), cc.Speed())
	cc.SetSpeed(0.5)

	c := NewCamera()
	cc.ProcessKey(common.KeyW, true)
	cc.Update(c)
	assert.InDelta(t, 4.5, c.Eye()[2], 1e-6)
}

func TestControllerExtraBinding(t *testing.T) {
	cc := NewCameraController(WithKeyBinding(common.KeyT, DirectionForward))
	assert.True(t, cc.ProcessKey(common.KeyT, true))
}
