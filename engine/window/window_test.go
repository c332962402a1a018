package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindow_Defaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "oxy-pbr", w.title)
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.resizable)
	assert.False(t, w.IsRunning(), "no platform window yet")
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestNewEngineWindow_ClampsToLimits(t *testing.T) {
	w := newEngineWindow(WithSize(4000, 100), WithSizeLimits(320, 240, 1920, -1))
	assert.Equal(t, 1920, w.Width())
	assert.Equal(t, 240, w.Height())
}

func TestClampDimension(t *testing.T) {
	assert.Equal(t, 500, clampDimension(500, 100, -1))
	assert.Equal(t, 100, clampDimension(50, 100, 800))
	assert.Equal(t, 800, clampDimension(900, 100, 800))
	assert.Equal(t, 1, clampDimension(0, 0, -1))
}

func TestHandleResize(t *testing.T) {
	w := newEngineWindow()
	var gotW, gotH, calls int
	w.SetResizeCallback(func(width, height int) {
		gotW, gotH = width, height
		calls++
	})

	w.handleResize(800, 600)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 800, gotW)
	assert.Equal(t, 600, gotH)
	assert.Equal(t, 800, w.Width())

	// minimised
	w.handleResize(0, 0)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 600, w.Height())
}

func TestRequestClose_NoPlatformWindow(t *testing.T) {
	w := newEngineWindow()
	assert.NotPanics(t, func() {
		w.RequestClose()
		w.SetTitle("renamed")
	})
	assert.Equal(t, "renamed", w.title)
}
