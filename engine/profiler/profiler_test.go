package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestProfiler(interval time.Duration) (*Profiler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := &Profiler{now: clock.now}
	p.SetInterval(interval)
	p.Reset()
	return p, clock
}

func TestTick_ReportsOncePerInterval(t *testing.T) {
	p, clock := newTestProfiler(time.Second)

	for i := 0; i < 59; i++ {
		clock.t = clock.t.Add(16 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok)
	}
	clock.t = clock.t.Add(time.Second - 59*16*time.Millisecond)
	s, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 60.0, s.FPS, 1e-6)
	assert.Equal(t, time.Second/60, s.FrameTime)
	assert.Positive(t, s.SysMB)

	clock.t = clock.t.Add(10 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok, "a new window starts after reporting")
}

func TestSetInterval_DefaultsToOneSecond(t *testing.T) {
	p, _ := newTestProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
}

func TestReset_DropsCountedFrames(t *testing.T) {
	p, clock := newTestProfiler(time.Second)
	for i := 0; i < 10; i++ {
		p.Tick()
	}
	p.Reset()
	clock.t = clock.t.Add(time.Second)
	s, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 1.0, s.FPS, 1e-9)
}
