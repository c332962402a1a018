package renderer

import (
	"os"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/camera"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/render_pass"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/state"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresentMode(t *testing.T) {
	m, err := ParsePresentMode("VSync")
	require.NoError(t, err)
	assert.Equal(t, PresentModeVSync, m)

	m, err = ParsePresentMode("uncapped")
	require.NoError(t, err)
	assert.Equal(t, PresentModeUncapped, m)
	assert.Equal(t, wgpu.PresentModeImmediate, m.wgpuMode())
	assert.Equal(t, "uncapped", m.String())

	_, err = ParsePresentMode("mailbox")
	assert.Error(t, err)
}

// newHeadlessForTest skips unless OXY_GPU_TESTS is set, since CI machines have no adapter.
func newHeadlessForTest(t *testing.T) Renderer {
	t.Helper()
	if os.Getenv("OXY_GPU_TESTS") == "" {
		t.Skip("set OXY_GPU_TESTS=1 to run tests that need a GPU adapter")
	}
	r, err := NewHeadless(64, 48)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

func TestHeadless_StagedUniformsReadBack(t *testing.T) {
	r := newHeadlessForTest(t)

	dst, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Test MVP Buffer",
		Size:  uniforms.MvpUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	require.NoError(t, err)
	defer dst.Release()

	mvp := uniforms.NewMvpUniforms()
	mvp.UpdateViewProj(camera.NewCamera(camera.WithViewport(64, 48)))
	mvp.UpdateModelRotation(0.5)
	want := mvp.Marshal()

	frame, err := r.BeginFrame()
	require.NoError(t, err)
	require.NoError(t, r.Belt().Stage(frame.Encoder, dst, want))
	assert.Equal(t, 1, r.Belt().Pending())
	require.NoError(t, r.EndFrame(frame))
	assert.Equal(t, 0, r.Belt().Pending(), "submit reclaims the belt")

	got, err := r.ReadBuffer(dst, uniforms.MvpUniformsSize)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHeadless_StageRejectsSizeMismatch(t *testing.T) {
	r := newHeadlessForTest(t)

	dst, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uniforms.MvpUniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	require.NoError(t, err)
	defer dst.Release()

	frame, err := r.BeginFrame()
	require.NoError(t, err)
	err = r.Belt().Stage(frame.Encoder, dst, make([]byte, 64))
	assert.ErrorIs(t, err, common.ErrSizeMismatch)
	assert.Equal(t, 0, r.Belt().Pending())
	require.NoError(t, r.EndFrame(frame))
}

func TestHeadless_SchemaRejectsBufferOfWrongSize(t *testing.T) {
	r := newHeadlessForTest(t)

	buf, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Size:  256,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	require.NoError(t, err)
	defer buf.Release()

	schema := pipeline.SingleUniformSchema("uniforms")
	err = schema.Validate([]bind_group_provider.Resource{
		bind_group_provider.UniformBuffer(buf, uniforms.MvpUniformsSize),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSizeMismatch)
	assert.Contains(t, err.Error(), "holds 256")
}

// defaultShaderFormat is the shader format a config without overrides selects.
func defaultShaderFormat() shader.Format {
	return shader.Format(config.Default().Renderer.ShaderFormat)
}

func TestHeadless_LayoutsBuildWithDefaultShaderFormat(t *testing.T) {
	r := newHeadlessForTest(t)
	device := r.Device()
	format := defaultShaderFormat()

	simpleLayout, err := pipeline.NewSimpleLayout(device, format)
	require.NoError(t, err)
	defer simpleLayout.Release()
	pbrLayout, err := pipeline.NewPbrLayout(device, format, texture.DepthFormat)
	require.NoError(t, err)
	defer pbrLayout.Release()
	equirectLayout, err := pipeline.NewEquirectLayout(device, format)
	require.NoError(t, err)
	defer equirectLayout.Release()

	first, err := simpleLayout.Pipeline(geometry.VertexTexLayout, r.Format())
	require.NoError(t, err)
	second, err := simpleLayout.Pipeline(geometry.VertexTexLayout, r.Format())
	require.NoError(t, err)
	assert.Same(t, first, second, "the layout keeps one pipeline per vertex layout and format")
}

func solid(linear bool) common.TextureStagingData {
	return common.TextureStagingData{Pixels: []byte{128, 128, 255, 255}, Width: 1, Height: 1, Linear: linear}
}

func TestHeadless_RendersEveryEffect(t *testing.T) {
	r := newHeadlessForTest(t)
	device, queue, format := r.Device(), r.Queue(), r.Format()
	w, h := r.Size()
	cam := camera.NewCamera(camera.WithViewport(int(w), int(h)))

	simpleLayout, err := pipeline.NewSimpleLayout(device, defaultShaderFormat())
	require.NoError(t, err)
	defer simpleLayout.Release()
	pbrLayout, err := pipeline.NewPbrLayout(device, defaultShaderFormat(), texture.DepthFormat)
	require.NoError(t, err)
	defer pbrLayout.Release()
	equirectLayout, err := pipeline.NewEquirectLayout(device, defaultShaderFormat())
	require.NoError(t, err)
	defer equirectLayout.Release()

	readable := state.WithBufferUsage(wgpu.BufferUsageCopySrc)
	simple, err := state.NewSimpleState(device, queue, simpleLayout, r.Belt(), format, readable)
	require.NoError(t, err)
	defer simple.Release()
	vertices, indices := geometry.Pentagon()
	pentagon, err := geometry.NewGeometry(device, "pentagon", vertices, indices)
	require.NoError(t, err)
	simple.AddGeometry(pentagon)
	_, err = simple.AddTexture("solid", solid(false))
	require.NoError(t, err)

	pbr, err := state.NewPbrState(device, queue, pbrLayout, r.Belt(), format, w, h, state.PbrAssets{
		Albedo:      solid(false),
		Roughness:   solid(true),
		Metallic:    solid(true),
		Normal:      solid(true),
		AO:          solid(true),
		Environment: common.HDRStagingData{Pixels: []float32{1, 1, 1, 1}, Width: 1, Height: 1},
	}, readable)
	require.NoError(t, err)
	defer pbr.Release()

	equirect, err := state.NewEquirectState(device, equirectLayout, r.Belt(), format, readable)
	require.NoError(t, err)
	defer equirect.Release()

	cases := []struct {
		st        state.State
		pass      render_pass.RenderPass
		mvpBuffer *wgpu.Buffer
		mvp       func() uniforms.MvpUniforms
	}{
		{simple, render_pass.NewSimplePass(simpleLayout, simple), simple.MvpBuffer(), simple.Mvp},
		{pbr, render_pass.NewPbrPass(pbrLayout, pbr, wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}), pbr.MvpBuffer(), pbr.Mvp},
		{equirect, render_pass.NewEquirectPass(equirectLayout, equirect, wgpu.Color{A: 1}), equirect.MvpBuffer(), equirect.Mvp},
	}
	for _, c := range cases {
		frame, err := r.BeginFrame()
		require.NoError(t, err, c.pass.Name())
		require.NoError(t, c.st.UpdateUniforms(frame.Encoder, cam, 0.02), c.pass.Name())
		c.pass.Render(frame.Target, frame.Encoder)
		require.NoError(t, r.EndFrame(frame), c.pass.Name())
		r.Present()

		got, err := r.ReadBuffer(c.mvpBuffer, uniforms.MvpUniformsSize)
		require.NoError(t, err, c.pass.Name())
		mirror := c.mvp()
		assert.Equal(t, mirror.Marshal(), got, "%s MVP buffer matches its mirror", c.pass.Name())
	}

	require.NoError(t, r.Resize(32, 32))
	require.NoError(t, pbr.Resize(32, 32))
	assert.Equal(t, uint32(32), pbr.Depth().Width())
}
