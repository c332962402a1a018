package engine

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEffect(t *testing.T) {
	for _, e := range []Effect{EffectSimple, EffectPbr, EffectEquirect} {
		got, err := ParseEffect(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseEffect("bloom")
	assert.Error(t, err)
	assert.Equal(t, "Effect(7)", Effect(7).String())
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		name    string
		current Effect
		key     int
		want    command
	}{
		{"escape quits", EffectPbr, common.KeyEsc, command{kind: commandQuit}},
		{"R simple to pbr", EffectSimple, common.KeyR, command{kind: commandSelectEffect, effect: EffectPbr}},
		{"R pbr to simple", EffectPbr, common.KeyR, command{kind: commandSelectEffect, effect: EffectSimple}},
		{"R equirect to simple", EffectEquirect, common.KeyR, command{kind: commandSelectEffect, effect: EffectSimple}},
		{"1 selects simple", EffectPbr, common.Key1, command{kind: commandSelectEffect, effect: EffectSimple}},
		{"2 selects pbr", EffectSimple, common.Key2, command{kind: commandSelectEffect, effect: EffectPbr}},
		{"3 selects equirect", EffectSimple, common.Key3, command{kind: commandSelectEffect, effect: EffectEquirect}},
		{"space in simple", EffectSimple, common.KeySpace, command{kind: commandCycleGeometry}},
		{"space in pbr", EffectPbr, common.KeySpace, command{kind: commandNone}},
		{"T in simple", EffectSimple, common.KeyT, command{kind: commandCycleTexture}},
		{"T in equirect", EffectEquirect, common.KeyT, command{kind: commandNone}},
		{"unbound", EffectSimple, common.KeyW, command{kind: commandNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyCommand(tt.current, tt.key))
		})
	}
}

func TestMaterialPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("res", "steelplate1", "steelplate1_normal-dx.png"),
		materialPath("res", "normal-dx"))
}

func TestLoadAssets_MissingDirectory(t *testing.T) {
	_, err := loadAssets(newDecodePool(2), t.TempDir(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAssetDecode)
	assert.Contains(t, err.Error(), "texture "+treeTexture)
}

func TestRunDecodes_RunsEveryJob(t *testing.T) {
	var ran atomic.Int32
	results := make([]int, 8)
	jobs := make([]decodeJob, len(results))
	for i := range jobs {
		jobs[i] = decodeJob{
			name: "job",
			run: func() error {
				ran.Add(1)
				results[i] = i * i
				return nil
			},
		}
	}

	require.NoError(t, runDecodes(newDecodePool(3), jobs))
	assert.Equal(t, int32(len(jobs)), ran.Load())
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestRunDecodes_ReportsFirstFailureInOrder(t *testing.T) {
	errLate := errors.New("late")
	errEarly := errors.New("early")
	jobs := []decodeJob{
		{name: "ok", run: func() error { return nil }},
		{name: "second", run: func() error { time.Sleep(20 * time.Millisecond); return errEarly }},
		{name: "third", run: func() error { return errLate }},
	}

	err := runDecodes(newDecodePool(3), jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, errEarly)
	assert.Contains(t, err.Error(), "second: ")
}

func TestWithAssetWorkers(t *testing.T) {
	e := &engine{}
	WithAssetWorkers(4)(e)
	assert.Equal(t, 4, e.assetWorkers)
	WithAssetWorkers(0)(e)
	assert.Equal(t, 1, e.assetWorkers)
}

func TestQueueConfig_KeepsLatest(t *testing.T) {
	e := &engine{configChannel: make(chan config.Config, 1)}
	first, second := config.Default(), config.Default()
	first.Scene.CameraSpeed = 1
	second.Scene.CameraSpeed = 2

	e.queueConfig(first)
	e.queueConfig(second)

	got := <-e.configChannel
	assert.InDelta(t, 2.0, got.Scene.CameraSpeed, 1e-9)
}

func TestWithRenderFrameLimit(t *testing.T) {
	e := &engine{}
	WithRenderFrameLimit(50)(e)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	WithRenderFrameLimit(0)(e)
	assert.Zero(t, e.renderFrameLimit)
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.StartEffect = "bloom"
	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
