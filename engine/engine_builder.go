package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pbr/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Options are applied after the config and before the window and GPU are created.
type EngineBuilderOption func(*engine)

// WithProfiling overrides debug.profiling from the config.
//
// Parameters:
//   - enabled: if true, frame statistics are logged periodically
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a pre-configured window for the engine to use rather than creating one from
// the config.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithConfigPath records the file the config was loaded from. When debug.watch is set, Run
// watches it and applies edits to the runtime-tunable values.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.configPath = path
	}
}

// WithAssetWorkers sets how many goroutines decode textures and the environment map at startup.
// Values below 1 are raised to 1. The default is one less than the CPU count.
//
// Parameters:
//   - n: number of decode workers
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithAssetWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		e.assetWorkers = max(n, 1)
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default). With vsync the display caps it anyway.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
