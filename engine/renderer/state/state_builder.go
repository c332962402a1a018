package state

import "github.com/cogentcore/webgpu/wgpu"

// StateBuilderOption is a functional option applied by every state constructor.
type StateBuilderOption func(*stateConfig)

type stateConfig struct {
	// bufferUsage is OR-ed into the usage of every uniform buffer the state creates.
	bufferUsage wgpu.BufferUsage
}

// WithBufferUsage adds usage flags to the uniform buffers of a state, e.g. wgpu.BufferUsageCopySrc
// so their contents can be read back.
//
// Parameters:
//   - usage: the extra usage flags
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithBufferUsage(usage wgpu.BufferUsage) StateBuilderOption {
	return func(c *stateConfig) {
		c.bufferUsage |= usage
	}
}

func newStateConfig(opts []StateBuilderOption) stateConfig {
	var c stateConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
