package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	schema Schema
	device *wgpu.Device

	// bindGroupLayout is created from the schema once and lives as long as the provider.
	bindGroupLayout *wgpu.BindGroupLayout
}

// BindGroupProvider owns the GPU bind group layout for one Schema and creates bind groups
// against it. Every bind group is validated against the schema before it is created, so
// shape errors surface at construction instead of at draw time.
type BindGroupProvider interface {
	// Schema returns the schema this provider was built from.
	Schema() Schema

	// BindGroupLayout returns the GPU layout created from the schema.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout() *wgpu.BindGroupLayout

	// CreateBindGroup validates resources against the schema and creates a bind group from them.
	//
	// Parameters:
	//   - label: debug label for the bind group
	//   - resources: one resource per schema slot, in slot order
	//
	// Returns:
	//   - *wgpu.BindGroup: the new bind group, owned by the caller
	//   - error: a schema or size mismatch, or a device error
	CreateBindGroup(label string, resources ...Resource) (*wgpu.BindGroup, error)

	// Release releases the bind group layout.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates the GPU layout for schema.
//
// Parameters:
//   - device: the device that owns the layout
//   - schema: the binding schema
//
// Returns:
//   - BindGroupProvider: the provider
//   - error: an error if the layout could not be created
func NewBindGroupProvider(device *wgpu.Device, schema Schema) (BindGroupProvider, error) {
	desc := schema.Descriptor()
	layout, err := device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("%s: create bind group layout: %w", schema.Label(), err)
	}
	return &bindGroupProvider{
		schema:          schema,
		device:          device,
		bindGroupLayout: layout,
	}, nil
}

func (p *bindGroupProvider) Schema() Schema {
	return p.schema
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) CreateBindGroup(label string, resources ...Resource) (*wgpu.BindGroup, error) {
	if err := p.schema.Validate(resources); err != nil {
		return nil, err
	}

	entries := make([]wgpu.BindGroupEntry, len(resources))
	for i, e := range p.schema.entries {
		entries[i] = resources[i].entry(e.Binding)
	}

	bindGroup, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  p.bindGroupLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create bind group %q: %w", p.schema.Label(), label, err)
	}
	return bindGroup, nil
}

func (p *bindGroupProvider) Release() {
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}
