package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ResourceKind is the type of GPU resource a binding slot accepts.
type ResourceKind int

const (
	// KindUniformBuffer is a uniform buffer binding.
	KindUniformBuffer ResourceKind = iota
	// KindStorageBuffer is a read-only storage buffer binding.
	KindStorageBuffer
	// KindTexture is a sampled 2D texture binding.
	KindTexture
	// KindSampler is a filtering sampler binding.
	KindSampler
)

func (k ResourceKind) String() string {
	switch k {
	case KindUniformBuffer:
		return "uniform buffer"
	case KindStorageBuffer:
		return "storage buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// Entry describes one slot of a binding schema.
type Entry struct {
	// Binding is the @binding index of the slot.
	Binding uint32
	// Visibility is the set of shader stages that read the slot.
	Visibility wgpu.ShaderStage
	// Kind is the resource type the slot accepts.
	Kind ResourceKind
	// Size is the exact byte range bound for buffer kinds. Ignored for textures and samplers.
	Size uint64
	// SampleType overrides the texture sample type. Zero means filterable float.
	SampleType wgpu.TextureSampleType
}

// Schema is an ordered, immutable list of binding slots for one bind group.
type Schema struct {
	label   string
	entries []Entry
}

// NewSchema creates a Schema. Entries keep the given order, which must be ascending by binding.
//
// Parameters:
//   - label: debug label used for the GPU layout and bind groups
//   - entries: the binding slots
//
// Returns:
//   - Schema: the schema
func NewSchema(label string, entries ...Entry) Schema {
	es := make([]Entry, len(entries))
	copy(es, entries)
	return Schema{label: label, entries: es}
}

// UniformEntry is shorthand for a uniform buffer slot of the given size.
func UniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) Entry {
	return Entry{Binding: binding, Visibility: visibility, Kind: KindUniformBuffer, Size: size}
}

// StorageEntry is shorthand for a read-only storage buffer slot of the given size.
func StorageEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) Entry {
	return Entry{Binding: binding, Visibility: visibility, Kind: KindStorageBuffer, Size: size}
}

// TextureSamplerEntries returns a fragment-visible texture slot at binding and its sampler at binding+1.
func TextureSamplerEntries(binding uint32) []Entry {
	return []Entry{
		{Binding: binding, Visibility: wgpu.ShaderStageFragment, Kind: KindTexture},
		{Binding: binding + 1, Visibility: wgpu.ShaderStageFragment, Kind: KindSampler},
	}
}

// Label returns the schema's debug label.
func (s Schema) Label() string {
	return s.label
}

// Entries returns a copy of the schema's slots.
func (s Schema) Entries() []Entry {
	es := make([]Entry, len(s.entries))
	copy(es, s.entries)
	return es
}

// Len returns the number of slots.
func (s Schema) Len() int {
	return len(s.entries)
}

// Descriptor converts the schema into a bind group layout descriptor.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the descriptor, one layout entry per slot
func (s Schema) Descriptor() wgpu.BindGroupLayoutDescriptor {
	layoutEntries := make([]wgpu.BindGroupLayoutEntry, len(s.entries))
	for i, e := range s.entries {
		le := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: e.Visibility,
		}
		switch e.Kind {
		case KindUniformBuffer:
			le.Buffer.Type = wgpu.BufferBindingTypeUniform
			le.Buffer.MinBindingSize = e.Size
		case KindStorageBuffer:
			le.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			le.Buffer.MinBindingSize = e.Size
		case KindTexture:
			le.Texture.SampleType = common.Coalesce(e.SampleType, wgpu.TextureSampleTypeFloat)
			le.Texture.ViewDimension = wgpu.TextureViewDimension2D
			le.Texture.Multisampled = false
		case KindSampler:
			le.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
		layoutEntries[i] = le
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   s.label,
		Entries: layoutEntries,
	}
}

// Validate checks that resources match the schema slot for slot: same count, same kind
// in each position, and for buffers a byte size equal to the declared range. Both the size the
// resource declares and the size of the GPU buffer behind it must match.
//
// Parameters:
//   - resources: the resources in slot order
//
// Returns:
//   - error: wraps common.ErrSchemaMismatch or common.ErrSizeMismatch, nil when the resources fit
func (s Schema) Validate(resources []Resource) error {
	if len(resources) != len(s.entries) {
		return fmt.Errorf("%s: got %d resources for %d slots: %w", s.label, len(resources), len(s.entries), common.ErrSchemaMismatch)
	}
	for i, e := range s.entries {
		r := resources[i]
		if r.Kind != e.Kind {
			return fmt.Errorf("%s: binding %d wants %s, got %s: %w", s.label, e.Binding, e.Kind, r.Kind, common.ErrSchemaMismatch)
		}
		switch e.Kind {
		case KindUniformBuffer, KindStorageBuffer:
			if r.Size != e.Size {
				return fmt.Errorf("%s: binding %d wants %d bytes, got %d: %w", s.label, e.Binding, e.Size, r.Size, common.ErrSizeMismatch)
			}
			if r.Buffer != nil && r.Buffer.GetSize() != e.Size {
				return fmt.Errorf("%s: binding %d wants %d bytes, the buffer holds %d: %w", s.label, e.Binding, e.Size, r.Buffer.GetSize(), common.ErrSizeMismatch)
			}
		}
	}
	return nil
}
