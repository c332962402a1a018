package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// Resource is one concrete GPU object offered to a schema slot.
type Resource struct {
	Kind        ResourceKind
	Buffer      *wgpu.Buffer
	Size        uint64
	TextureView *wgpu.TextureView
	Sampler     *wgpu.Sampler
}

// UniformBuffer wraps a uniform buffer bound over [0, size).
func UniformBuffer(buf *wgpu.Buffer, size uint64) Resource {
	return Resource{Kind: KindUniformBuffer, Buffer: buf, Size: size}
}

// StorageBuffer wraps a read-only storage buffer bound over [0, size).
func StorageBuffer(buf *wgpu.Buffer, size uint64) Resource {
	return Resource{Kind: KindStorageBuffer, Buffer: buf, Size: size}
}

// TextureView wraps a sampled texture view.
func TextureView(view *wgpu.TextureView) Resource {
	return Resource{Kind: KindTexture, TextureView: view}
}

// Sampler wraps a sampler.
func Sampler(s *wgpu.Sampler) Resource {
	return Resource{Kind: KindSampler, Sampler: s}
}

// entry converts the resource into a bind group entry for the given binding index.
func (r Resource) entry(binding uint32) wgpu.BindGroupEntry {
	switch r.Kind {
	case KindTexture:
		return wgpu.BindGroupEntry{Binding: binding, TextureView: r.TextureView}
	case KindSampler:
		return wgpu.BindGroupEntry{Binding: binding, Sampler: r.Sampler}
	default:
		return wgpu.BindGroupEntry{Binding: binding, Buffer: r.Buffer, Offset: 0, Size: r.Size}
	}
}
