package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// CheckBindingContract verifies that every binding a shader declares exists in the schema of
// its group with the same kind, the same buffer size, and a visibility that includes the
// shader's stage. Schema slots no shader reads are allowed.
//
// Parameters:
//   - schemas: the binding schemas indexed by group
//   - shaders: the shader stages of one pipeline
//
// Returns:
//   - error: wraps common.ErrBindingContract on the first violation
func CheckBindingContract(schemas []bind_group_provider.Schema, shaders ...shader.Shader) error {
	for _, s := range shaders {
		for _, b := range s.Bindings() {
			if int(b.Group) >= len(schemas) {
				return fmt.Errorf("%s: %s uses group %d but only %d are declared: %w", s.Key(), b.Name, b.Group, len(schemas), common.ErrBindingContract)
			}
			schema := schemas[b.Group]
			entry, ok := findEntry(schema, b.Binding)
			if !ok {
				return fmt.Errorf("%s: %s at group %d binding %d is not in schema %q: %w", s.Key(), b.Name, b.Group, b.Binding, schema.Label(), common.ErrBindingContract)
			}
			if entry.Kind != b.Kind {
				return fmt.Errorf("%s: %s is a %s but schema %q declares a %s: %w", s.Key(), b.Name, b.Kind, schema.Label(), entry.Kind, common.ErrBindingContract)
			}
			if b.Writable {
				return fmt.Errorf("%s: %s is writable, schema %q only has read-only storage: %w", s.Key(), b.Name, schema.Label(), common.ErrBindingContract)
			}
			if entry.Size != b.Size {
				return fmt.Errorf("%s: %s is %d bytes but schema %q declares %d: %w", s.Key(), b.Name, b.Size, schema.Label(), entry.Size, common.ErrBindingContract)
			}
			if entry.Visibility&s.Stage().Visibility() == 0 {
				return fmt.Errorf("%s: %s is not visible to the %s stage in schema %q: %w", s.Key(), b.Name, s.Stage(), schema.Label(), common.ErrBindingContract)
			}
		}
	}
	return nil
}

// CheckVertexLayout verifies that a geometry's vertex layout supplies every input the vertex
// shader reads, at the same location and format.
//
// Parameters:
//   - vertex: the vertex shader
//   - layout: the vertex buffer layout of the geometry to draw
//
// Returns:
//   - error: wraps common.ErrBindingContract on a missing or mismatched attribute
func CheckVertexLayout(vertex shader.Shader, layout wgpu.VertexBufferLayout) error {
	want, ok := vertex.VertexLayout()
	if !ok {
		return nil
	}
	have := make(map[uint32]wgpu.VertexFormat, len(layout.Attributes))
	for _, a := range layout.Attributes {
		have[a.ShaderLocation] = a.Format
	}
	for _, a := range want.Attributes {
		format, ok := have[a.ShaderLocation]
		if !ok {
			return fmt.Errorf("%s: vertex layout has no attribute at location %d: %w", vertex.Key(), a.ShaderLocation, common.ErrBindingContract)
		}
		if format != a.Format {
			return fmt.Errorf("%s: location %d is %v in the layout but %v in the shader: %w", vertex.Key(), a.ShaderLocation, format, a.Format, common.ErrBindingContract)
		}
	}
	return nil
}

func findEntry(schema bind_group_provider.Schema, binding uint32) (bind_group_provider.Entry, bool) {
	for _, e := range schema.Entries() {
		if e.Binding == binding {
			return e, true
		}
	}
	return bind_group_provider.Entry{}, false
}
