package uniforms

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-pbr/common"
)

// Byte sizes of the GPU blocks. Buffers and binding ranges are created with exactly these sizes.
const (
	MvpUniformsSize         = 144
	PbrFragmentUniformsSize = 144
	TransformRawSize        = 64
	MaterialInfoRawSize     = 16
)

// ViewProjector is the camera view the MVP block is refreshed from.
type ViewProjector interface {
	ViewPosition() [4]float32
	BuildViewProjection() [16]float32
}

// MvpUniforms is the per-frame camera and model block shared by every effect.
// Layout: view_position vec4 at 0, view_proj mat4 at 16, model mat4 at 80.
type MvpUniforms struct {
	ViewPosition [4]float32
	ViewProj     [16]float32
	Model        [16]float32
}

// NewMvpUniforms returns a block with a zero view position and identity matrices.
func NewMvpUniforms() MvpUniforms {
	var u MvpUniforms
	common.Identity(u.ViewProj[:])
	common.Identity(u.Model[:])
	return u
}

// UpdateViewProj copies the camera eye (w = 1) and its view-projection matrix into the block.
//
// Parameters:
//   - cam: the camera to read from
func (u *MvpUniforms) UpdateViewProj(cam ViewProjector) {
	u.ViewPosition = cam.ViewPosition()
	u.ViewProj = cam.BuildViewProjection()
}

// UpdateModel replaces the model matrix.
func (u *MvpUniforms) UpdateModel(model [16]float32) {
	u.Model = model
}

// UpdateModelRotation sets the model matrix to a rotation of angle radians about Z.
func (u *MvpUniforms) UpdateModelRotation(angle float32) {
	common.RotationZ(u.Model[:], angle)
}

// Size returns the size of the MvpUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (u *MvpUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the block into little-endian bytes suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized block
func (u *MvpUniforms) Marshal() []byte {
	buf := make([]byte, 0, MvpUniformsSize)
	buf = appendFloats(buf, u.ViewPosition[:])
	buf = appendFloats(buf, u.ViewProj[:])
	buf = appendFloats(buf, u.Model[:])
	return buf
}

// PbrFragmentUniforms holds the constant lighting inputs of the PBR fragment stage.
// Layout: albedo vec4 at 0, light_positions array<vec4, 4> at 16, light_colors array<vec4, 4> at 80.
type PbrFragmentUniforms struct {
	Albedo         [4]float32
	LightPositions [4][4]float32
	LightColors    [4][4]float32
}

// DefaultPbrFragmentUniforms returns the four-light rig: lights at (±10, ±10, 10) with
// radiance 300 each and an albedo of (0.5, 0, 0).
func DefaultPbrFragmentUniforms() PbrFragmentUniforms {
	white := [4]float32{300, 300, 300, 0}
	return PbrFragmentUniforms{
		Albedo: [4]float32{0.5, 0, 0, 0},
		LightPositions: [4][4]float32{
			{-10, 10, 10, 0},
			{10, 10, 10, 0},
			{-10, -10, 10, 0},
			{10, -10, 10, 0},
		},
		LightColors: [4][4]float32{white, white, white, white},
	}
}

// Size returns the size of the PbrFragmentUniforms struct in bytes.
func (u *PbrFragmentUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the block into little-endian bytes suitable for GPU upload.
func (u *PbrFragmentUniforms) Marshal() []byte {
	buf := make([]byte, 0, PbrFragmentUniformsSize)
	buf = appendFloats(buf, u.Albedo[:])
	for i := range u.LightPositions {
		buf = appendFloats(buf, u.LightPositions[i][:])
	}
	for i := range u.LightColors {
		buf = appendFloats(buf, u.LightColors[i][:])
	}
	return buf
}

// TransformRaw is one instance's model matrix in the transform storage buffer.
type TransformRaw struct {
	Model [16]float32
}

// MaterialInfoRaw is one instance's material parameters: metallic, roughness, ambient occlusion, padding.
type MaterialInfoRaw struct {
	Info [4]float32
}

// MarshalTransforms packs instance transforms back to back for a storage buffer upload.
func MarshalTransforms(transforms []TransformRaw) []byte {
	buf := make([]byte, 0, len(transforms)*TransformRawSize)
	for i := range transforms {
		buf = appendFloats(buf, transforms[i].Model[:])
	}
	return buf
}

// MarshalMaterials packs instance materials back to back for a storage buffer upload.
func MarshalMaterials(materials []MaterialInfoRaw) []byte {
	buf := make([]byte, 0, len(materials)*MaterialInfoRawSize)
	for i := range materials {
		buf = appendFloats(buf, materials[i].Info[:])
	}
	return buf
}

func appendFloats(buf []byte, values []float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
