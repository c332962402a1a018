package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs three vec3 positions followed by three uint16 indices padded to 4 bytes.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	for _, i := range []uint16{0, 1, 2, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	return buf.Bytes()
}

func triangleDocument(uri string, byteLength int) string {
	return fmt.Sprintf(`{
  "asset": {"version": "2.0", "generator": "test"},
  "scene": 0,
  "scenes": [{"name": "main", "nodes": [0]}],
  "nodes": [
    {"name": "root", "children": [1, 2]},
    {"name": "body", "mesh": 0},
    {"name": "empty"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0, "NORMAL": 0}, "indices": 1}]}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "buffers": [%s]
}`, bufferJSON(uri, byteLength))
}

func bufferJSON(uri string, byteLength int) string {
	if uri == "" {
		return fmt.Sprintf(`{"byteLength": %d}`, byteLength)
	}
	return fmt.Sprintf(`{"uri": %q, "byteLength": %d}`, uri, byteLength)
}

func assertTriangle(t *testing.T, s *GLTFSummary) {
	t.Helper()
	require.Len(t, s.Scenes, 1)
	assert.Equal(t, "main", s.Scenes[0].Name)
	require.Len(t, s.Scenes[0].Nodes, 1)
	root := s.Scenes[0].Nodes[0]
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, -1, root.Mesh)
	require.Len(t, root.Children, 2)
	assert.Equal(t, GLTFNode{Index: 1, Name: "body", Mesh: 0}, root.Children[0])
	assert.Equal(t, GLTFNode{Index: 2, Name: "empty", Mesh: -1}, root.Children[1])

	require.Len(t, s.Meshes, 1)
	require.Len(t, s.Meshes[0].Primitives, 1)
	prim := s.Meshes[0].Primitives[0]
	assert.Equal(t, [][3]uint32{{0, 1, 2}}, prim.Triangles)
	assert.Equal(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, prim.Positions)
	assert.True(t, prim.HasNormals)
	assert.False(t, prim.HasSkin)
}

func TestInspectReader_Base64Buffer(t *testing.T) {
	data := triangleBuffer()
	uri := "data:application/gltf-buffer;base64," + base64.StdEncoding.EncodeToString(data)

	s, err := InspectReader(strings.NewReader(triangleDocument(uri, len(data))), false, "")
	require.NoError(t, err)
	assert.Equal(t, "test", s.Generator)
	assert.Equal(t, []int{len(data)}, s.BufferSizes)
	assert.Equal(t, len(data), s.TotalBufferBytes())
	assertTriangle(t, s)

	var out bytes.Buffer
	s.Print(&out)
	assert.Contains(t, out.String(), `node 1 "body" mesh=0`)
	assert.Contains(t, out.String(), "3 vertices, 1 triangles")
}

func TestInspect_ExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	data := triangleBuffer()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.bin"), data, 0o644))
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(triangleDocument("tri.bin", len(data))), 0o644))

	s, err := Inspect(path)
	require.NoError(t, err)
	assertTriangle(t, s)
}

func TestInspectReader_GLB(t *testing.T) {
	data := triangleBuffer()
	jsonChunk := []byte(triangleDocument("", len(data)))
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}

	var glb bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(data)
	_ = binary.Write(&glb, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: 2, Length: uint32(total)})
	_ = binary.Write(&glb, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	glb.Write(jsonChunk)
	_ = binary.Write(&glb, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(data)), ChunkType: gltfGLBChunkBIN})
	glb.Write(data)

	s, err := InspectReader(&glb, true, "")
	require.NoError(t, err)
	assertTriangle(t, s)
}

func TestInspectReader_Errors(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{`,
		"old version":  `{"asset": {"version": "1.0"}}`,
		"short buffer": `{"asset": {"version": "2.0"}, "buffers": [{"uri": "data:application/octet-stream;base64,AAAA", "byteLength": 16}]}`,
		"not base64":   `{"asset": {"version": "2.0"}, "buffers": [{"uri": "data:application/octet-stream,abc", "byteLength": 3}]}`,
		"cycle":        `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [0]}], "nodes": [{"children": [1]}, {"children": [0]}]}`,
		"bad node":     `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [4]}]}`,
	}
	for name, doc := range cases {
		_, err := InspectReader(strings.NewReader(doc), false, "")
		require.Error(t, err, name)
		assert.ErrorIs(t, err, common.ErrAssetDecode, name)
	}
}

func TestBufferArena_Spans(t *testing.T) {
	a := bufferArena{data: []byte{1, 2, 3, 4, 5}, spans: [][2]int{{0, 2}, {2, 5}}}
	assert.Equal(t, []byte{1, 2}, a.buffer(0))
	assert.Equal(t, []byte{3, 4, 5}, a.buffer(1))
	assert.Nil(t, a.buffer(2))
	assert.Nil(t, a.buffer(-1))
}

func TestAccessorBytes_Stride(t *testing.T) {
	stride := 8
	p := &gltfParser{
		document: &gltfDocument{
			Accessors:   []gltfAccessor{{BufferView: intPtr(0), ComponentType: gltfComponentTypeUnsignedShort, Count: 3, Type: gltfAccessorTypeScalar}},
			BufferViews: []gltfBufferView{{Buffer: 0, ByteLength: 24, ByteStride: &stride}},
		},
		arena: bufferArena{
			data:  []byte{7, 0, 9, 9, 9, 9, 9, 9, 8, 0, 9, 9, 9, 9, 9, 9, 9, 0, 9, 9, 9, 9, 9, 9},
			spans: [][2]int{{0, 24}},
		},
	}
	indices, err := p.readIndices(0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 8, 9}, indices)
}

func intPtr(v int) *int { return &v }

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage_PixelLayout(t *testing.T) {
	data, err := DecodeImage(bytes.NewReader(encodePNG(t, 3, 2)), true, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.True(t, data.Linear)
	require.Len(t, data.Pixels, 3*2*4)
	// Pixel (2, 1) starts at row 1, column 2.
	assert.Equal(t, []byte{20, 10, 200, 255}, data.Pixels[(1*3+2)*4:(1*3+2)*4+4])
}

func TestDecodeImage_Downscale(t *testing.T) {
	data, err := DecodeImage(bytes.NewReader(encodePNG(t, 8, 4)), false, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), data.Width)
	assert.Equal(t, uint32(2), data.Height)
	assert.Len(t, data.Pixels, 4*2*4)
}

func TestDecodeImage_Garbage(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("not an image"), false, 0)
	assert.ErrorIs(t, err, common.ErrAssetDecode)
}

func TestDecodeHDR_RejectsLowDynamicRange(t *testing.T) {
	_, err := DecodeHDR(bytes.NewReader(encodePNG(t, 2, 2)))
	assert.ErrorIs(t, err, common.ErrAssetDecode)
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"), false, 0)
	assert.ErrorIs(t, err, common.ErrAssetDecode)
	_, err = LoadHDR(filepath.Join(t.TempDir(), "missing.hdr"))
	assert.ErrorIs(t, err, common.ErrAssetDecode)
}

func TestFitWithin(t *testing.T) {
	w, h, scaled := fitWithin(100, 50, 0)
	assert.Equal(t, []int{100, 50}, []int{w, h})
	assert.False(t, scaled)

	w, h, scaled = fitWithin(100, 50, 25)
	assert.Equal(t, []int{25, 12}, []int{w, h})
	assert.True(t, scaled)

	w, h, _ = fitWithin(10, 4000, 1000)
	assert.Equal(t, []int{2, 1000}, []int{w, h})
}
