package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/Carmen-Shannon/oxy-pbr/common"
)

// GLTFNode is one node of a scene tree.
type GLTFNode struct {
	Index    int
	Name     string
	Mesh     int // -1 when the node has no mesh
	Children []GLTFNode
}

// GLTFScene is a named root of the node hierarchy.
type GLTFScene struct {
	Name  string
	Nodes []GLTFNode
}

// GLTFPrimitive is the decoded geometry of one mesh primitive.
type GLTFPrimitive struct {
	Triangles  [][3]uint32
	Positions  [][3]float32
	HasNormals bool
	HasTangent bool
	HasSkin    bool
}

// GLTFMesh groups the primitives of one glTF mesh.
type GLTFMesh struct {
	Name       string
	Primitives []GLTFPrimitive
}

// GLTFSkin summarizes a skin's joint list and inverse bind matrices.
type GLTFSkin struct {
	Name             string
	Joints           int
	InverseBindCount int
}

// GLTFAnimation summarizes an animation's channels.
type GLTFAnimation struct {
	Name      string
	Channels  int
	Keyframes int
}

// GLTFSummary is the result of inspecting a glTF file.
type GLTFSummary struct {
	Generator   string
	Scenes      []GLTFScene
	BufferSizes []int
	Meshes      []GLTFMesh
	Skins       []GLTFSkin
	Animations  []GLTFAnimation
}

// TotalBufferBytes returns the combined size of all decoded buffers.
func (s *GLTFSummary) TotalBufferBytes() int {
	total := 0
	for _, n := range s.BufferSizes {
		total += n
	}
	return total
}

// Inspect parses a .gltf or .glb file and summarizes its scenes, meshes, skins and animations.
//
// Parameters:
//   - path: the file to inspect
//
// Returns:
//   - *GLTFSummary: the summary
//   - error: wraps common.ErrAssetDecode on any read or decode failure
func Inspect(path string) (*GLTFSummary, error) {
	p, err := parseFile(path)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %v: %w", path, err, common.ErrAssetDecode)
	}
	summary, err := p.summarize()
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %v: %w", path, err, common.ErrAssetDecode)
	}
	return summary, nil
}

// InspectReader is Inspect for an in-memory document. External buffer URIs resolve against baseDir.
//
// Parameters:
//   - r: the document bytes
//   - isGLB: true for the binary container
//   - baseDir: the directory external buffers are read from
//
// Returns:
//   - *GLTFSummary: the summary
//   - error: wraps common.ErrAssetDecode on any read or decode failure
func InspectReader(r io.Reader, isGLB bool, baseDir string) (*GLTFSummary, error) {
	p, err := parseReader(r, isGLB, baseDir)
	if err != nil {
		return nil, fmt.Errorf("inspect: %v: %w", err, common.ErrAssetDecode)
	}
	summary, err := p.summarize()
	if err != nil {
		return nil, fmt.Errorf("inspect: %v: %w", err, common.ErrAssetDecode)
	}
	return summary, nil
}

func (p *gltfParser) summarize() (*GLTFSummary, error) {
	doc := p.document
	s := &GLTFSummary{Generator: doc.Asset.Generator}

	for _, span := range p.arena.spans {
		s.BufferSizes = append(s.BufferSizes, span[1]-span[0])
	}

	for _, scene := range doc.Scenes {
		out := GLTFScene{Name: scene.Name}
		for _, root := range scene.Nodes {
			node, err := p.visitNode(root, make(map[int]bool))
			if err != nil {
				return nil, err
			}
			out.Nodes = append(out.Nodes, node)
		}
		s.Scenes = append(s.Scenes, out)
	}

	for mi, mesh := range doc.Meshes {
		out := GLTFMesh{Name: mesh.Name}
		for pi, prim := range mesh.Primitives {
			decoded, err := p.readPrimitive(prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			out.Primitives = append(out.Primitives, decoded)
		}
		s.Meshes = append(s.Meshes, out)
	}

	for i, skin := range doc.Skins {
		out := GLTFSkin{Name: skin.Name, Joints: len(skin.Joints)}
		if skin.InverseBindMatrices != nil {
			data, acc, err := p.accessorBytes(*skin.InverseBindMatrices)
			if err != nil {
				return nil, fmt.Errorf("skin %d: %w", i, err)
			}
			if acc.Type != gltfAccessorTypeMat4 {
				return nil, fmt.Errorf("skin %d: inverse bind accessor is %s, want MAT4", i, acc.Type)
			}
			out.InverseBindCount = len(data) / 64
		}
		s.Skins = append(s.Skins, out)
	}

	for i, anim := range doc.Animations {
		out := GLTFAnimation{Name: anim.Name, Channels: len(anim.Channels)}
		for _, ch := range anim.Channels {
			if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
				return nil, fmt.Errorf("animation %d: sampler %d out of range", i, ch.Sampler)
			}
			input := anim.Samplers[ch.Sampler].Input
			if input < 0 || input >= len(doc.Accessors) {
				return nil, fmt.Errorf("animation %d: input accessor %d out of range", i, input)
			}
			out.Keyframes += doc.Accessors[input].Count
		}
		s.Animations = append(s.Animations, out)
	}

	return s, nil
}

// visitNode builds the subtree rooted at index. A node reached twice on one path is a cycle.
func (p *gltfParser) visitNode(index int, path map[int]bool) (GLTFNode, error) {
	nodes := p.document.Nodes
	if index < 0 || index >= len(nodes) {
		return GLTFNode{}, fmt.Errorf("node index %d out of range", index)
	}
	if path[index] {
		return GLTFNode{}, fmt.Errorf("node %d is its own ancestor", index)
	}
	path[index] = true
	defer delete(path, index)

	n := nodes[index]
	out := GLTFNode{Index: index, Name: n.Name, Mesh: -1}
	if n.Mesh != nil {
		out.Mesh = *n.Mesh
	}
	for _, c := range n.Children {
		child, err := p.visitNode(c, path)
		if err != nil {
			return GLTFNode{}, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

func (p *gltfParser) readPrimitive(prim gltfPrimitive) (GLTFPrimitive, error) {
	var out GLTFPrimitive
	if pos, ok := prim.Attributes["POSITION"]; ok {
		positions, err := p.readVec3(pos)
		if err != nil {
			return out, fmt.Errorf("positions: %w", err)
		}
		out.Positions = positions
	}
	_, out.HasNormals = prim.Attributes["NORMAL"]
	_, out.HasTangent = prim.Attributes["TANGENT"]
	_, hasJoints := prim.Attributes["JOINTS_0"]
	_, hasWeights := prim.Attributes["WEIGHTS_0"]
	out.HasSkin = hasJoints && hasWeights

	// Mode 4 is TRIANGLES, the glTF default.
	if prim.Mode != nil && *prim.Mode != 4 {
		return out, nil
	}

	var indices []uint32
	if prim.Indices != nil {
		var err error
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return out, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(out.Positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	out.Triangles = make([][3]uint32, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		out.Triangles = append(out.Triangles, [3]uint32{indices[i], indices[i+1], indices[i+2]})
	}
	return out, nil
}

// Print writes a human-readable dump of the summary.
//
// Parameters:
//   - w: the destination writer
func (s *GLTFSummary) Print(w io.Writer) {
	fmt.Fprintf(w, "generator: %s\n", s.Generator)
	fmt.Fprintf(w, "buffers: %d (%d bytes)\n", len(s.BufferSizes), s.TotalBufferBytes())
	for i, scene := range s.Scenes {
		fmt.Fprintf(w, "scene %d %q\n", i, scene.Name)
		for _, n := range scene.Nodes {
			printNode(w, n, 1)
		}
	}
	for i, m := range s.Meshes {
		fmt.Fprintf(w, "mesh %d %q\n", i, m.Name)
		for j, prim := range m.Primitives {
			fmt.Fprintf(w, "  primitive %d: %d vertices, %d triangles, normals=%t tangents=%t skinned=%t\n",
				j, len(prim.Positions), len(prim.Triangles), prim.HasNormals, prim.HasTangent, prim.HasSkin)
		}
	}
	for i, sk := range s.Skins {
		fmt.Fprintf(w, "skin %d %q: %d joints, %d inverse bind matrices\n", i, sk.Name, sk.Joints, sk.InverseBindCount)
	}
	for i, a := range s.Animations {
		fmt.Fprintf(w, "animation %d %q: %d channels, %d keyframes\n", i, a.Name, a.Channels, a.Keyframes)
	}
}

func printNode(w io.Writer, n GLTFNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Mesh >= 0 {
		fmt.Fprintf(w, "%snode %d %q mesh=%d\n", indent, n.Index, n.Name, n.Mesh)
	} else {
		fmt.Fprintf(w, "%snode %d %q\n", indent, n.Index, n.Name)
	}
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}
