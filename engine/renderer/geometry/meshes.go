package geometry

// Pentagon returns the textured pentagon used by the simple effect. Texture V is flipped
// so images appear upright.
func Pentagon() ([]VertexTex, []uint16) {
	vertices := []VertexTex{
		{Position: [3]float32{-0.0868241, 0.49240386, 0}, TexCoords: [2]float32{0.4131759, 1 - 0.99240386}},
		{Position: [3]float32{-0.49513406, 0.06958647, 0}, TexCoords: [2]float32{0.0048659444, 1 - 0.56958646}},
		{Position: [3]float32{-0.21918549, -0.44939706, 0}, TexCoords: [2]float32{0.28081453, 1 - 0.050602943}},
		{Position: [3]float32{0.35966998, -0.3473291, 0}, TexCoords: [2]float32{0.85967, 1 - 0.15267089}},
		{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoords: [2]float32{0.9414737, 1 - 0.7347359}},
	}
	indices := []uint16{0, 1, 4, 1, 2, 4, 2, 3, 4}
	return vertices, indices
}

// Circle returns a unit octagon fan around the origin: the center vertex followed by
// eight rim vertices counter-clockwise from +Y.
func Circle() ([]VertexTex, []uint16) {
	vertices := []VertexTex{
		{Position: [3]float32{0, 0, 0}, TexCoords: [2]float32{0.5, 1 - 0.5}},
		{Position: [3]float32{0, 1, 0}, TexCoords: [2]float32{0.5, 1 - 1}},
		{Position: [3]float32{-0.7071, 0.7071, 0}, TexCoords: [2]float32{0.1465, 1 - 0.8535}},
		{Position: [3]float32{-1, 0, 0}, TexCoords: [2]float32{0, 1 - 0.5}},
		{Position: [3]float32{-0.7071, -0.7071, 0}, TexCoords: [2]float32{0.1465, 1 - 0.1465}},
		{Position: [3]float32{0, -1, 0}, TexCoords: [2]float32{0.5, 1 - 0}},
		{Position: [3]float32{0.7071, -0.7071, 0}, TexCoords: [2]float32{0.8535, 1 - 0.1465}},
		{Position: [3]float32{1, 0, 0}, TexCoords: [2]float32{1, 1 - 0.5}},
		{Position: [3]float32{0.7071, 0.7071, 0}, TexCoords: [2]float32{0.8535, 1 - 0.8535}},
	}
	indices := []uint16{
		0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 5,
		0, 5, 6, 0, 6, 7, 0, 7, 8, 0, 8, 1,
	}
	return vertices, indices
}
