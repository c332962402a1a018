package geometry

import (
	"github.com/chewxy/math32"
)

// SphereSegments is the segment count used for the PBR sphere in both directions.
const SphereSegments = 64

// Sphere builds a unit UV sphere with xs longitude and ys latitude segments.
// Vertices form an (xs+1) x (ys+1) grid; the normal equals the position. Indices
// describe a single triangle strip that snakes across the rows: even rows run
// left to right, odd rows right to left, so no restart is needed between rows.
//
// Parameters:
//   - xs: longitude segment count
//   - ys: latitude segment count
//
// Returns:
//   - []VertexTexNormal: (xs+1)*(ys+1) vertices
//   - []uint16: ys*(xs+1)*2 strip indices
func Sphere(xs, ys uint16) ([]VertexTexNormal, []uint16) {
	vertices := make([]VertexTexNormal, 0, int(xs+1)*int(ys+1))
	for y := uint16(0); y <= ys; y++ {
		for x := uint16(0); x <= xs; x++ {
			u := float32(x) / float32(xs)
			v := float32(y) / float32(ys)
			sinV := math32.Sin(v * math32.Pi)
			p := [3]float32{
				math32.Cos(u*2*math32.Pi) * sinV,
				math32.Cos(v * math32.Pi),
				math32.Sin(u*2*math32.Pi) * sinV,
			}
			vertices = append(vertices, VertexTexNormal{
				Position:  p,
				TexCoords: [2]float32{u, v},
				Normal:    p,
			})
		}
	}

	row := xs + 1
	indices := make([]uint16, 0, int(ys)*int(row)*2)
	for y := uint16(0); y < ys; y++ {
		if y&1 == 0 {
			for x := uint16(0); x <= xs; x++ {
				indices = append(indices, y*row+x, (y+1)*row+x)
			}
		} else {
			for x := int(xs); x >= 0; x-- {
				indices = append(indices, (y+1)*row+uint16(x), y*row+uint16(x))
			}
		}
	}
	return vertices, indices
}
