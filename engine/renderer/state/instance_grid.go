package state

import (
	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pbr/engine/renderer/uniforms"
)

// Instance grid shape.
const (
	GridSide    = 7
	GridSpacing = 2.5
	// MinRoughness is the roughness floor of the leftmost column.
	MinRoughness = 0.05
)

// MakeInstances lays out the PBR sphere grid. Instance row*7+col sits at
// ((col-3)*2.5, (row-3)*2.5, 0) with metallic row/7, roughness clamp(col/7, 0.05, 1) and
// ambient occlusion 1.
//
// Returns:
//   - [pipeline.InstanceCount]uniforms.TransformRaw: the model matrices
//   - [pipeline.InstanceCount]uniforms.MaterialInfoRaw: the material parameters
func MakeInstances() ([pipeline.InstanceCount]uniforms.TransformRaw, [pipeline.InstanceCount]uniforms.MaterialInfoRaw) {
	var transforms [pipeline.InstanceCount]uniforms.TransformRaw
	var materials [pipeline.InstanceCount]uniforms.MaterialInfoRaw

	half := float32(GridSide / 2)
	for row := 0; row < GridSide; row++ {
		for col := 0; col < GridSide; col++ {
			i := row*GridSide + col
			common.Translation(transforms[i].Model[:],
				(float32(col)-half)*GridSpacing,
				(float32(row)-half)*GridSpacing,
				0,
			)
			metallic := float32(row) / GridSide
			roughness := common.Clamp(float32(col)/GridSide, MinRoughness, 1)
			materials[i].Info = [4]float32{metallic, roughness, 1, 0}
		}
	}
	return transforms, materials
}
