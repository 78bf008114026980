package bake

import (
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// Colors maps occlusion to final vertex colors without touching the mesh.
//
// Alpha of the existing colors (white when absent) is the working channel:
// it is reset to 1 or kept, multiplied by occlusion, optionally smoothed,
// then mapped to lerp(OccludedColor, white, alpha) with alpha forced to 1.
func Colors(mesh *scene.Mesh, occlusion []float32, s Settings) []scene.Color {
	n := mesh.VertexCount()
	colors := make([]scene.Color, n)
	if len(mesh.Colors) == n {
		copy(colors, mesh.Colors)
	} else {
		for i := range colors {
			colors[i] = scene.White
		}
	}

	alpha := make([]float32, n)
	for i := range alpha {
		a := colors[i].A
		if s.ResetAlpha {
			a = 1
		}
		occ := float32(1)
		if i < len(occlusion) {
			occ = occlusion[i]
		}
		alpha[i] = math.Clamp01(a * occ)
	}

	if s.SmoothTriangles {
		smoothTriangles(alpha, mesh.Triangles)
	}

	for i := range colors {
		c := s.OccludedColor.Lerp(scene.White, alpha[i])
		c.A = 1
		colors[i] = c
	}
	return colors
}

// smoothTriangles makes a single pass over triangles in mesh order, moving
// each corner halfway toward that triangle's average. Later triangles see
// values already moved by earlier ones.
func smoothTriangles(values []float32, triangles []uint32) {
	for t := 0; t+2 < len(triangles); t += 3 {
		i0, i1, i2 := triangles[t], triangles[t+1], triangles[t+2]
		avg := (values[i0] + values[i1] + values[i2]) / 3
		values[i0] = (values[i0] + avg) / 2
		values[i1] = (values[i1] + avg) / 2
		values[i2] = (values[i2] + avg) / 2
	}
}
