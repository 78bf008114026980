// Package bake computes per-vertex ambient occlusion for scene meshes and
// stores it as vertex colors.
package bake

import (
	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// MeshInfo is the world-space view of one mesh for the duration of a run.
type MeshInfo struct {
	// Index is the mesh's position in the batch; it orders everything that
	// iterates over several meshes.
	Index int
	Path  string
	Node  *scene.Node
	Mesh  *scene.Mesh

	Positions []math.Vec3
	Normals   []math.Vec3 // original, world space, unit or zero
	// Averaged is nil unless a normal averaging pass ran.
	Averaged  []math.Vec3
	Midpoints []math.Vec3

	Weld   map[WeldKey][]int
	Keys   []WeldKey // sorted keys of Weld
	Bounds picking.AABB

	// Collider is false for meshes that cannot take part in cross-mesh
	// welding.
	Collider  bool
	Neighbors []*MeshInfo
}

// Empty reports whether there is nothing to bake.
func (m *MeshInfo) Empty() bool {
	return len(m.Positions) == 0 || m.Mesh.TriangleCount() == 0
}

// SampleNormals returns the normals the sampler orients against.
func (m *MeshInfo) SampleNormals() []math.Vec3 {
	if m.Averaged != nil {
		return m.Averaged
	}
	return m.Normals
}

// Gather converts a mesh node into world-space vertex data.
//
// Missing normals are recomputed on the mesh itself, except in visibility
// mode where the mesh is left untouched and a throwaway copy is used.
func Gather(index int, mn scene.MeshNode, mode NormalMode) *MeshInfo {
	mesh := mn.Node.Mesh
	info := &MeshInfo{
		Index:    index,
		Path:     mn.Path,
		Node:     mn.Node,
		Mesh:     mesh,
		Collider: mn.Node.Collider,
		Bounds:   picking.EmptyAABB(),
	}
	if mesh.VertexCount() == 0 {
		info.Weld = map[WeldKey][]int{}
		return info
	}

	src := mesh
	if !mesh.HasNormals() {
		if mode == NormalVisibility {
			src = mesh.Clone()
		}
		src.RecalculateNormals()
	}

	normalMatrix := mn.World.NormalMatrix()
	n := mesh.VertexCount()
	info.Positions = make([]math.Vec3, n)
	info.Normals = make([]math.Vec3, n)
	for i := 0; i < n; i++ {
		info.Positions[i] = mn.World.TransformPoint(src.Vertices[i])
		info.Normals[i] = normalMatrix.TransformDirection(src.Normals[i]).Normalize()
	}
	info.Bounds = picking.BoundsOf(info.Positions)

	info.Midpoints = midpoints(info.Positions, mesh.Triangles)
	info.Weld, info.Keys = buildWeldIndex(info.Positions)
	return info
}

// midpoints averages the centroids of every triangle touching each vertex.
// Vertices outside any triangle keep their own position.
func midpoints(positions []math.Vec3, triangles []uint32) []math.Vec3 {
	sums := make([]math.Vec3, len(positions))
	counts := make([]int, len(positions))
	for t := 0; t+2 < len(triangles); t += 3 {
		i0, i1, i2 := triangles[t], triangles[t+1], triangles[t+2]
		centroid := positions[i0].Add(positions[i1]).Add(positions[i2]).Scale(1.0 / 3.0)
		for _, idx := range [3]uint32{i0, i1, i2} {
			sums[idx] = sums[idx].Add(centroid)
			counts[idx]++
		}
	}
	out := make([]math.Vec3, len(positions))
	for i := range positions {
		if counts[i] == 0 {
			out[i] = positions[i]
			continue
		}
		out[i] = sums[i].Scale(1 / float32(counts[i]))
	}
	return out
}
