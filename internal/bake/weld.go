package bake

import (
	gomath "math"
	"slices"
	"sort"

	"github.com/Faultbox/vertex-ao/pkg/math"
)

// WeldKey is a world position quantized to 1/WeldScale units.
type WeldKey struct {
	X, Y, Z int32
}

// KeyOf quantizes a world position.
func KeyOf(p math.Vec3) WeldKey {
	return WeldKey{
		X: int32(gomath.Round(float64(p.X) * WeldScale)),
		Y: int32(gomath.Round(float64(p.Y) * WeldScale)),
		Z: int32(gomath.Round(float64(p.Z) * WeldScale)),
	}
}

func (k WeldKey) less(o WeldKey) bool {
	if k.X != o.X {
		return k.X < o.X
	}
	if k.Y != o.Y {
		return k.Y < o.Y
	}
	return k.Z < o.Z
}

// buildWeldIndex groups vertex indices by weld key. Index lists are
// ascending and keys are returned in sorted order.
func buildWeldIndex(positions []math.Vec3) (map[WeldKey][]int, []WeldKey) {
	index := make(map[WeldKey][]int, len(positions))
	for i, p := range positions {
		k := KeyOf(p)
		index[k] = append(index[k], i)
	}
	keys := make([]WeldKey, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b WeldKey) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return index, keys
}

// neighborPad lets meshes that merely touch count as overlapping.
const neighborPad = 1.0 / WeldScale

// FindNeighbors links every pair of collider meshes whose bounds intersect.
// It sweeps along X so only overlapping X ranges are compared. Neighbor
// lists come out sorted by batch index.
func FindNeighbors(infos []*MeshInfo) {
	var candidates []*MeshInfo
	for _, info := range infos {
		info.Neighbors = nil
		if info.Collider && len(info.Positions) > 0 {
			candidates = append(candidates, info)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Bounds.Min.X, candidates[j].Bounds.Min.X
		if a != b {
			return a < b
		}
		return candidates[i].Index < candidates[j].Index
	})

	for i, a := range candidates {
		boxA := a.Bounds.Expand(neighborPad)
		for _, b := range candidates[i+1:] {
			boxB := b.Bounds.Expand(neighborPad)
			if boxB.Min.X > boxA.Max.X {
				break
			}
			if boxA.Intersects(boxB) {
				a.Neighbors = append(a.Neighbors, b)
				b.Neighbors = append(b.Neighbors, a)
			}
		}
	}
	for _, info := range candidates {
		slices.SortFunc(info.Neighbors, func(x, y *MeshInfo) int {
			return x.Index - y.Index
		})
	}
}

// weldGroup returns every vertex sharing key with info's own vertices:
// info's vertices first, then each neighbor's in batch order.
func weldGroup(info *MeshInfo, key WeldKey) []VertexRef {
	var group []VertexRef
	for _, v := range info.Weld[key] {
		group = append(group, VertexRef{Info: info, Vertex: v})
	}
	for _, nb := range info.Neighbors {
		for _, v := range nb.Weld[key] {
			group = append(group, VertexRef{Info: nb, Vertex: v})
		}
	}
	return group
}

// AverageWeldNormals sets info.Averaged to the normalized sum of original
// normals over each vertex's full weld group, without visibility checks.
func AverageWeldNormals(info *MeshInfo) {
	averaged := make([]math.Vec3, len(info.Normals))
	for _, key := range info.Keys {
		group := weldGroup(info, key)
		var sum math.Vec3
		for _, ref := range group {
			sum = sum.Add(ref.Normal())
		}
		for _, v := range info.Weld[key] {
			averaged[v] = normalOrFallback(sum, info.Normals[v])
		}
	}
	info.Averaged = averaged
}

// normalOrFallback normalizes sum, or returns fallback when the members
// cancel out.
func normalOrFallback(sum, fallback math.Vec3) math.Vec3 {
	const minLength = 1e-4
	if sum.Length() < minLength {
		return fallback
	}
	return sum.Normalize()
}
