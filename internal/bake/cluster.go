package bake

import (
	"slices"

	"github.com/Faultbox/vertex-ao/pkg/math"
)

// VertexRef identifies one vertex of one mesh in the batch.
type VertexRef struct {
	Info   *MeshInfo
	Vertex int
}

// Normal returns the vertex's original world normal.
func (r VertexRef) Normal() math.Vec3 {
	return r.Info.Normals[r.Vertex]
}

func (r VertexRef) compare(o VertexRef) int {
	if r.Info.Index != o.Info.Index {
		return r.Info.Index - o.Info.Index
	}
	return r.Vertex - o.Vertex
}

// VisibilitySet is a group of colocated vertices that see each other.
// Members are sorted by batch index, then vertex index.
type VisibilitySet []VertexRef

// disjointSet is a union-find over dense ids with path halving and
// union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func (d *disjointSet) add() int {
	id := len(d.parent)
	d.parent = append(d.parent, id)
	d.size = append(d.size, 1)
	return id
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
}

// Clusterer merges colocated vertices that see each other into visibility
// sets and derives averaged normals from them.
type Clusterer struct {
	physics Physics
	epsilon float32
	s       Settings
}

// NewClusterer returns a clusterer using physics for line-of-sight checks.
func NewClusterer(physics Physics, s Settings) *Clusterer {
	s = s.normalized()
	return &Clusterer{physics: physics, epsilon: s.VisibilityEpsilon, s: s}
}

// Sets partitions every vertex sharing a weld key with info (its own and
// its neighbors') into visibility sets. Every vertex lands in exactly one
// set; vertices that see nobody form singletons.
func (c *Clusterer) Sets(info *MeshInfo) []VisibilitySet {
	var (
		ds   disjointSet
		ids  = make(map[VertexRef]int)
		refs []VertexRef
	)
	idOf := func(r VertexRef) int {
		if id, ok := ids[r]; ok {
			return id
		}
		id := ds.add()
		ids[r] = id
		refs = append(refs, r)
		return id
	}

	for _, key := range info.Keys {
		group := weldGroup(info, key)
		for i := range group {
			a := idOf(group[i])
			for j := i + 1; j < len(group); j++ {
				b := idOf(group[j])
				if ds.find(a) == ds.find(b) {
					continue
				}
				if c.visible(group[i], group[j]) {
					ds.union(a, b)
				}
			}
		}
	}

	byRoot := make(map[int]int)
	var sets []VisibilitySet
	for id, ref := range refs {
		root := ds.find(id)
		slot, ok := byRoot[root]
		if !ok {
			slot = len(sets)
			byRoot[root] = slot
			sets = append(sets, nil)
		}
		sets[slot] = append(sets[slot], ref)
	}
	for _, set := range sets {
		slices.SortFunc(set, VertexRef.compare)
	}
	slices.SortFunc(sets, func(a, b VisibilitySet) int {
		return a[0].compare(b[0])
	})
	return sets
}

// Average sets info.Averaged from the visibility sets of info's vertices.
// Each vertex gets the normalized sum of its set's original normals, or its
// own normal when the sum cancels out.
func (c *Clusterer) Average(info *MeshInfo) []VisibilitySet {
	sets := c.Sets(info)
	averaged := slices.Clone(info.Normals)
	for _, set := range sets {
		var sum math.Vec3
		for _, ref := range set {
			sum = sum.Add(ref.Normal())
		}
		for _, ref := range set {
			if ref.Info != info {
				continue
			}
			averaged[ref.Vertex] = normalOrFallback(sum, info.Normals[ref.Vertex])
		}
	}
	info.Averaged = averaged
	return sets
}

// visible offsets both midpoints along their own normals. The pair sees
// each other when the outward points are no farther apart than the inward
// ones and nothing blocks the line between the outward points.
func (c *Clusterer) visible(a, b VertexRef) bool {
	ma, mb := a.Info.Midpoints[a.Vertex], b.Info.Midpoints[b.Vertex]
	na, nb := a.Normal().Scale(c.epsilon), b.Normal().Scale(c.epsilon)

	outA, outB := ma.Add(na), mb.Add(nb)
	inA, inB := ma.Sub(na), mb.Sub(nb)
	if outA.Distance(outB) > inA.Distance(inB) {
		return false
	}
	return !c.physics.Linecast(outA, outB, c.s.Mask)
}
