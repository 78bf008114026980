package bake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

func TestDisjointSet(t *testing.T) {
	var ds disjointSet
	for i := 0; i < 5; i++ {
		ds.add()
	}
	ds.union(0, 1)
	ds.union(3, 4)
	ds.union(1, 4)

	assert.Equal(t, ds.find(0), ds.find(3))
	assert.NotEqual(t, ds.find(0), ds.find(2))
	assert.Equal(t, 4, ds.size[ds.find(4)])
}

// assertPartition checks every vertex sharing a key with info lands in
// exactly one set.
func assertPartition(t *testing.T, info *MeshInfo, sets []VisibilitySet) {
	t.Helper()
	want := make(map[VertexRef]bool)
	for _, key := range info.Keys {
		for _, ref := range weldGroup(info, key) {
			want[ref] = true
		}
	}
	seen := make(map[VertexRef]int)
	for _, set := range sets {
		require.NotEmpty(t, set)
		for _, ref := range set {
			seen[ref]++
		}
	}
	assert.Len(t, seen, len(want))
	for ref := range want {
		assert.Equal(t, 1, seen[ref], "%s vertex %d", ref.Info.Path, ref.Vertex)
	}
}

func TestClustererSharedEdgeAveragesAcrossMeshes(t *testing.T) {
	left, right := valley(true)
	infos := gatherAll(NormalVisibility, left, right)
	c := NewClusterer(picking.NewWorld(left, right), DefaultSettings())

	sets := c.Average(infos[0])

	assertPartition(t, infos[0], sets)
	require.Len(t, sets, 4)
	assert.Equal(t, VisibilitySet{{infos[0], 0}, {infos[1], 0}}, sets[0])
	assert.Equal(t, VisibilitySet{{infos[0], 1}, {infos[1], 1}}, sets[1])

	// Shared edge averages to straight up, the rest keep their slope
	assertVec(t, math.Vec3{Y: 1}, infos[0].Averaged[0])
	assertVec(t, math.Vec3{Y: 1}, infos[0].Averaged[1])
	assertVec(t, infos[0].Normals[2], infos[0].Averaged[2])
	assertVec(t, infos[0].Normals[3], infos[0].Averaged[3])

	// Only info's own vertices are written
	assert.Nil(t, infos[1].Averaged)
}

func TestClustererRidgeKeepsHardEdge(t *testing.T) {
	left, right := valley(false)
	infos := gatherAll(NormalVisibility, left, right)
	c := NewClusterer(picking.NewWorld(left, right), DefaultSettings())

	sets := c.Average(infos[0])

	assertPartition(t, infos[0], sets)
	assert.Len(t, sets, 6, "every vertex is a singleton")
	for i := range infos[0].Normals {
		assertVec(t, infos[0].Normals[i], infos[0].Averaged[i])
	}
}

func TestClustererBlockedLine(t *testing.T) {
	left, right := valley(true)
	infos := gatherAll(NormalVisibility, left, right)
	c := NewClusterer(fakePhysics{blocked: true}, DefaultSettings())

	sets := c.Sets(infos[0])

	assertPartition(t, infos[0], sets)
	assert.Len(t, sets, 6)
}

func TestClustererCoplanar(t *testing.T) {
	a := quadNode("a", math.Vec3{}, 1, true)
	b := quadNode("b", math.Vec3{X: 1}, 1, true)
	infos := gatherAll(NormalVisibility, a, b)
	c := NewClusterer(picking.NewWorld(a, b), DefaultSettings())

	sets := c.Sets(infos[1])

	assertPartition(t, infos[1], sets)
	// Two shared corners merge; the far corners of b stay alone
	assert.Len(t, sets, 4)
}

func TestClustererBoxCorners(t *testing.T) {
	box := &scene.Node{Name: "box", Mesh: scene.NewBox("box", math.One), Collider: true}
	infos := gatherAll(NormalVisibility, box)
	c := NewClusterer(picking.NewWorld(box), DefaultSettings())

	sets := c.Sets(infos[0])

	assertPartition(t, infos[0], sets)
	// Convex corners never see each other
	assert.Len(t, sets, 24)
}
