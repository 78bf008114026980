package bake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

func TestGatherWorldSpace(t *testing.T) {
	node := quadNode("q", math.Vec3{X: 3, Y: 1}, 2, true)
	infos := gatherAll(NormalNone, node)
	info := infos[0]

	require.Len(t, info.Positions, 4)
	assertVec(t, math.Vec3{X: 2, Y: 1, Z: -1}, info.Positions[0])
	for i := range info.Normals {
		assertVec(t, math.Up, info.Normals[i], "vertex %d", i)
	}
	// Vertex 0 touches both triangles, vertex 1 only the first
	assertVec(t, math.Vec3{X: 10.0 / 3, Y: 1, Z: -1.0 / 3}, info.Midpoints[1])
	assert.Equal(t, info.Positions[0].Y, info.Bounds.Max.Y)
	assert.Len(t, info.Keys, 4)
}

func TestGatherFlattenedNode(t *testing.T) {
	rot := math.QuatFromEuler(math.Vec3{X: 90})
	node := &scene.Node{
		Name:      "decal",
		Transform: scene.Transform{Rotation: rot, Scale: math.Vec3{X: 1, Z: 1}},
		Mesh:      scene.NewQuad("decal", 1, 1),
	}
	info := gatherAll(NormalNone, node)[0]

	want := rot.Rotate(math.Up)
	edge := info.Positions[1].Sub(info.Positions[0])
	for i, n := range info.Normals {
		assertVec(t, want, n, "vertex %d", i)
		assert.InDelta(t, 0, n.Dot(edge), 1e-5, "vertex %d normal lies in the surface", i)
	}
}
