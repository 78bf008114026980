package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

func testWorld() *World {
	floor := &scene.Node{Name: "floor", Collider: true, Mesh: scene.NewQuad("floor", 10, 10)}
	ceiling := &scene.Node{
		Name:      "ceiling",
		Transform: scene.Transform{Position: math.Vec3{Y: 4}},
		Collider:  true,
		Layer:     5,
		Mesh:      scene.NewQuad("ceiling", 10, 10),
	}
	ghost := &scene.Node{
		Name:      "ghost",
		Transform: scene.Transform{Position: math.Vec3{Y: 2}},
		Mesh:      scene.NewQuad("ghost", 10, 10),
	}
	return NewWorld(floor, ceiling, ghost)
}

func TestWorldOnlyKeepsColliders(t *testing.T) {
	assert.Equal(t, 2, testWorld().ColliderCount())
}

func TestRayCastNearest(t *testing.T) {
	w := testWorld()

	hit, ok := w.RayCast(math.Vec3{Y: 1}, math.Vec3{Y: 1}, 10, AllLayers)
	require.True(t, ok)
	assert.InDelta(t, 3, hit.Distance, 1e-5)
	assert.Equal(t, "ceiling", hit.Collider)
	assert.InDelta(t, 4, hit.Point.Y, 1e-5)

	hit, ok = w.RayCast(math.Vec3{Y: 1}, math.Vec3{Y: -2}, 10, AllLayers)
	require.True(t, ok)
	assert.InDelta(t, 1, hit.Distance, 1e-5)
	assert.Equal(t, "floor", hit.Collider)
}

func TestRayCastRangeAndMask(t *testing.T) {
	w := testWorld()

	_, ok := w.RayCast(math.Vec3{Y: 1}, math.Vec3{Y: 1}, 2.5, AllLayers)
	assert.False(t, ok, "ceiling is beyond range")

	_, ok = w.RayCast(math.Vec3{Y: 1}, math.Vec3{Y: 1}, 10, AllLayers&^(1<<5))
	assert.False(t, ok, "ceiling layer masked out")

	_, ok = w.RayCast(math.Vec3{Y: 1}, math.Zero, 10, AllLayers)
	assert.False(t, ok, "zero direction")
}

func TestLinecast(t *testing.T) {
	w := testWorld()

	assert.True(t, w.Linecast(math.Vec3{Y: 1}, math.Vec3{Y: 5}, AllLayers))
	assert.False(t, w.Linecast(math.Vec3{Y: 1}, math.Vec3{Y: 3}, AllLayers), "ghost is not a collider")
	assert.False(t, w.Linecast(math.Vec3{X: -1, Y: 1}, math.Vec3{X: 1, Y: 1}, AllLayers))
	assert.False(t, w.Linecast(math.Vec3{Y: 1}, math.Vec3{Y: 1}, AllLayers))
	assert.False(t, w.Linecast(math.Vec3{Y: 1}, math.Vec3{Y: 5}, 1<<7))
}

func TestLayerMaskContains(t *testing.T) {
	m := LayerMask(1<<0 | 1<<31)
	assert.True(t, m.Contains(0))
	assert.True(t, m.Contains(31))
	assert.False(t, m.Contains(1))
	assert.False(t, m.Contains(-1))
	assert.False(t, m.Contains(32))
}
