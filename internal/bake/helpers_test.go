package bake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// fakePhysics answers every query the same way.
type fakePhysics struct {
	distance float32
	hit      bool
	blocked  bool
}

func (f fakePhysics) RayCast(origin, direction math.Vec3, maxDistance float32, mask picking.LayerMask) (picking.Hit, bool) {
	if !f.hit || f.distance > maxDistance {
		return picking.Hit{}, false
	}
	return picking.Hit{Distance: f.distance}, true
}

func (f fakePhysics) Linecast(a, b math.Vec3, mask picking.LayerMask) bool {
	return f.blocked
}

func quadNode(name string, pos math.Vec3, size float32, collider bool) *scene.Node {
	return &scene.Node{
		Name:      name,
		Transform: scene.Transform{Position: pos},
		Mesh:      scene.NewQuad(name, size, size),
		Collider:  collider,
	}
}

// downQuad returns a 1x1 quad at height y facing -Y.
func downQuad(name string, y float32) *scene.Node {
	return &scene.Node{
		Name: name,
		Transform: scene.Transform{
			Position: math.Vec3{Y: y},
			Rotation: math.QuatFromEuler(math.Vec3{X: 180}),
		},
		Mesh: scene.NewQuad(name, 1, 1),
	}
}

// valley returns two slopes meeting along the Z axis at the origin.
// With concave true the normals face into the valley, otherwise they face
// away as on a ridge seen from below.
func valley(concave bool) (*scene.Node, *scene.Node) {
	s := float32(0.70710677)
	if !concave {
		s = -s
	}
	left := &scene.Mesh{
		Name: "left",
		Vertices: []math.Vec3{
			{Z: -0.5}, {Z: 0.5}, {X: -1, Y: 1, Z: 0.5}, {X: -1, Y: 1, Z: -0.5},
		},
		Triangles: []uint32{0, 1, 2, 0, 2, 3},
	}
	right := &scene.Mesh{
		Name: "right",
		Vertices: []math.Vec3{
			{Z: -0.5}, {Z: 0.5}, {X: 1, Y: 1, Z: 0.5}, {X: 1, Y: 1, Z: -0.5},
		},
		Triangles: []uint32{0, 2, 1, 0, 3, 2},
	}
	nl := math.Vec3{X: s, Y: s}
	nr := math.Vec3{X: -s, Y: s}
	left.Normals = []math.Vec3{nl, nl, nl, nl}
	right.Normals = []math.Vec3{nr, nr, nr, nr}
	return &scene.Node{Name: "left", Mesh: left, Collider: true},
		&scene.Node{Name: "right", Mesh: right, Collider: true}
}

func newTestSession(t *testing.T, s Settings, roots ...*scene.Node) *Session {
	t.Helper()
	session, err := NewSession(picking.NewWorld(roots...), s, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return session
}

func bakeRoots(t *testing.T, s Settings, roots ...*scene.Node) Report {
	t.Helper()
	report, err := newTestSession(t, s, roots...).Bake(context.Background(), roots...)
	require.NoError(t, err)
	return report
}

func assertVec(t *testing.T, want, got math.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	require.InDelta(t, want.X, got.X, 1e-5, msgAndArgs...)
	require.InDelta(t, want.Y, got.Y, 1e-5, msgAndArgs...)
	require.InDelta(t, want.Z, got.Z, 1e-5, msgAndArgs...)
}
