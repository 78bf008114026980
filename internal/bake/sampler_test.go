package bake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

func TestSampleDirections(t *testing.T) {
	a := SampleDirections(256, 7)
	b := SampleDirections(256, 7)
	c := SampleDirections(256, 8)

	require.Len(t, a, 256)
	assert.Equal(t, a, b, "same seed, same directions")
	assert.NotEqual(t, a, c)

	var mean math.Vec3
	for _, d := range a {
		assert.InDelta(t, 1, d.Length(), 1e-5)
		mean = mean.Add(d)
	}
	// Roughly uniform on the sphere
	assert.Less(t, mean.Scale(1.0/256).Length(), float32(0.2))
}

func singleQuadInfo(t *testing.T) *MeshInfo {
	t.Helper()
	infos := gatherAll(NormalNone, quadNode("q", math.Vec3{}, 1, false))
	require.Len(t, infos, 1)
	return infos[0]
}

func TestSamplerRejectsBackfacingDirections(t *testing.T) {
	info := singleQuadInfo(t)
	s := DefaultSettings()

	// Straight down never enters the upper hemisphere
	sm := NewSampler(fakePhysics{hit: true, distance: 0.1}, []math.Vec3{{Y: -1}}, s)
	occ, rays := sm.Occlusion(info)
	assert.Equal(t, []float32{1, 1, 1, 1}, occ)
	assert.Zero(t, rays)

	sm = NewSampler(fakePhysics{hit: true, distance: 0.15}, []math.Vec3{{Y: 1}}, s)
	occ, rays = sm.Occlusion(info)
	for _, v := range occ {
		assert.InDelta(t, 0.1, v, 1e-6)
	}
	assert.Equal(t, int64(4), rays)
}

func TestSamplerHitFiltering(t *testing.T) {
	info := singleQuadInfo(t)
	dirs := []math.Vec3{{Y: 1}}

	s := DefaultSettings()
	s.MinHitDistance = 0.2
	occ, _ := NewSampler(fakePhysics{hit: true, distance: 0.15}, dirs, s).Occlusion(info)
	assert.Equal(t, float32(1), occ[0], "hits at or below the minimum are ignored")

	s = DefaultSettings()
	s.Intensity = 4
	occ, _ = NewSampler(fakePhysics{hit: true, distance: 0.75}, dirs, s).Occlusion(info)
	assert.Equal(t, float32(0), occ[0], "intensity clamps at fully occluded")

	s = DefaultSettings()
	s.MaxRange = 0
	occ, rays := NewSampler(fakePhysics{hit: true, distance: 0}, dirs, s).Occlusion(info)
	assert.Equal(t, []float32{1, 1, 1, 1}, occ)
	assert.Zero(t, rays)
}

func TestSamplerZeroNormal(t *testing.T) {
	mesh := scene.NewQuad("q", 1, 1)
	mesh.Normals = nil
	mesh.Vertices = append(mesh.Vertices, math.Vec3{Y: 3})
	infos := gatherAll(NormalNone, &scene.Node{Name: "q", Mesh: mesh})

	occ, _ := NewSampler(fakePhysics{hit: true, distance: 0.1}, []math.Vec3{{Y: 1}}, DefaultSettings()).Occlusion(infos[0])
	assert.Equal(t, float32(1), occ[4], "vertex outside every triangle has no normal")
	assert.Less(t, occ[0], float32(1))
}

func TestSamplerWorkersMatchSerial(t *testing.T) {
	floor := quadNode("floor", math.Vec3{}, 10, true)
	box := &scene.Node{Name: "box", Mesh: scene.NewBox("box", math.One), Collider: true}
	box.Transform.Position = math.Vec3{Y: 0.5}
	world := picking.NewWorld(floor, box)
	infos := gatherAll(NormalNone, floor, box)
	dirs := SampleDirections(128, 3)

	serial := DefaultSettings()
	parallel := DefaultSettings()
	parallel.Workers = 5

	want, wantRays := NewSampler(world, dirs, serial).Occlusion(infos[1])
	got, gotRays := NewSampler(world, dirs, parallel).Occlusion(infos[1])
	assert.Equal(t, want, got)
	assert.Equal(t, wantRays, gotRays)
}
