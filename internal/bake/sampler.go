package bake

import (
	gomath "math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// Physics is the collision backend the baker queries. Implementations must
// allow concurrent calls when Settings.Workers > 1.
type Physics interface {
	RayCast(origin, direction math.Vec3, maxDistance float32, mask picking.LayerMask) (picking.Hit, bool)
	Linecast(a, b math.Vec3, mask picking.LayerMask) bool
}

// SampleDirections draws n unit vectors uniformly on the sphere.
// The same seed always yields the same directions. Seed 0 picks a seed
// from the clock.
func SampleDirections(n int, seed uint64) []math.Vec3 {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	dirs := make([]math.Vec3, 0, n)
	for len(dirs) < n {
		x, y, z := rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()
		l := gomath.Sqrt(x*x + y*y + z*z)
		if l < 1e-9 {
			continue
		}
		dirs = append(dirs, math.Vec3{X: float32(x / l), Y: float32(y / l), Z: float32(z / l)})
	}
	return dirs
}

// Sampler estimates per-vertex occlusion by casting the run's sample
// directions over each vertex's hemisphere.
type Sampler struct {
	physics Physics
	dirs    []math.Vec3
	s       Settings
}

// NewSampler returns a sampler sharing dirs across every vertex it sees.
func NewSampler(physics Physics, dirs []math.Vec3, s Settings) *Sampler {
	return &Sampler{physics: physics, dirs: dirs, s: s.normalized()}
}

// Occlusion returns one value per vertex in [0, 1] (1 = fully lit) and the
// number of rays cast. Vertices are split across Settings.Workers
// goroutines; each writes only its own slots so the result does not depend
// on scheduling.
func (sm *Sampler) Occlusion(info *MeshInfo) ([]float32, int64) {
	n := len(info.Positions)
	occ := make([]float32, n)
	if n == 0 {
		return occ, 0
	}

	workers := min(sm.s.Workers, n)
	chunk := (n + workers - 1) / workers
	rays := make([]int64, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				var cast int64
				occ[i], cast = sm.vertex(info, i)
				rays[w] += cast
			}
			return nil
		})
	}
	_ = g.Wait()

	var total int64
	for _, r := range rays {
		total += r
	}
	return occ, total
}

// vertex samples one vertex and returns its occlusion and ray count.
func (sm *Sampler) vertex(info *MeshInfo, i int) (float32, int64) {
	normal := info.SampleNormals()[i]
	maxRange := sm.s.MaxRange
	if normal.Length() < 1e-6 || maxRange <= 0 {
		return 1, 0
	}
	normal = normal.Normalize()

	anchor := info.Positions[i]
	if sm.s.OriginAtMidpoint {
		anchor = info.Midpoints[i]
	}

	var (
		accepted int
		rays     int64
		sum      float32
	)
	for _, dir := range sm.dirs {
		if dir.Dot(normal) < 0 {
			continue
		}
		accepted++

		offset := dir.Reflect(normal).Scale(OffsetFraction * maxRange)
		hit, ok := sm.physics.RayCast(anchor.Sub(offset), dir, maxRange, sm.s.Mask)
		rays++
		if !ok || hit.Distance <= sm.s.MinHitDistance {
			continue
		}
		sum += math.Clamp01(1 - hit.Distance/maxRange)
	}
	if accepted == 0 {
		return 1, rays
	}
	return math.Clamp01(1 - sum*sm.s.Intensity/float32(accepted)), rays
}
