package picking

import (
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// LayerMask selects collision layers; bit i enables layer i.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = 0xFFFFFFFF

// Contains reports whether layer is enabled in the mask.
func (m LayerMask) Contains(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// Hit describes the nearest ray intersection.
type Hit struct {
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Collider string
}

type triangle struct {
	a, b, c math.Vec3
	normal  math.Vec3
}

type collider struct {
	name      string
	layer     int
	bounds    AABB
	triangles []triangle
}

// World is a static set of world-space collision meshes.
// It is never mutated after construction, so concurrent queries are safe.
type World struct {
	colliders []collider
}

// NewWorld builds a collision world from every collider mesh under roots.
func NewWorld(roots ...*scene.Node) *World {
	w := &World{}
	for _, mn := range scene.Collect(roots...) {
		if !mn.Node.Collider {
			continue
		}
		w.add(mn)
	}
	return w
}

func (w *World) add(mn scene.MeshNode) {
	mesh := mn.Node.Mesh
	world := make([]math.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		world[i] = mn.World.TransformPoint(v)
	}
	c := collider{name: mn.Path, layer: mn.Node.Layer, bounds: BoundsOf(world)}
	for t := 0; t+2 < len(mesh.Triangles); t += 3 {
		i0, i1, i2 := mesh.Triangles[t], mesh.Triangles[t+1], mesh.Triangles[t+2]
		if int(i0) >= len(world) || int(i1) >= len(world) || int(i2) >= len(world) {
			continue
		}
		a, b, cc := world[i0], world[i1], world[i2]
		n := b.Sub(a).Cross(cc.Sub(a))
		if n.LengthSq() == 0 {
			continue
		}
		c.triangles = append(c.triangles, triangle{a: a, b: b, c: cc, normal: n.Normalize()})
	}
	if len(c.triangles) == 0 {
		return
	}
	w.colliders = append(w.colliders, c)
}

// ColliderCount returns the number of collision meshes.
func (w *World) ColliderCount() int {
	return len(w.colliders)
}

// RayCast returns the nearest hit within maxDistance on layers in mask.
// direction need not be normalized.
func (w *World) RayCast(origin, direction math.Vec3, maxDistance float32, mask LayerMask) (Hit, bool) {
	dir := direction.Normalize()
	if dir == math.Zero || maxDistance <= 0 {
		return Hit{}, false
	}
	ray := Ray{Origin: origin, Direction: dir}

	best := Hit{Distance: maxDistance}
	found := false
	for i := range w.colliders {
		c := &w.colliders[i]
		if !mask.Contains(c.layer) {
			continue
		}
		if t, ok := ray.IntersectAABB(c.bounds); !ok || t > best.Distance {
			continue
		}
		for j := range c.triangles {
			tri := &c.triangles[j]
			t, ok := ray.IntersectTriangle(tri.a, tri.b, tri.c)
			if !ok || t > best.Distance {
				continue
			}
			best = Hit{Distance: t, Point: ray.At(t), Normal: tri.normal, Collider: c.name}
			found = true
		}
	}
	return best, found
}

// Linecast reports whether any collider on mask blocks the segment a-b.
func (w *World) Linecast(a, b math.Vec3, mask LayerMask) bool {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return false
	}
	ray := Ray{Origin: a, Direction: d.Scale(1 / length)}
	for i := range w.colliders {
		c := &w.colliders[i]
		if !mask.Contains(c.layer) {
			continue
		}
		if t, ok := ray.IntersectAABB(c.bounds); !ok || t > length {
			continue
		}
		for j := range c.triangles {
			tri := &c.triangles[j]
			if t, ok := ray.IntersectTriangle(tri.a, tri.b, tri.c); ok && t <= length {
				return true
			}
		}
	}
	return false
}
