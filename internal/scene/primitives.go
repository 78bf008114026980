package scene

import "github.com/Faultbox/vertex-ao/pkg/math"

// NewQuad returns a width x depth quad in the XZ plane, centered on the
// origin, facing +Y. Vertices are ordered (-x,-z), (+x,-z), (+x,+z), (-x,+z).
func NewQuad(name string, width, depth float32) *Mesh {
	hw, hd := width/2, depth/2
	return &Mesh{
		Name: name,
		Vertices: []math.Vec3{
			{X: -hw, Z: -hd},
			{X: hw, Z: -hd},
			{X: hw, Z: hd},
			{X: -hw, Z: hd},
		},
		Triangles: []uint32{0, 2, 1, 0, 3, 2},
		Normals:   []math.Vec3{math.Up, math.Up, math.Up, math.Up},
	}
}

// NewBox returns an axis-aligned box with split (hard-edged) faces,
// 4 vertices per face with outward normals.
func NewBox(name string, size math.Vec3) *Mesh {
	h := size.Scale(0.5)
	faces := []struct {
		normal, u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}
	m := &Mesh{Name: name}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		c := mulComponents(f.normal, h)
		u := mulComponents(f.u, h)
		v := mulComponents(f.v, h)
		m.Vertices = append(m.Vertices,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		m.Normals = append(m.Normals, f.normal, f.normal, f.normal, f.normal)
		m.Triangles = append(m.Triangles, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func mulComponents(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}
