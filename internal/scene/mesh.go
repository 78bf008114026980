// Package scene provides the mesh, transform and node types the baker reads
// from and writes vertex colors back to.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/vertex-ao/pkg/math"
)

// ErrInvalidMesh is returned when mesh arrays are inconsistent.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh holds local-space geometry and optional per-vertex attributes.
type Mesh struct {
	Name      string
	Vertices  []math.Vec3
	Triangles []uint32 // 3 indices per triangle
	Normals   []math.Vec3
	Colors    []Color
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// HasNormals reports whether the mesh carries one normal per vertex.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Vertices)
}

// HasColors reports whether vertex colors are present. A mesh with colors is
// considered baked.
func (m *Mesh) HasColors() bool {
	return len(m.Colors) > 0
}

// SetColors replaces the vertex color array.
func (m *Mesh) SetColors(colors []Color) {
	m.Colors = colors
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Name: m.Name}
	c.Vertices = append([]math.Vec3(nil), m.Vertices...)
	c.Triangles = append([]uint32(nil), m.Triangles...)
	if m.Normals != nil {
		c.Normals = append([]math.Vec3(nil), m.Normals...)
	}
	if m.Colors != nil {
		c.Colors = append([]Color(nil), m.Colors...)
	}
	return c
}

// Validate checks index ranges and attribute lengths.
func (m *Mesh) Validate() error {
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %q has %d triangle indices, not a multiple of 3", ErrInvalidMesh, m.Name, len(m.Triangles))
	}
	for i, idx := range m.Triangles {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: %q triangle index %d at %d out of range (%d vertices)", ErrInvalidMesh, m.Name, idx, i, len(m.Vertices))
		}
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %q has %d normals for %d vertices", ErrInvalidMesh, m.Name, len(m.Normals), len(m.Vertices))
	}
	if len(m.Colors) != 0 && len(m.Colors) != len(m.Vertices) {
		return fmt.Errorf("%w: %q has %d colors for %d vertices", ErrInvalidMesh, m.Name, len(m.Colors), len(m.Vertices))
	}
	return nil
}

// RecalculateNormals rebuilds per-vertex normals from triangle faces.
// Each face contributes its area-weighted normal to its three vertices.
// Vertices referenced by no valid face end up with a zero normal.
func (m *Mesh) RecalculateNormals() {
	normals := make([]math.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Triangles); t += 3 {
		i0, i1, i2 := m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2]
		if int(i0) >= len(m.Vertices) || int(i1) >= len(m.Vertices) || int(i2) >= len(m.Vertices) {
			continue
		}
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		face := v1.Sub(v0).Cross(v2.Sub(v0))
		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}
