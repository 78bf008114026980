package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vertex-ao/pkg/math"
)

// File is the on-disk YAML layout of a scene.
type File struct {
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one node. Rotation is a quaternion [x, y, z, w];
// Euler is an alternative in degrees and is ignored when Rotation is set.
type NodeSpec struct {
	Name     string      `yaml:"name"`
	Position [3]float32  `yaml:"position,flow"`
	Rotation *[4]float32 `yaml:"rotation,omitempty,flow"`
	Euler    *[3]float32 `yaml:"euler,omitempty,flow"`
	Scale    *[3]float32 `yaml:"scale,omitempty,flow"`
	Collider bool        `yaml:"collider,omitempty"`
	Layer    int         `yaml:"layer,omitempty"`
	Mesh     *MeshSpec   `yaml:"mesh,omitempty"`
	Children []NodeSpec  `yaml:"children,omitempty"`
}

// MeshSpec is the serialized form of a Mesh.
type MeshSpec struct {
	Vertices  [][3]float32 `yaml:"vertices,flow"`
	Triangles []uint32     `yaml:"triangles,flow"`
	Normals   [][3]float32 `yaml:"normals,omitempty,flow"`
	Colors    []Color      `yaml:"colors,omitempty,flow"`
}

// Load reads a scene file and returns its root nodes.
func Load(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	roots, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding scene %s: %w", path, err)
	}
	return roots, nil
}

// Decode parses YAML scene data.
func Decode(data []byte) ([]*Node, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	roots := make([]*Node, 0, len(f.Nodes))
	for i := range f.Nodes {
		n, err := f.Nodes[i].toNode()
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, nil
}

// Save writes roots to path, creating parent directories as needed.
func Save(path string, roots []*Node) error {
	data, err := Encode(roots)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Encode serializes roots to YAML.
func Encode(roots []*Node) ([]byte, error) {
	f := File{Nodes: make([]NodeSpec, 0, len(roots))}
	for _, n := range roots {
		f.Nodes = append(f.Nodes, fromNode(n))
	}
	return yaml.Marshal(&f)
}

func (s *NodeSpec) toNode() (*Node, error) {
	n := &Node{
		Name:     s.Name,
		Collider: s.Collider,
		Layer:    s.Layer,
		Transform: Transform{
			Position: vec(s.Position),
			Rotation: math.QuatIdentity(),
			Scale:    math.One,
		},
	}
	if n.Layer < 0 || n.Layer > 31 {
		return nil, fmt.Errorf("node %q: layer %d out of range 0..31", s.Name, s.Layer)
	}
	switch {
	case s.Rotation != nil:
		r := *s.Rotation
		n.Transform.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	case s.Euler != nil:
		n.Transform.Rotation = math.QuatFromEuler(vec(*s.Euler))
	}
	if s.Scale != nil {
		n.Transform.Scale = vec(*s.Scale)
	}
	if s.Mesh != nil {
		m := &Mesh{Name: s.Name, Triangles: s.Mesh.Triangles, Colors: s.Mesh.Colors}
		m.Vertices = vecs(s.Mesh.Vertices)
		m.Normals = vecs(s.Mesh.Normals)
		if err := m.Validate(); err != nil {
			return nil, err
		}
		n.Mesh = m
	}
	for i := range s.Children {
		c, err := s.Children[i].toNode()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func fromNode(n *Node) NodeSpec {
	t := n.Transform
	s := NodeSpec{
		Name:     n.Name,
		Position: arr(t.Position),
		Collider: n.Collider,
		Layer:    n.Layer,
	}
	if !t.Rotation.IsZero() && t.Rotation != math.QuatIdentity() {
		r := [4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W}
		s.Rotation = &r
	}
	if t.Scale != math.Zero && t.Scale != math.One {
		sc := arr(t.Scale)
		s.Scale = &sc
	}
	if m := n.Mesh; m != nil {
		ms := &MeshSpec{Triangles: m.Triangles, Colors: m.Colors}
		ms.Vertices = arrs(m.Vertices)
		ms.Normals = arrs(m.Normals)
		s.Mesh = ms
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, fromNode(c))
	}
	return s
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func arr(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func vecs(in [][3]float32) []math.Vec3 {
	if len(in) == 0 {
		return nil
	}
	out := make([]math.Vec3, len(in))
	for i, a := range in {
		out[i] = vec(a)
	}
	return out
}

func arrs(in []math.Vec3) [][3]float32 {
	if len(in) == 0 {
		return nil
	}
	out := make([][3]float32, len(in))
	for i, v := range in {
		out[i] = arr(v)
	}
	return out
}
