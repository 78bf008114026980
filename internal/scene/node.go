package scene

import (
	"github.com/Faultbox/vertex-ao/pkg/math"
)

// Transform is a local position/rotation/scale.
// A zero Rotation means identity and a zero Scale means (1, 1, 1), so the
// zero Transform is the identity transform.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.One}
}

// Matrix returns the local TRS matrix.
func (t Transform) Matrix() math.Mat4 {
	rot := t.Rotation
	if rot.IsZero() {
		rot = math.QuatIdentity()
	}
	scale := t.Scale
	if scale == math.Zero {
		scale = math.One
	}
	return math.TRS(t.Position, rot, scale)
}

// Node is a scene object. Meshes, colliders and children are all optional.
type Node struct {
	Name      string
	Transform Transform
	Mesh      *Mesh
	// Collider marks the mesh as solid for ray and line-of-sight queries.
	Collider bool
	// Layer is the collision layer, 0..31.
	Layer    int
	Children []*Node
}

// AddChild appends child and returns it.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// MeshNode is a mesh-bearing node with its resolved world matrix.
type MeshNode struct {
	Node  *Node
	Path  string
	World math.Mat4
}

// Collect walks roots depth-first and returns every node carrying a mesh,
// in visiting order. Order is stable for identical input.
func Collect(roots ...*Node) []MeshNode {
	var out []MeshNode
	for _, root := range roots {
		collect(root, math.Identity(), "", &out)
	}
	return out
}

func collect(n *Node, parent math.Mat4, prefix string, out *[]MeshNode) {
	if n == nil {
		return
	}
	world := parent.Mul(n.Transform.Matrix())
	path := n.Name
	if prefix != "" {
		path = prefix + "/" + n.Name
	}
	if n.Mesh != nil {
		*out = append(*out, MeshNode{Node: n, Path: path, World: world})
	}
	for _, c := range n.Children {
		collect(c, world, path, out)
	}
}

// ClearColors drops vertex colors from every mesh under roots so the next
// bake reprocesses them. Returns the number of meshes cleared.
func ClearColors(roots ...*Node) int {
	cleared := 0
	for _, mn := range Collect(roots...) {
		if mn.Node.Mesh.HasColors() {
			mn.Node.Mesh.Colors = nil
			cleared++
		}
	}
	return cleared
}
