// Package scene provides the in-memory scene graph used by the viewer:
// nodes with transforms, meshes, materials and bounding boxes.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a transform in the scene hierarchy with an optional mesh.
type Node struct {
	Name string

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// Matrix overrides Translation/Rotation/Scale when set.
	Matrix *mgl32.Mat4

	Mesh *Mesh

	Children []*Node
	parent   *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// NewMeshNode creates a node carrying the given mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add appends children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
}

// Remove detaches child from n. It reports whether the child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node transform in world space.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the world-space origin of the node.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldRotation returns the accumulated rotation of the node and its
// ancestors. Scale is ignored.
func (n *Node) WorldRotation() mgl32.Quat {
	q := n.localRotation()
	for p := n.parent; p != nil; p = p.parent {
		q = p.localRotation().Mul(q)
	}
	return q.Normalize()
}

func (n *Node) localRotation() mgl32.Quat {
	if n.Matrix != nil {
		return mgl32.Mat4ToQuat(*n.Matrix)
	}
	return n.Rotation
}

// Traverse walks the subtree depth-first in pre-order. Returning false from
// fn skips the node's children.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Meshes returns all nodes carrying a mesh, in traversal order.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) bool {
		if c.Mesh != nil {
			out = append(out, c)
		}
		return true
	})
	return out
}

// WorldBounds returns the world-space bounding box of the node's own mesh,
// or an empty box when it has none.
func (n *Node) WorldBounds() Box3 {
	if n.Mesh == nil {
		return EmptyBox()
	}
	return n.Mesh.LocalBounds().Transform(n.WorldMatrix())
}

// SubtreeBounds returns the union of world bounds of every mesh below n.
func (n *Node) SubtreeBounds() Box3 {
	box := EmptyBox()
	for _, m := range n.Meshes() {
		box = box.Union(m.WorldBounds())
	}
	return box
}

// Find returns the first node in traversal order with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
