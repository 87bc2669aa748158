package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Buffers holds GPU object names for an uploaded mesh.
type Buffers struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// Mesh is renderable triangle geometry with a material.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Material  *Material

	// GPU is nil until a Device uploads the mesh.
	GPU *Buffers

	// Proxy marks synthesized placeholder panes; ProxyKey carries the
	// window role they were built for.
	Proxy    bool
	ProxyKey string
}

// LocalBounds returns the bounding box of the mesh positions.
func (m *Mesh) LocalBounds() Box3 {
	box := EmptyBox()
	for _, p := range m.Positions {
		box = box.ExpandByPoint(mgl32.Vec3{p[0], p[1], p[2]})
	}
	return box
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// EnsureNormals fills Normals with flat face normals when they are missing.
func (m *Mesh) EnsureNormals() {
	if len(m.Normals) == len(m.Positions) {
		return
	}
	m.Normals = make([][3]float32, len(m.Positions))
	idx := m.Indices
	if len(idx) == 0 {
		idx = make([]uint32, len(m.Positions))
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if int(a) >= len(m.Positions) || int(b) >= len(m.Positions) || int(c) >= len(m.Positions) {
			continue
		}
		p0, p1, p2 := m.Positions[a], m.Positions[b], m.Positions[c]
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if l > 0 {
			n[0] /= l
			n[1] /= l
			n[2] /= l
		}
		m.Normals[a] = n
		m.Normals[b] = n
		m.Normals[c] = n
	}
}
