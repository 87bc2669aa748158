package renderer

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// ErrEmptyMesh is returned when uploading a mesh without positions.
var ErrEmptyMesh = errors.New("mesh has no positions")

// floatsPerVertex is position (3) + normal (3).
const floatsPerVertex = 6

// Device uploads meshes to OpenGL buffers. It satisfies scene.Device and
// must only be used on the thread owning the GL context.
type Device struct {
	uploaded int
}

// NewDevice returns a GL-backed device.
func NewDevice() *Device {
	return &Device{}
}

// interleave packs positions and normals into one vertex stream.
func interleave(m *scene.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*floatsPerVertex)
	for i, p := range m.Positions {
		var n [3]float32
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

// Upload creates the VAO, VBO and (for indexed meshes) EBO for m.
func (d *Device) Upload(m *scene.Mesh) error {
	if len(m.Positions) == 0 {
		return ErrEmptyMesh
	}
	m.EnsureNormals()
	vertices := interleave(m)

	var buf scene.Buffers
	gl.GenVertexArrays(1, &buf.VAO)
	gl.BindVertexArray(buf.VAO)

	gl.GenBuffers(1, &buf.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	if len(m.Indices) > 0 {
		gl.GenBuffers(1, &buf.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	}

	stride := int32(floatsPerVertex * 4)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	m.GPU = &buf
	d.uploaded++
	logger.Debug("mesh uploaded",
		zap.Uint32("vao", buf.VAO),
		zap.Int("vertices", len(m.Positions)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return nil
}

// Release deletes the mesh's GL objects.
func (d *Device) Release(m *scene.Mesh) {
	if m.GPU == nil {
		return
	}
	buf := m.GPU
	if buf.EBO != 0 {
		gl.DeleteBuffers(1, &buf.EBO)
	}
	if buf.VBO != 0 {
		gl.DeleteBuffers(1, &buf.VBO)
	}
	if buf.VAO != 0 {
		gl.DeleteVertexArrays(1, &buf.VAO)
	}
	m.GPU = nil
	d.uploaded--
}

// Live returns the number of meshes currently holding GL buffers.
func (d *Device) Live() int {
	return d.uploaded
}
