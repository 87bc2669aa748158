package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// lineBuffer streams debug line vertices each frame.
type lineBuffer struct {
	vao, vbo uint32
	capacity int // In floats
}

func newLineBuffer() *lineBuffer {
	lb := &lineBuffer{}
	gl.GenVertexArrays(1, &lb.vao)
	gl.GenBuffers(1, &lb.vbo)
	gl.BindVertexArray(lb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, lb.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	// Normals are unused by unlit draws
	gl.DisableVertexAttribArray(1)
	gl.VertexAttrib3f(1, 0, 1, 0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return lb
}

func (lb *lineBuffer) upload(vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, lb.vbo)
	if len(vertices) > lb.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
		lb.capacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (lb *lineBuffer) delete() {
	gl.DeleteBuffers(1, &lb.vbo)
	gl.DeleteVertexArrays(1, &lb.vao)
}

// DrawLines draws world-space line segments, [x, y, z] per vertex, in a
// flat colour on top of the scene.
func (r *Renderer) DrawLines(vertices []float32, color mgl32.Vec4) {
	if len(vertices) < 6 {
		return
	}
	r.lines.upload(vertices)

	p := r.program
	p.Use()
	p.SetBool("uUnlit", true)
	p.SetMat4("uModel", mgl32.Ident4())
	p.SetVec4("uColor", color)

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.lines.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
	p.SetBool("uUnlit", false)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.width, r.height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
