package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
)

// Target is an offscreen colour texture with a depth buffer. The panel
// front end draws the car into one and shows the texture as an image.
type Target struct {
	fbo    uint32
	color  uint32
	depth  uint32
	width  int32
	height int32
}

// NewTarget creates a target of at least 1x1 pixels.
func NewTarget(width, height int) (*Target, error) {
	t := &Target{}
	t.width, t.height = targetSize(width, height)

	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.color)
	gl.GenRenderbuffers(1, &t.depth)
	t.allocate()

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Delete()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	logger.Debug("render target created",
		zap.Int32("width", t.width),
		zap.Int32("height", t.height),
	)
	return t, nil
}

func targetSize(width, height int) (int32, int32) {
	return int32(max(width, 1)), int32(max(height, 1))
}

func (t *Target) allocate() {
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// Resize reallocates the attachments when the size changed.
func (t *Target) Resize(width, height int) {
	w, h := targetSize(width, height)
	if w == t.width && h == t.height {
		return
	}
	t.width, t.height = w, h
	t.allocate()
}

// Texture returns the colour attachment.
func (t *Target) Texture() uint32 {
	return t.color
}

// Size returns the target size in pixels.
func (t *Target) Size() (int, int) {
	return int(t.width), int(t.height)
}

// Delete releases the GL objects.
func (t *Target) Delete() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.color)
	gl.DeleteRenderbuffers(1, &t.depth)
	t.fbo, t.color, t.depth = 0, 0, 0
}

// Bind redirects drawing into t and sizes the renderer to it. The returned
// function restores the previous framebuffer and viewport.
func (r *Renderer) Bind(t *Target) func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])
	prevW, prevH := r.width, r.height

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	r.width, r.height = int(t.width), int(t.height)
	gl.Viewport(0, 0, t.width, t.height)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
		r.width, r.height = prevW, prevH
	}
}
